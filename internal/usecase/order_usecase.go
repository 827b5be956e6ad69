package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"storefront/internal/domain/model"
	"storefront/internal/logkey"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

// 通知に渡すctxのタイムアウト（未指定のとき）
const defaultNotifyTimeout = 10 * time.Second

type OrderUsecase struct {
	tx            repo.TransactionManager
	notifier      OrderNotifier
	notifyTimeout time.Duration
	deliveryFee   decimal.Decimal
	clock         Clock
	logger        *slog.Logger
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	notifier OrderNotifier,
	notifyTimeout time.Duration,
	deliveryFee decimal.Decimal,
	clock Clock,
	logger *slog.Logger,
) *OrderUsecase {
	if notifyTimeout <= 0 {
		notifyTimeout = defaultNotifyTimeout
	}
	return &OrderUsecase{
		tx:            tx,
		notifier:      notifier,
		notifyTimeout: notifyTimeout,
		deliveryFee:   deliveryFee,
		clock:         clock,
		logger:        logger,
	}
}

// 配送先。代引きなので住所はそのまま保存する。
type ShippingDetails struct {
	FullName string
	Phone    string
	Province string
	Address  string
}

type PlaceOrderInput struct {
	Shipping ShippingDetails
	Lines    []CartLine
}

type OrderItemOutput struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
	Note      string          `json:"note"`
}

type OrderOutput struct {
	ID         int64             `json:"id"`
	UserID     int64             `json:"user_id"`
	Status     string            `json:"status"`
	TotalPrice decimal.Decimal   `json:"total_price"`
	FullName   string            `json:"full_name"`
	Phone      string            `json:"phone"`
	Province   string            `json:"province"`
	Address    string            `json:"address"`
	CreatedAt  time.Time         `json:"created_at"`
	Items      []OrderItemOutput `json:"items"`
}

func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if len(in.Lines) == 0 {
		return OrderOutput{}, emptyCartError()
	}
	if err := validateShipping(in.Shipping); err != nil {
		return OrderOutput{}, err
	}
	for _, l := range in.Lines {
		if utf8.RuneCountInString(l.Note) > MaxNoteLength {
			return OrderOutput{}, validationError("note too long")
		}
	}

	var created model.Order

	//シェル作成から合計の保存までを1トランザクションで
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		now := u.clock.Now()
		order := model.Order{
			UserID:     userID,
			TotalPrice: decimal.Zero,
			Status:     model.OrderStatusPending,
			FullName:   in.Shipping.FullName,
			Phone:      in.Shipping.Phone,
			Province:   in.Shipping.Province,
			Address:    in.Shipping.Address,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		order.ID = orderID

		items := make([]model.OrderItem, 0, len(in.Lines))
		for _, l := range in.Lines {
			p, err := r.Products().FindByID(ctx, l.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				//削除済みなどは黙って落とす
				continue
			}
			if err != nil {
				return fmt.Errorf("find product %d: %w", l.ProductID, err)
			}

			//価格はこの時点のものを固定
			items = append(items, model.OrderItem{
				ProductID:            p.ID,
				ProductTitleSnapshot: p.Title,
				Quantity:             1,
				Price:                p.Price,
				Note:                 l.Note,
				CreatedAt:            now,
			})
		}
		if len(items) == 0 {
			return emptyCartError()
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, items); err != nil {
			return fmt.Errorf("create order items: %w", err)
		}

		total := u.deliveryFee
		for _, it := range items {
			total = total.Add(it.Price)
		}
		if err := r.Orders().UpdateTotal(ctx, orderID, total, now); err != nil {
			return fmt.Errorf("update total: %w", err)
		}

		order.TotalPrice = total
		order.Items = items
		created = order
		return nil
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return OrderOutput{}, err
		}
		u.logger.ErrorContext(ctx, "place order failed",
			slog.Int64(logkey.UserID, userID),
			slog.String(logkey.Error, err.Error()))
		return OrderOutput{}, persistenceError()
	}

	u.logger.InfoContext(ctx, "order created",
		slog.Int64(logkey.OrderID, created.ID),
		slog.Int64(logkey.UserID, userID),
		slog.Int("items", len(created.Items)),
		slog.String("total", created.TotalPrice.String()))

	u.notify(ctx, created)

	return toOrderOutput(created, created.Items), nil
}

// コミット後に呼ぶ。クライアントが切断しても送信は最後までやる。
func (u *OrderUsecase) notify(ctx context.Context, order model.Order) {
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), u.notifyTimeout)
	defer cancel()

	res := u.notifier.NotifyOrderCreated(nctx, order)
	switch {
	case res.Err != nil:
		u.logger.WarnContext(ctx, "order notification failed",
			slog.Int64(logkey.OrderID, order.ID),
			slog.String(logkey.Error, fmt.Errorf("%w: %w", ErrNotification, res.Err).Error()))
	case res.Skipped:
		u.logger.DebugContext(ctx, "order notification skipped", slog.Int64(logkey.OrderID, order.ID))
	}
}

func validateShipping(s ShippingDetails) error {
	switch {
	case strings.TrimSpace(s.FullName) == "":
		return validationError("full_name required")
	case strings.TrimSpace(s.Phone) == "":
		return validationError("phone required")
	case strings.TrimSpace(s.Province) == "":
		return validationError("province required")
	case strings.TrimSpace(s.Address) == "":
		return validationError("address required")
	}
	return nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	//ページングでまずは固定で取る
	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByUserID(ctx, userID, 1, 50)
		if err != nil {
			return persistenceError()
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return persistenceError()
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, validationError("invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFoundError()
		}
		if err != nil {
			return persistenceError()
		}
		if o.UserID != userID {
			//他人の注文は「存在しない扱い」にする
			return notFoundError()
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return persistenceError()
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ID:        it.ID,
			ProductID: it.ProductID,
			Title:     it.ProductTitleSnapshot,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Note:      it.Note,
		})
	}

	return OrderOutput{
		ID:         o.ID,
		UserID:     o.UserID,
		Status:     string(o.Status),
		TotalPrice: o.TotalPrice,
		FullName:   o.FullName,
		Phone:      o.Phone,
		Province:   o.Province,
		Address:    o.Address,
		CreatedAt:  o.CreatedAt,
		Items:      outItems,
	}
}
