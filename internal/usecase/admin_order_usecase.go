package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/logkey"
	repo "storefront/internal/repository"
)

type AdminOrderUsecase struct {
	tx     repo.TransactionManager
	policy StatusPolicy
	clock  Clock
	logger *slog.Logger
}

func NewAdminOrderUsecase(tx repo.TransactionManager, policy StatusPolicy, clock Clock, logger *slog.Logger) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, policy: policy, clock: clock, logger: logger}
}

type AdminUpdateOrderStatusInput struct {
	Status string
}

// 注文一覧
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) ([]OrderOutput, error) {
	// page/limitの最低限チェック
	if f.Page < 1 {
		return []OrderOutput{}, validationError("invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return []OrderOutput{}, validationError("invalid limit")
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return []OrderOutput{}, validationError("from must be <= to")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListAdmin(ctx, f)
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

// UpdateStatus はラベルを書き換えて監査ログを残す。同じ値なら何もしない。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorAdminUserID int64, orderID int64, in AdminUpdateOrderStatusInput) error {
	if actorAdminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return validationError("invalid id")
	}

	newStatus := model.OrderStatus(strings.TrimSpace(in.Status))
	if newStatus == "" {
		return validationError("status required")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFoundError()
		}
		if err != nil {
			return persistenceError()
		}

		// すでに同じなら何もしない（200）
		if o.Status == newStatus {
			return nil
		}
		if !u.policy.Allow(o.Status, newStatus) {
			return validationError("invalid status transition")
		}

		now := u.clock.Now()
		if err := r.Orders().UpdateStatus(ctx, orderID, newStatus, now); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return notFoundError()
			}
			return persistenceError()
		}

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorAdminUserID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   statusJSON(o.Status),
			AfterJSON:    statusJSON(newStatus),
			CreatedAt:    now,
		}); err != nil {
			return persistenceError()
		}

		u.logger.InfoContext(ctx, "order status updated",
			slog.Int64(logkey.OrderID, orderID),
			slog.Int64(logkey.UserID, actorAdminUserID),
			slog.String("from", string(o.Status)),
			slog.String(logkey.Status, string(newStatus)))
		return nil
	})
	return err
}

// ラベルは自由入力なのでエスケープしてから埋める
func statusJSON(s model.OrderStatus) string {
	b, _ := json.Marshal(map[string]string{"status": string(s)})
	return string(b)
}

// 履歴のページング。from/to は作成日時で絞る（両端を含む）。
type OrderHistoryQuery struct {
	Page  int
	Limit int
	From  *time.Time
	To    *time.Time
}

// 注文ごとのステータス変更履歴（新しい順）
func (u *AdminOrderUsecase) History(ctx context.Context, orderID int64, q OrderHistoryQuery) ([]model.AuditLog, error) {
	if orderID <= 0 {
		return []model.AuditLog{}, validationError("invalid id")
	}
	if q.Page < 1 {
		return []model.AuditLog{}, validationError("invalid page")
	}
	if q.Limit < 1 || q.Limit > 200 {
		return []model.AuditLog{}, validationError("invalid limit")
	}
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return []model.AuditLog{}, validationError("from must be <= to")
	}

	var logs []model.AuditLog
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Orders().FindByID(ctx, orderID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return notFoundError()
			}
			return persistenceError()
		}

		found, err := r.AuditLogs().ListByResource(ctx, repo.AuditLogFilter{
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			From:         q.From,
			To:           q.To,
			Limit:        q.Limit,
			Offset:       (q.Page - 1) * q.Limit,
		})
		if err != nil {
			return persistenceError()
		}
		logs = found
		return nil
	})
	if err != nil {
		return []model.AuditLog{}, err
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return logs, nil
}
