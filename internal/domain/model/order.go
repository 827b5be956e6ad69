package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 管理者が任意の文字列を入れられるので閉じたenumにはしない
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusPaid      OrderStatus = "Paid"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCanceled  OrderStatus = "Canceled"
)

// 代引きの注文。TotalPriceは作成時に一度だけ計算して保存する。
type Order struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64           `gorm:"not null;index" json:"user_id"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
	Status     OrderStatus     `gorm:"type:varchar(50);not null;index" json:"status"`

	//配送先（入力そのまま）
	FullName string `gorm:"type:varchar(200);not null" json:"full_name"`
	Phone    string `gorm:"type:varchar(20);not null" json:"phone"`
	Province string `gorm:"type:varchar(100);not null" json:"province"`
	Address  string `gorm:"type:varchar(500);not null" json:"address"`

	Items     []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt time.Time   `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time   `gorm:"not null" json:"updated_at"`
}
