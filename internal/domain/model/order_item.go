package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文明細。カート1行につき1行、数量は常に1。
// Priceは注文時点の価格で、後から商品を見に行かない。
type OrderItem struct {
	ID                   int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID              int64           `gorm:"not null;index" json:"order_id"`
	ProductID            int64           `gorm:"not null;index" json:"product_id"`
	ProductTitleSnapshot string          `gorm:"type:varchar(255);not null" json:"product_title"`
	Quantity             int64           `gorm:"not null;default:1" json:"quantity"`
	Price                decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Note                 string          `gorm:"type:varchar(500)" json:"note"`
	CreatedAt            time.Time       `gorm:"not null" json:"created_at"`
}
