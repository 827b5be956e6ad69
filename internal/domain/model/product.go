package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// カタログ上の商品。stockは表示用で、注文時に減算しない。
type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string          `gorm:"type:varchar(255);not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Category    string          `gorm:"type:varchar(100);index" json:"category"`
	University  string          `gorm:"type:varchar(200)" json:"university"`
	College     string          `gorm:"type:varchar(200)" json:"college"`
	GradYear    string          `gorm:"type:varchar(10)" json:"grad_year"`
	ImageURL    string          `gorm:"type:varchar(500)" json:"image_url"`
	Stock       int64           `gorm:"not null;default:0" json:"stock"`

	//カスタマイズ可否
	CanCustomizeName  bool `gorm:"not null;default:false" json:"can_customize_name"`
	CanCustomizePhoto bool `gorm:"not null;default:false" json:"can_customize_photo"`
	CanSelectYear     bool `gorm:"not null" json:"can_select_year"`

	Images    []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
}

type ProductImage struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64  `gorm:"not null;index" json:"product_id"`
	URL       string `gorm:"type:varchar(500);not null" json:"url"`
	SortOrder int    `gorm:"not null;default:0" json:"sort_order"`
}

type Category struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	SortOrder int    `gorm:"not null;default:0" json:"sort_order"`
}
