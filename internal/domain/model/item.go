package model

import (
	"storefront/internal/domain/currency"

	"github.com/shopspring/decimal"
)

// 商品
type Item struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Description string          `gorm:"type:varchar(200);not null" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Currency    currency.Code   `gorm:"type:varchar(3);not null;default:'usd'" json:"currency"`
}
