package model

import (
	"time"

	"storefront/internal/domain/currency"

	"github.com/shopspring/decimal"
)

// 注文履歴。作成後は更新しない。
// 割引・税が削除されたら参照だけNULLになる。商品が削除されたらorder_itemsの行だけ消える。
type Order struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Items      []Item    `gorm:"many2many:order_items;constraint:OnDelete:CASCADE;" json:"items"`
	DiscountID *int64    `gorm:"index" json:"discount_id"`
	Discount   *Discount `gorm:"constraint:OnDelete:SET NULL;" json:"discount,omitempty"`
	TaxID      *int64    `gorm:"index" json:"tax_id"`
	Tax        *Tax      `gorm:"constraint:OnDelete:SET NULL;" json:"tax,omitempty"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created"`
}

// Total は「現在の」商品価格から合計を出す（注文時の価格は保存していない）。
func (o Order) Total(cur currency.Code) decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(currency.Convert(it.Price, it.Currency, cur))
	}
	return currency.Quantize(total)
}

func (o Order) ItemIDs() []int64 {
	ids := make([]int64, 0, len(o.Items))
	for _, it := range o.Items {
		ids = append(ids, it.ID)
	}
	return ids
}
