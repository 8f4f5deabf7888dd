package model

// 税（Stripeのtax rateを参照）
type Tax struct {
	ID              int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string `gorm:"type:varchar(30);not null" json:"name"`
	StripeTaxRateID string `gorm:"type:varchar(255)" json:"stripe_tax_rate_id"`
}
