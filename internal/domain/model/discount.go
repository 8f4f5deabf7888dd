package model

// 割引（Stripeのクーポンを参照）
type Discount struct {
	ID             int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string `gorm:"type:varchar(30);not null" json:"name"`
	StripeCouponID string `gorm:"type:varchar(255)" json:"stripe_coupon_id"`
}
