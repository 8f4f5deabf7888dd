package model

import "slices"

// 訪問者ごとのカート（セッションに保存、DBには入れない）
type CartSession struct {
	ItemIDs    []int64 `json:"item_ids"`
	DiscountID *int64  `json:"discount_id,omitempty"`
	TaxID      *int64  `json:"tax_id,omitempty"`
}

// 既に入っていれば何もしない
func (s *CartSession) Add(itemID int64) bool {
	if slices.Contains(s.ItemIDs, itemID) {
		return false
	}
	s.ItemIDs = append(s.ItemIDs, itemID)
	return true
}

func (s *CartSession) SelectDiscount(id *int64) {
	s.DiscountID = id
}

func (s *CartSession) SelectTax(id *int64) {
	s.TaxID = id
}

func (s *CartSession) Clear() {
	s.ItemIDs = nil
	s.DiscountID = nil
	s.TaxID = nil
}

// 呼び出し側が書き換えても影響しないようにコピーを返す
func (s CartSession) Items() []int64 {
	return slices.Clone(s.ItemIDs)
}

func (s CartSession) IsEmpty() bool {
	return len(s.ItemIDs) == 0
}
