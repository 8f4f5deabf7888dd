package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// セッションIDごとのカート保存先。
// 無いセッションは空のカートとして返す。
type CartSessionRepository interface {
	Load(ctx context.Context, sessionID string) (model.CartSession, error)
	Save(ctx context.Context, sessionID string, cart model.CartSession) error
}
