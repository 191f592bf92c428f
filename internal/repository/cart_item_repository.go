package repository

import (
	"context"

	"app/internal/domain/model"
)

type CartItemRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)

	//注文確定用。行ロック付きで取得し、同一ユーザーの同時checkoutを直列化する。
	ListByUserIDForUpdate(ctx context.Context, userID int64) ([]model.CartItem, error)

	// 同一商品はプラス
	UpsertByUserAndProduct(ctx context.Context, userID int64, productID int64, addQty int64) error
	UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error
	DeleteByID(ctx context.Context, cartItemID int64) error
	FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error)
	IsOwnedByUser(ctx context.Context, cartItemID int64, userID int64) (bool, error)

	//ユーザーの明細を全削除（checkout成功時・明示クリア時）
	DeleteByUserID(ctx context.Context, userID int64) error
}
