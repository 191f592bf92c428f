package repository

import (
	"context"

	"app/internal/domain/model"
)

// 注文明細。注文確定時に一括作成し、以降は読み取りのみ。
type OrderItemRepository interface {
	//単価・商品名スナップショットごと一括保存
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	//注文IDで明細一覧
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
}
