package repository

import (
	"context"

	"app/internal/domain/model"
)

// ステータス履歴の保存・取得の約束。追記のみ。
type OrderStatusLogRepository interface {
	//履歴を1行追加
	Create(ctx context.Context, log model.OrderStatusLog) error

	//注文のタイムラインをcreated_at昇順で返す
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderStatusLog, error)
}
