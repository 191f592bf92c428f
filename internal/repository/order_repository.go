package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
	From   *time.Time
	To     *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)
	//作成した注文をID・created_at込みで返す
	Create(ctx context.Context, order model.Order) (model.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error

	//コールバック引き当て用（merchant_order_id → Order）
	FindByMerchantRef(ctx context.Context, merchantRef string) (model.Order, error)

	//payment_statusの無条件更新（管理者オーバーライド用）
	UpdatePaymentStatus(ctx context.Context, orderID int64, status model.PaymentStatus) error

	//payment_statusの条件付き更新。すでに同じ値なら何もせずfalseを返す。
	//Webhook再送の冪等化はこの1文で行う（2回目は行が変わらない）。
	UpdatePaymentStatusIfDiffers(ctx context.Context, orderID int64, status model.PaymentStatus) (bool, error)

	//管理者用の注文一覧
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
}
