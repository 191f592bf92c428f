package repository

import (
	"context"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

type OrderStatusLogGormRepository struct {
	db *gorm.DB
}

// DI
func NewOrderStatusLogGormRepository(db *gorm.DB) *OrderStatusLogGormRepository {
	return &OrderStatusLogGormRepository{db: db}
}

// 履歴を1行追加。INSERTのみでUPDATE/DELETEはしない。
func (r *OrderStatusLogGormRepository) Create(ctx context.Context, log model.OrderStatusLog) error {
	return r.db.WithContext(ctx).Create(&log).Error
}

// タイムラインをcreated_at昇順で取得
func (r *OrderStatusLogGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderStatusLog, error) {
	var logs []model.OrderStatusLog
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at asc, id asc").
		Find(&logs).Error; err != nil {
		return []model.OrderStatusLog{}, err
	}
	return logs, nil
}
