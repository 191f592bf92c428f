package repository

import (
	"context"

	"app/internal/domain/model"
)

// ユーザー通知の保存・取得の約束。
// Createがnotify(userId, title, body)に相当する。
type NotificationRepository interface {
	Create(ctx context.Context, n model.Notification) error
	ListByUserID(ctx context.Context, userID int64) ([]model.Notification, error)
	MarkAsRead(ctx context.Context, notificationID int64, userID int64) error
}
