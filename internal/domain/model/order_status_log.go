package model

import "time"

// 注文ステータスの履歴。追記のみで、更新も削除もしない。
// 遷移1回につき1行。created_at順で注文のタイムラインになる。
type OrderStatusLog struct {
	ID        int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64       `gorm:"not null;index" json:"order_id"`
	Status    OrderStatus `gorm:"type:varchar(20);not null" json:"status"`
	Note      string      `gorm:"type:varchar(255)" json:"note"`
	CreatedAt time.Time   `gorm:"not null;autoCreateTime;index" json:"created_at"`
}
