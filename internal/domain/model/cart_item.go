package model

import "time"

// カートの明細
// 価格は持たない。表示時も注文確定時も、その時点のProduct.Priceを参照する。
// 価格が固定されるのは注文確定（OrderItemへのコピー）の瞬間だけ。
type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;index:idx_cart_user_product,unique" json:"user_id"`
	ProductID int64     `gorm:"not null;index:idx_cart_user_product,unique" json:"product_id"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
