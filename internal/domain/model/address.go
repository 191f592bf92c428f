package model

import "time"

// 配送先住所
type Address struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"not null;index;uniqueIndex:uniq_user_default_address,where:is_default" json:"user_id"`

	//通り
	Street string `gorm:"type:varchar(255);not null" json:"street"`

	//建物
	Building string `gorm:"type:varchar(100);not null" json:"building"`

	//階数
	Floor string `gorm:"type:varchar(20);not null" json:"floor"`

	//部屋番号
	Apartment string `gorm:"type:varchar(20);not null" json:"apartment"`

	//市
	City string `gorm:"type:varchar(255);not null" json:"city"`

	//配達メモ
	Note string `gorm:"type:varchar(255)" json:"note"`

	//このユーザーのデフォルト住所か。
	//userにつき最大1つは部分uniqueインデックス（user_id WHERE is_default）で保証する。
	IsDefault bool `gorm:"not null;default:false" json:"is_default"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
