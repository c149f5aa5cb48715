package model

import (
	"time"

	"gorm.io/gorm"
)

// AddressBook 用户收货地址；订单工作流只读，下单时做字段快照。
type AddressBook struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID    int64  `gorm:"not null;index" json:"user_id"`
	Consignee string `gorm:"size:64;not null" json:"consignee"`
	Phone     string `gorm:"size:32;not null" json:"phone"`
	Detail    string `gorm:"size:255;not null" json:"detail"`
	Label     string `gorm:"size:32" json:"label"`
	IsDefault bool   `gorm:"not null;default:false" json:"is_default"`
}

func (AddressBook) TableName() string { return "address_books" }
