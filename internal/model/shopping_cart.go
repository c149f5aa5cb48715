package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ShoppingCart 购物车条目：按用户隔离的待下单商品。
// 下单成功后该用户的全部条目被整批清空。
type ShoppingCart struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID     int64           `gorm:"not null;index" json:"user_id"`
	Name       string          `gorm:"size:64;not null" json:"name"`
	Image      string          `gorm:"size:255" json:"image"`
	DishID     *uint           `json:"dish_id"`
	SetmealID  *uint           `json:"setmeal_id"`
	DishFlavor string          `gorm:"size:64" json:"dish_flavor"`
	Number     int             `gorm:"not null;default:1" json:"number"`
	Amount     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"` // 单价
}

func (ShoppingCart) TableName() string { return "shopping_carts" }
