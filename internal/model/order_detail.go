package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderDetail 订单明细：订单内的一个商品行，下单时整批写入。
type OrderDetail struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OrderID    uint            `gorm:"not null;index" json:"order_id"`
	Name       string          `gorm:"size:64;not null" json:"name"`
	Image      string          `gorm:"size:255" json:"image"`
	DishID     *uint           `json:"dish_id"`
	SetmealID  *uint           `json:"setmeal_id"`
	DishFlavor string          `gorm:"size:64" json:"dish_flavor"`
	Number     int             `gorm:"not null;default:1" json:"number"`
	Amount     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"` // 下单时的单价快照
}

func (OrderDetail) TableName() string { return "order_details" }
