package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Setmeal 套餐。被套餐引用的菜品不可删除；菜品停售时关联套餐同步停售。
type Setmeal struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string          `gorm:"size:64;uniqueIndex;not null" json:"name"`
	CategoryID  uint            `gorm:"not null;index" json:"category_id"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Image       string          `gorm:"size:255" json:"image"`
	Description string          `gorm:"size:255" json:"description"`
	Status      int             `gorm:"not null;default:1" json:"status"`
}

func (Setmeal) TableName() string { return "setmeals" }

// SetmealDish 套餐与菜品的关联行。
type SetmealDish struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	SetmealID uint            `gorm:"not null;index" json:"setmeal_id"`
	DishID    uint            `gorm:"not null;index" json:"dish_id"`
	Name      string          `gorm:"size:64" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	Copies    int             `gorm:"not null;default:1" json:"copies"`
}

func (SetmealDish) TableName() string { return "setmeal_dishes" }
