package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 售卖状态：1起售 0停售
const (
	StatusEnable  = 1
	StatusDisable = 0
)

// Dish 菜品。起售中的菜品不可删除。
type Dish struct {
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

func (Dish) TableName() string { return "dishes" }

// DishFlavor 菜品口味，随菜品整批增删。
type DishFlavor struct {
	ID     uint   `gorm:"primarykey" json:"id"`
	DishID uint   `gorm:"not null;index" json:"dish_id"`
	Name   string `gorm:"size:64;not null" json:"name"`
	Value  string `gorm:"size:255" json:"value"`
}

func (DishFlavor) TableName() string { return "dish_flavors" }
