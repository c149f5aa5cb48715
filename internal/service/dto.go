package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ada-zs1125/sky-take-out/internal/model"
)

// OrderSubmitDTO 用户下单请求。
type OrderSubmitDTO struct {
	AddressBookID uint            `json:"address_book_id" binding:"required,min=1"`
	PayMethod     int             `json:"pay_method"`
	Amount        decimal.Decimal `json:"amount"`
	Remark        string          `json:"remark"`
}

// OrderSubmitVO 下单成功后的回执。
type OrderSubmitVO struct {
	ID          uint            `json:"id"`
	OrderNumber string          `json:"order_number"`
	OrderAmount decimal.Decimal `json:"order_amount"`
	OrderTime   time.Time       `json:"order_time"`
}

// OrderVO 订单聚合：订单 + 明细。
type OrderVO struct {
	model.Order
	OrderDetailList []model.OrderDetail `json:"order_detail_list"`
}

// PageResult 统一分页返回结构。
type PageResult struct {
	Total   int64 `json:"total"`
	Records any   `json:"records"`
}

// DishDTO 新增/修改菜品请求，口味随菜品整批提交。
type DishDTO struct {
	ID          uint               `json:"id"`
	Name        string             `json:"name" binding:"required"`
	CategoryID  uint               `json:"category_id" binding:"required,min=1"`
	Price       decimal.Decimal    `json:"price"`
	Image       string             `json:"image"`
	Description string             `json:"description"`
	Status      int                `json:"status"`
	Flavors     []model.DishFlavor `json:"flavors"`
}

// DishVO 菜品聚合：菜品 + 口味。
type DishVO struct {
	model.Dish
	Flavors []model.DishFlavor `json:"flavors"`
}

// CartItemDTO 添加购物车请求：菜品或套餐二选一。
type CartItemDTO struct {
	DishID     *uint  `json:"dish_id"`
	SetmealID  *uint  `json:"setmeal_id"`
	DishFlavor string `json:"dish_flavor"`
}
