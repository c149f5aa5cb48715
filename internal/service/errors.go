package service

import "errors"

// 业务错误，路由层负责翻译成响应。
var (
	ErrAddressNotFound   = errors.New("address book entry not found")
	ErrCartEmpty         = errors.New("shopping cart is empty")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidOrderState = errors.New("order state does not allow this operation")
	ErrDishOnSale        = errors.New("dish is on sale and cannot be deleted")
	ErrDishInUse         = errors.New("dish is referenced by a setmeal and cannot be deleted")
)
