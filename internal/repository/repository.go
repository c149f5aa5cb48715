package repository

import (
	"context"
	"errors"

	"github.com/ada-zs1125/sky-take-out/internal/model"
)

// ErrNotFound 实体不存在时由各仓储返回。
var ErrNotFound = errors.New("not found")

// OrderPageFilter 订单分页查询条件。
// 用显式字段代替"半填实体当查询条件"的动态查询写法。
type OrderPageFilter struct {
	UserID   int64
	Status   *int
	Page     int
	PageSize int
}

// CartFilter 购物车查询条件；DishID/SetmealID/DishFlavor 为 nil 时不参与过滤。
type CartFilter struct {
	UserID     int64
	DishID     *uint
	SetmealID  *uint
	DishFlavor *string
}

// DishFilter 菜品列表查询条件。
type DishFilter struct {
	CategoryID *uint
	Status     *int
	Name       string
}

// DishPageFilter 菜品分页查询条件。
type DishPageFilter struct {
	DishFilter
	Page     int
	PageSize int
}

type OrderRepository interface {
	Create(ctx context.Context, o *model.Order) error
	GetByID(ctx context.Context, id uint) (*model.Order, error)
	Update(ctx context.Context, o *model.Order) error
	Page(ctx context.Context, f OrderPageFilter) (int64, []model.Order, error)
}

type OrderDetailRepository interface {
	CreateBatch(ctx context.Context, details []model.OrderDetail) error
	ListByOrderID(ctx context.Context, orderID uint) ([]model.OrderDetail, error)
}

type ShoppingCartRepository interface {
	Create(ctx context.Context, c *model.ShoppingCart) error
	CreateBatch(ctx context.Context, items []model.ShoppingCart) error
	Update(ctx context.Context, c *model.ShoppingCart) error
	List(ctx context.Context, f CartFilter) ([]model.ShoppingCart, error)
	DeleteByUserID(ctx context.Context, userID int64) error
}

type AddressBookRepository interface {
	Create(ctx context.Context, a *model.AddressBook) error
	GetByID(ctx context.Context, id uint) (*model.AddressBook, error)
	ListByUserID(ctx context.Context, userID int64) ([]model.AddressBook, error)
}

type DishRepository interface {
	Create(ctx context.Context, d *model.Dish) error
	GetByID(ctx context.Context, id uint) (*model.Dish, error)
	Update(ctx context.Context, d *model.Dish) error
	DeleteByIDs(ctx context.Context, ids []uint) error
	List(ctx context.Context, f DishFilter) ([]model.Dish, error)
	Page(ctx context.Context, f DishPageFilter) (int64, []model.Dish, error)
}

type DishFlavorRepository interface {
	CreateBatch(ctx context.Context, flavors []model.DishFlavor) error
	ListByDishID(ctx context.Context, dishID uint) ([]model.DishFlavor, error)
	DeleteByDishIDs(ctx context.Context, dishIDs []uint) error
}

type SetmealRepository interface {
	GetByID(ctx context.Context, id uint) (*model.Setmeal, error)
	UpdateStatus(ctx context.Context, id uint, status int) error
}

type SetmealDishRepository interface {
	SetmealIDsByDishIDs(ctx context.Context, dishIDs []uint) ([]uint, error)
}

// TxManager 事务边界抽象：fn 内的全部写入要么一起提交、要么一起回滚。
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
