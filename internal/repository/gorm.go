package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ada-zs1125/sky-take-out/internal/model"
)

// txKey 标记 context 中携带的事务句柄，仓储方法据此落在同一事务里。
type txKey struct{}

func dbFrom(ctx context.Context, base *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return base.WithContext(ctx)
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// GormTx 基于 gorm 的事务管理器：fn 返回 error 即整体回滚。
type GormTx struct{ db *gorm.DB }

func NewGormTx(db *gorm.DB) *GormTx { return &GormTx{db: db} }

func (t *GormTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// ---- orders ----

type GormOrders struct{ db *gorm.DB }

func NewGormOrders(db *gorm.DB) *GormOrders { return &GormOrders{db: db} }

var _ OrderRepository = (*GormOrders)(nil)

func (r *GormOrders) Create(ctx context.Context, o *model.Order) error {
	return dbFrom(ctx, r.db).Create(o).Error
}

func (r *GormOrders) GetByID(ctx context.Context, id uint) (*model.Order, error) {
	var o model.Order
	if err := dbFrom(ctx, r.db).First(&o, id).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *GormOrders) Update(ctx context.Context, o *model.Order) error {
	return dbFrom(ctx, r.db).Save(o).Error
}

// Page 按 order_time DESC, id DESC 稳定排序，保证跨页确定性。
func (r *GormOrders) Page(ctx context.Context, f OrderPageFilter) (int64, []model.Order, error) {
	where := func(q *gorm.DB) *gorm.DB {
		q = q.Where("user_id = ?", f.UserID)
		if f.Status != nil {
			q = q.Where("status = ?", *f.Status)
		}
		return q
	}

	var total int64
	if err := where(dbFrom(ctx, r.db).Model(&model.Order{})).Count(&total).Error; err != nil {
		return 0, nil, err
	}
	if total == 0 {
		return 0, nil, nil
	}

	var orders []model.Order
	err := where(dbFrom(ctx, r.db)).
		Order("order_time DESC, id DESC").
		Offset((f.Page - 1) * f.PageSize).
		Limit(f.PageSize).
		Find(&orders).Error
	if err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}

// ---- order details ----

type GormOrderDetails struct{ db *gorm.DB }

func NewGormOrderDetails(db *gorm.DB) *GormOrderDetails { return &GormOrderDetails{db: db} }

var _ OrderDetailRepository = (*GormOrderDetails)(nil)

func (r *GormOrderDetails) CreateBatch(ctx context.Context, details []model.OrderDetail) error {
	if len(details) == 0 {
		return nil
	}
	return dbFrom(ctx, r.db).Create(&details).Error
}

func (r *GormOrderDetails) ListByOrderID(ctx context.Context, orderID uint) ([]model.OrderDetail, error) {
	var details []model.OrderDetail
	err := dbFrom(ctx, r.db).Where("order_id = ?", orderID).Order("id").Find(&details).Error
	return details, err
}

// ---- shopping carts ----

type GormCarts struct{ db *gorm.DB }

func NewGormCarts(db *gorm.DB) *GormCarts { return &GormCarts{db: db} }

var _ ShoppingCartRepository = (*GormCarts)(nil)

func (r *GormCarts) Create(ctx context.Context, c *model.ShoppingCart) error {
	return dbFrom(ctx, r.db).Create(c).Error
}

func (r *GormCarts) CreateBatch(ctx context.Context, items []model.ShoppingCart) error {
	if len(items) == 0 {
		return nil
	}
	return dbFrom(ctx, r.db).Create(&items).Error
}

func (r *GormCarts) Update(ctx context.Context, c *model.ShoppingCart) error {
	return dbFrom(ctx, r.db).Save(c).Error
}

func (r *GormCarts) List(ctx context.Context, f CartFilter) ([]model.ShoppingCart, error) {
	q := dbFrom(ctx, r.db).Where("user_id = ?", f.UserID)
	if f.DishID != nil {
		q = q.Where("dish_id = ?", *f.DishID)
	}
	if f.SetmealID != nil {
		q = q.Where("setmeal_id = ?", *f.SetmealID)
	}
	if f.DishFlavor != nil {
		q = q.Where("dish_flavor = ?", *f.DishFlavor)
	}
	var items []model.ShoppingCart
	err := q.Order("id").Find(&items).Error
	return items, err
}

// DeleteByUserID 整批清空该用户购物车，不逐条删除。
func (r *GormCarts) DeleteByUserID(ctx context.Context, userID int64) error {
	return dbFrom(ctx, r.db).Where("user_id = ?", userID).Delete(&model.ShoppingCart{}).Error
}

// ---- address books ----

type GormAddressBooks struct{ db *gorm.DB }

func NewGormAddressBooks(db *gorm.DB) *GormAddressBooks { return &GormAddressBooks{db: db} }

var _ AddressBookRepository = (*GormAddressBooks)(nil)

func (r *GormAddressBooks) Create(ctx context.Context, a *model.AddressBook) error {
	return dbFrom(ctx, r.db).Create(a).Error
}

func (r *GormAddressBooks) GetByID(ctx context.Context, id uint) (*model.AddressBook, error) {
	var a model.AddressBook
	if err := dbFrom(ctx, r.db).First(&a, id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *GormAddressBooks) ListByUserID(ctx context.Context, userID int64) ([]model.AddressBook, error) {
	var list []model.AddressBook
	err := dbFrom(ctx, r.db).Where("user_id = ?", userID).Order("id").Find(&list).Error
	return list, err
}

// ---- dishes ----

type GormDishes struct{ db *gorm.DB }

func NewGormDishes(db *gorm.DB) *GormDishes { return &GormDishes{db: db} }

var _ DishRepository = (*GormDishes)(nil)

func (r *GormDishes) Create(ctx context.Context, d *model.Dish) error {
	return dbFrom(ctx, r.db).Create(d).Error
}

func (r *GormDishes) GetByID(ctx context.Context, id uint) (*model.Dish, error) {
	var d model.Dish
	if err := dbFrom(ctx, r.db).First(&d, id).Error; err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

func (r *GormDishes) Update(ctx context.Context, d *model.Dish) error {
	return dbFrom(ctx, r.db).Save(d).Error
}

func (r *GormDishes) DeleteByIDs(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return dbFrom(ctx, r.db).Delete(&model.Dish{}, ids).Error
}

func dishWhere(q *gorm.DB, f DishFilter) *gorm.DB {
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.Name != "" {
		q = q.Where("name LIKE ?", "%"+f.Name+"%")
	}
	return q
}

func (r *GormDishes) List(ctx context.Context, f DishFilter) ([]model.Dish, error) {
	var list []model.Dish
	err := dishWhere(dbFrom(ctx, r.db), f).Order("id").Find(&list).Error
	return list, err
}

func (r *GormDishes) Page(ctx context.Context, f DishPageFilter) (int64, []model.Dish, error) {
	var total int64
	if err := dishWhere(dbFrom(ctx, r.db).Model(&model.Dish{}), f.DishFilter).Count(&total).Error; err != nil {
		return 0, nil, err
	}
	if total == 0 {
		return 0, nil, nil
	}
	var list []model.Dish
	err := dishWhere(dbFrom(ctx, r.db), f.DishFilter).
		Order("created_at DESC, id DESC").
		Offset((f.Page - 1) * f.PageSize).
		Limit(f.PageSize).
		Find(&list).Error
	if err != nil {
		return 0, nil, err
	}
	return total, list, nil
}

// ---- dish flavors ----

type GormDishFlavors struct{ db *gorm.DB }

func NewGormDishFlavors(db *gorm.DB) *GormDishFlavors { return &GormDishFlavors{db: db} }

var _ DishFlavorRepository = (*GormDishFlavors)(nil)

func (r *GormDishFlavors) CreateBatch(ctx context.Context, flavors []model.DishFlavor) error {
	if len(flavors) == 0 {
		return nil
	}
	return dbFrom(ctx, r.db).Create(&flavors).Error
}

func (r *GormDishFlavors) ListByDishID(ctx context.Context, dishID uint) ([]model.DishFlavor, error) {
	var flavors []model.DishFlavor
	err := dbFrom(ctx, r.db).Where("dish_id = ?", dishID).Order("id").Find(&flavors).Error
	return flavors, err
}

func (r *GormDishFlavors) DeleteByDishIDs(ctx context.Context, dishIDs []uint) error {
	if len(dishIDs) == 0 {
		return nil
	}
	return dbFrom(ctx, r.db).Where("dish_id IN ?", dishIDs).Delete(&model.DishFlavor{}).Error
}

// ---- setmeals ----

type GormSetmeals struct{ db *gorm.DB }

func NewGormSetmeals(db *gorm.DB) *GormSetmeals { return &GormSetmeals{db: db} }

var _ SetmealRepository = (*GormSetmeals)(nil)

func (r *GormSetmeals) GetByID(ctx context.Context, id uint) (*model.Setmeal, error) {
	var s model.Setmeal
	if err := dbFrom(ctx, r.db).First(&s, id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *GormSetmeals) UpdateStatus(ctx context.Context, id uint, status int) error {
	return dbFrom(ctx, r.db).Model(&model.Setmeal{}).Where("id = ?", id).Update("status", status).Error
}

type GormSetmealDishes struct{ db *gorm.DB }

func NewGormSetmealDishes(db *gorm.DB) *GormSetmealDishes { return &GormSetmealDishes{db: db} }

var _ SetmealDishRepository = (*GormSetmealDishes)(nil)

func (r *GormSetmealDishes) SetmealIDsByDishIDs(ctx context.Context, dishIDs []uint) ([]uint, error) {
	if len(dishIDs) == 0 {
		return nil, nil
	}
	var ids []uint
	err := dbFrom(ctx, r.db).Model(&model.SetmealDish{}).
		Distinct("setmeal_id").
		Where("dish_id IN ?", dishIDs).
		Pluck("setmeal_id", &ids).Error
	return ids, err
}
