package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ada-zs1125/sky-take-out/internal/model"
)

// MemoryStore 内存版存储，主要服务于测试。
// 事务语义：MemoryTx 持写锁执行，出错时整体恢复快照，模拟回滚。
type MemoryStore struct {
	mu sync.RWMutex

	orders        map[uint]model.Order
	details       map[uint]model.OrderDetail
	carts         map[uint]model.ShoppingCart
	addresses     map[uint]model.AddressBook
	dishes        map[uint]model.Dish
	flavors       map[uint]model.DishFlavor
	setmeals      map[uint]model.Setmeal
	setmealDishes map[uint]model.SetmealDish

	nextOrderID   uint
	nextDetailID  uint
	nextCartID    uint
	nextAddrID    uint
	nextDishID    uint
	nextFlavorID  uint
	nextSetmealID uint
	nextLinkID    uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orders:        make(map[uint]model.Order),
		details:       make(map[uint]model.OrderDetail),
		carts:         make(map[uint]model.ShoppingCart),
		addresses:     make(map[uint]model.AddressBook),
		dishes:        make(map[uint]model.Dish),
		flavors:       make(map[uint]model.DishFlavor),
		setmeals:      make(map[uint]model.Setmeal),
		setmealDishes: make(map[uint]model.SetmealDish),
		nextOrderID:   1,
		nextDetailID:  1,
		nextCartID:    1,
		nextAddrID:    1,
		nextDishID:    1,
		nextFlavorID:  1,
		nextSetmealID: 1,
		nextLinkID:    1,
	}
}

type memTxKey struct{}

func inMemTx(ctx context.Context) bool {
	v, ok := ctx.Value(memTxKey{}).(bool)
	return ok && v
}

func (m *MemoryStore) rlock(ctx context.Context) {
	if !inMemTx(ctx) {
		m.mu.RLock()
	}
}

func (m *MemoryStore) runlock(ctx context.Context) {
	if !inMemTx(ctx) {
		m.mu.RUnlock()
	}
}

func (m *MemoryStore) wlock(ctx context.Context) {
	if !inMemTx(ctx) {
		m.mu.Lock()
	}
}

func (m *MemoryStore) wunlock(ctx context.Context) {
	if !inMemTx(ctx) {
		m.mu.Unlock()
	}
}

func cloneMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// snapshot/restore 支撑 MemoryTx 的回滚。
func (m *MemoryStore) snapshot() *MemoryStore {
	return &MemoryStore{
		orders:        cloneMap(m.orders),
		details:       cloneMap(m.details),
		carts:         cloneMap(m.carts),
		addresses:     cloneMap(m.addresses),
		dishes:        cloneMap(m.dishes),
		flavors:       cloneMap(m.flavors),
		setmeals:      cloneMap(m.setmeals),
		setmealDishes: cloneMap(m.setmealDishes),
		nextOrderID:   m.nextOrderID,
		nextDetailID:  m.nextDetailID,
		nextCartID:    m.nextCartID,
		nextAddrID:    m.nextAddrID,
		nextDishID:    m.nextDishID,
		nextFlavorID:  m.nextFlavorID,
		nextSetmealID: m.nextSetmealID,
		nextLinkID:    m.nextLinkID,
	}
}

func (m *MemoryStore) restore(snap *MemoryStore) {
	m.orders = snap.orders
	m.details = snap.details
	m.carts = snap.carts
	m.addresses = snap.addresses
	m.dishes = snap.dishes
	m.flavors = snap.flavors
	m.setmeals = snap.setmeals
	m.setmealDishes = snap.setmealDishes
	m.nextOrderID = snap.nextOrderID
	m.nextDetailID = snap.nextDetailID
	m.nextCartID = snap.nextCartID
	m.nextAddrID = snap.nextAddrID
	m.nextDishID = snap.nextDishID
	m.nextFlavorID = snap.nextFlavorID
	m.nextSetmealID = snap.nextSetmealID
	m.nextLinkID = snap.nextLinkID
}

// MemoryTx 写锁内执行 fn，fn 出错则恢复快照。
type MemoryTx struct{ store *MemoryStore }

func NewMemoryTx(store *MemoryStore) *MemoryTx { return &MemoryTx{store: store} }

var _ TxManager = (*MemoryTx)(nil)

func (t *MemoryTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	snap := t.store.snapshot()
	if err := fn(context.WithValue(ctx, memTxKey{}, true)); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

// ---- orders ----

type MemoryOrders struct{ store *MemoryStore }

func NewMemoryOrders(store *MemoryStore) *MemoryOrders { return &MemoryOrders{store: store} }

var _ OrderRepository = (*MemoryOrders)(nil)

func (r *MemoryOrders) Create(ctx context.Context, o *model.Order) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	o.ID = r.store.nextOrderID
	r.store.nextOrderID++
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	r.store.orders[o.ID] = *o
	return nil
}

func (r *MemoryOrders) GetByID(ctx context.Context, id uint) (*model.Order, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	o, ok := r.store.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := o
	return &cp, nil
}

func (r *MemoryOrders) Update(ctx context.Context, o *model.Order) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	if _, ok := r.store.orders[o.ID]; !ok {
		return ErrNotFound
	}
	o.UpdatedAt = time.Now()
	r.store.orders[o.ID] = *o
	return nil
}

func (r *MemoryOrders) Page(ctx context.Context, f OrderPageFilter) (int64, []model.Order, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	matched := make([]model.Order, 0)
	for _, o := range r.store.orders {
		if o.UserID != f.UserID {
			continue
		}
		if f.Status != nil && o.Status != *f.Status {
			continue
		}
		matched = append(matched, o)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].OrderTime.Equal(matched[j].OrderTime) {
			return matched[i].OrderTime.After(matched[j].OrderTime)
		}
		return matched[i].ID > matched[j].ID
	})
	total := int64(len(matched))
	start := (f.Page - 1) * f.PageSize
	if start >= len(matched) {
		return total, nil, nil
	}
	end := start + f.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return total, matched[start:end], nil
}

// ---- order details ----

type MemoryOrderDetails struct{ store *MemoryStore }

func NewMemoryOrderDetails(store *MemoryStore) *MemoryOrderDetails {
	return &MemoryOrderDetails{store: store}
}

var _ OrderDetailRepository = (*MemoryOrderDetails)(nil)

func (r *MemoryOrderDetails) CreateBatch(ctx context.Context, details []model.OrderDetail) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	for i := range details {
		details[i].ID = r.store.nextDetailID
		r.store.nextDetailID++
		details[i].CreatedAt = time.Now()
		details[i].UpdatedAt = details[i].CreatedAt
		r.store.details[details[i].ID] = details[i]
	}
	return nil
}

func (r *MemoryOrderDetails) ListByOrderID(ctx context.Context, orderID uint) ([]model.OrderDetail, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	out := make([]model.OrderDetail, 0)
	for _, d := range r.store.details {
		if d.OrderID == orderID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ---- shopping carts ----

type MemoryCarts struct{ store *MemoryStore }

func NewMemoryCarts(store *MemoryStore) *MemoryCarts { return &MemoryCarts{store: store} }

var _ ShoppingCartRepository = (*MemoryCarts)(nil)

func (r *MemoryCarts) Create(ctx context.Context, c *model.ShoppingCart) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	c.ID = r.store.nextCartID
	r.store.nextCartID++
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.store.carts[c.ID] = *c
	return nil
}

func (r *MemoryCarts) CreateBatch(ctx context.Context, items []model.ShoppingCart) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	for i := range items {
		items[i].ID = r.store.nextCartID
		r.store.nextCartID++
		items[i].UpdatedAt = items[i].CreatedAt
		r.store.carts[items[i].ID] = items[i]
	}
	return nil
}

func (r *MemoryCarts) Update(ctx context.Context, c *model.ShoppingCart) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	if _, ok := r.store.carts[c.ID]; !ok {
		return ErrNotFound
	}
	c.UpdatedAt = time.Now()
	r.store.carts[c.ID] = *c
	return nil
}

func matchPtr[T comparable](want *T, got *T) bool {
	if want == nil {
		return true
	}
	return got != nil && *got == *want
}

func (r *MemoryCarts) List(ctx context.Context, f CartFilter) ([]model.ShoppingCart, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	out := make([]model.ShoppingCart, 0)
	for _, c := range r.store.carts {
		if c.UserID != f.UserID {
			continue
		}
		if !matchPtr(f.DishID, c.DishID) || !matchPtr(f.SetmealID, c.SetmealID) {
			continue
		}
		if f.DishFlavor != nil && c.DishFlavor != *f.DishFlavor {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryCarts) DeleteByUserID(ctx context.Context, userID int64) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	for id, c := range r.store.carts {
		if c.UserID == userID {
			delete(r.store.carts, id)
		}
	}
	return nil
}

// ---- address books ----

type MemoryAddressBooks struct{ store *MemoryStore }

func NewMemoryAddressBooks(store *MemoryStore) *MemoryAddressBooks {
	return &MemoryAddressBooks{store: store}
}

var _ AddressBookRepository = (*MemoryAddressBooks)(nil)

func (r *MemoryAddressBooks) Create(ctx context.Context, a *model.AddressBook) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	a.ID = r.store.nextAddrID
	r.store.nextAddrID++
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	r.store.addresses[a.ID] = *a
	return nil
}

func (r *MemoryAddressBooks) GetByID(ctx context.Context, id uint) (*model.AddressBook, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	a, ok := r.store.addresses[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := a
	return &cp, nil
}

func (r *MemoryAddressBooks) ListByUserID(ctx context.Context, userID int64) ([]model.AddressBook, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	out := make([]model.AddressBook, 0)
	for _, a := range r.store.addresses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ---- dishes ----

type MemoryDishes struct{ store *MemoryStore }

func NewMemoryDishes(store *MemoryStore) *MemoryDishes { return &MemoryDishes{store: store} }

var _ DishRepository = (*MemoryDishes)(nil)

func (r *MemoryDishes) Create(ctx context.Context, d *model.Dish) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	d.ID = r.store.nextDishID
	r.store.nextDishID++
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	r.store.dishes[d.ID] = *d
	return nil
}

func (r *MemoryDishes) GetByID(ctx context.Context, id uint) (*model.Dish, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	d, ok := r.store.dishes[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := d
	return &cp, nil
}

func (r *MemoryDishes) Update(ctx context.Context, d *model.Dish) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	if _, ok := r.store.dishes[d.ID]; !ok {
		return ErrNotFound
	}
	d.UpdatedAt = time.Now()
	r.store.dishes[d.ID] = *d
	return nil
}

func (r *MemoryDishes) DeleteByIDs(ctx context.Context, ids []uint) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	for _, id := range ids {
		delete(r.store.dishes, id)
	}
	return nil
}

func dishMatches(d model.Dish, f DishFilter) bool {
	if f.CategoryID != nil && d.CategoryID != *f.CategoryID {
		return false
	}
	if f.Status != nil && d.Status != *f.Status {
		return false
	}
	if f.Name != "" && !strings.Contains(d.Name, f.Name) {
		return false
	}
	return true
}

func (r *MemoryDishes) List(ctx context.Context, f DishFilter) ([]model.Dish, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	out := make([]model.Dish, 0)
	for _, d := range r.store.dishes {
		if dishMatches(d, f) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryDishes) Page(ctx context.Context, f DishPageFilter) (int64, []model.Dish, error) {
	list, err := r.List(ctx, f.DishFilter)
	if err != nil {
		return 0, nil, err
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	total := int64(len(list))
	start := (f.Page - 1) * f.PageSize
	if start >= len(list) {
		return total, nil, nil
	}
	end := start + f.PageSize
	if end > len(list) {
		end = len(list)
	}
	return total, list[start:end], nil
}

// ---- dish flavors ----

type MemoryDishFlavors struct{ store *MemoryStore }

func NewMemoryDishFlavors(store *MemoryStore) *MemoryDishFlavors {
	return &MemoryDishFlavors{store: store}
}

var _ DishFlavorRepository = (*MemoryDishFlavors)(nil)

func (r *MemoryDishFlavors) CreateBatch(ctx context.Context, flavors []model.DishFlavor) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	for i := range flavors {
		flavors[i].ID = r.store.nextFlavorID
		r.store.nextFlavorID++
		r.store.flavors[flavors[i].ID] = flavors[i]
	}
	return nil
}

func (r *MemoryDishFlavors) ListByDishID(ctx context.Context, dishID uint) ([]model.DishFlavor, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	out := make([]model.DishFlavor, 0)
	for _, fl := range r.store.flavors {
		if fl.DishID == dishID {
			out = append(out, fl)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryDishFlavors) DeleteByDishIDs(ctx context.Context, dishIDs []uint) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	for id, fl := range r.store.flavors {
		for _, dishID := range dishIDs {
			if fl.DishID == dishID {
				delete(r.store.flavors, id)
				break
			}
		}
	}
	return nil
}

// ---- setmeals ----

type MemorySetmeals struct{ store *MemoryStore }

func NewMemorySetmeals(store *MemoryStore) *MemorySetmeals { return &MemorySetmeals{store: store} }

var _ SetmealRepository = (*MemorySetmeals)(nil)

// AddSetmeal 测试种子数据用。
func (r *MemorySetmeals) AddSetmeal(s model.Setmeal) model.Setmeal {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s.ID = r.store.nextSetmealID
	r.store.nextSetmealID++
	r.store.setmeals[s.ID] = s
	return s
}

func (r *MemorySetmeals) GetByID(ctx context.Context, id uint) (*model.Setmeal, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	s, ok := r.store.setmeals[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := s
	return &cp, nil
}

func (r *MemorySetmeals) UpdateStatus(ctx context.Context, id uint, status int) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	s, ok := r.store.setmeals[id]
	if !ok {
		return ErrNotFound
	}
	s.Status = status
	r.store.setmeals[id] = s
	return nil
}

type MemorySetmealDishes struct{ store *MemoryStore }

func NewMemorySetmealDishes(store *MemoryStore) *MemorySetmealDishes {
	return &MemorySetmealDishes{store: store}
}

var _ SetmealDishRepository = (*MemorySetmealDishes)(nil)

// AddLink 测试种子数据用。
func (r *MemorySetmealDishes) AddLink(link model.SetmealDish) model.SetmealDish {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	link.ID = r.store.nextLinkID
	r.store.nextLinkID++
	r.store.setmealDishes[link.ID] = link
	return link
}

func (r *MemorySetmealDishes) SetmealIDsByDishIDs(ctx context.Context, dishIDs []uint) ([]uint, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	seen := make(map[uint]bool)
	out := make([]uint, 0)
	for _, link := range r.store.setmealDishes {
		for _, dishID := range dishIDs {
			if link.DishID == dishID && !seen[link.SetmealID] {
				seen[link.SetmealID] = true
				out = append(out, link.SetmealID)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
