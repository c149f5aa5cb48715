package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ada-zs1125/sky-take-out/internal/model"
)

func TestMemoryOrdersCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	orders := NewMemoryOrders(store)

	o := &model.Order{Number: "n1", UserID: 1, Status: model.OrderPendingPayment, Amount: decimal.New(10, 0), OrderTime: time.Now()}
	if err := orders.Create(ctx, o); err != nil {
		t.Fatalf("create: %v", err)
	}
	if o.ID == 0 {
		t.Fatalf("create must assign an id")
	}

	got, err := orders.GetByID(ctx, o.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Number != "n1" {
		t.Fatalf("unexpected order: %+v", got)
	}

	// 返回值是副本，改它不能影响存储
	got.Number = "mutated"
	again, _ := orders.GetByID(ctx, o.ID)
	if again.Number != "n1" {
		t.Fatalf("GetByID must return a copy")
	}

	got.Number = "n1"
	got.Status = model.OrderCancelled
	if err := orders.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	again, _ = orders.GetByID(ctx, o.ID)
	if again.Status != model.OrderCancelled {
		t.Fatalf("update not persisted: %+v", again)
	}

	if _, err := orders.GetByID(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := orders.Update(ctx, &model.Order{ID: 999}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
}

func TestMemoryOrdersPage(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	orders := NewMemoryOrders(store)
	base := time.Now()

	for i := 0; i < 5; i++ {
		status := model.OrderCompleted
		if i%2 == 0 {
			status = model.OrderCancelled
		}
		o := &model.Order{
			Number:    "p" + string(rune('a'+i)),
			UserID:    1,
			Status:    status,
			Amount:    decimal.New(1, 0),
			OrderTime: base.Add(time.Duration(i) * time.Minute),
		}
		if err := orders.Create(ctx, o); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	total, page, err := orders.Page(ctx, OrderPageFilter{UserID: 1, Page: 1, PageSize: 3})
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if total != 5 || len(page) != 3 {
		t.Fatalf("expected total 5 / 3 rows, got %d / %d", total, len(page))
	}
	// 按下单时间倒序
	for i := 1; i < len(page); i++ {
		if page[i].OrderTime.After(page[i-1].OrderTime) {
			t.Fatalf("page must be sorted by order time desc")
		}
	}

	status := model.OrderCancelled
	total, page, err = orders.Page(ctx, OrderPageFilter{UserID: 1, Status: &status, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if total != 3 || len(page) != 3 {
		t.Fatalf("status filter: expected 3, got %d / %d", total, len(page))
	}

	// 越界页
	total, page, err = orders.Page(ctx, OrderPageFilter{UserID: 1, Page: 9, PageSize: 10})
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if total != 5 || len(page) != 0 {
		t.Fatalf("out-of-range page must return empty rows with total, got %d / %d", total, len(page))
	}
}

func TestMemoryCartsFilterAndDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	carts := NewMemoryCarts(store)

	dish1, dish2 := uint(1), uint(2)
	seed := []model.ShoppingCart{
		{UserID: 1, Name: "A", DishID: &dish1, DishFlavor: "微辣", Number: 1},
		{UserID: 1, Name: "A", DishID: &dish1, DishFlavor: "中辣", Number: 1},
		{UserID: 1, Name: "B", DishID: &dish2, Number: 1},
		{UserID: 2, Name: "C", DishID: &dish1, Number: 1},
	}
	for i := range seed {
		if err := carts.Create(ctx, &seed[i]); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	all, _ := carts.List(ctx, CartFilter{UserID: 1})
	if len(all) != 3 {
		t.Fatalf("user filter: expected 3, got %d", len(all))
	}

	flavor := "中辣"
	one, _ := carts.List(ctx, CartFilter{UserID: 1, DishID: &dish1, DishFlavor: &flavor})
	if len(one) != 1 || one[0].DishFlavor != "中辣" {
		t.Fatalf("dish+flavor filter: got %+v", one)
	}

	if err := carts.DeleteByUserID(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	mine, _ := carts.List(ctx, CartFilter{UserID: 1})
	others, _ := carts.List(ctx, CartFilter{UserID: 2})
	if len(mine) != 0 || len(others) != 1 {
		t.Fatalf("delete must be scoped per user: %d / %d", len(mine), len(others))
	}
}

func TestMemoryTxRollback(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	orders := NewMemoryOrders(store)
	carts := NewMemoryCarts(store)
	tx := NewMemoryTx(store)

	if err := carts.Create(ctx, &model.ShoppingCart{UserID: 1, Name: "A", Number: 1}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	boom := errors.New("boom")
	err := tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := orders.Create(ctx, &model.Order{Number: "tx1", UserID: 1, Amount: decimal.New(1, 0)}); err != nil {
			return err
		}
		if err := carts.DeleteByUserID(ctx, 1); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the callback error, got %v", err)
	}

	// 事务内的写入全部回滚
	if _, err := orders.GetByID(ctx, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("order created inside failed tx must be gone, got %v", err)
	}
	items, _ := carts.List(ctx, CartFilter{UserID: 1})
	if len(items) != 1 {
		t.Fatalf("cart deletion inside failed tx must be undone, got %d items", len(items))
	}
}

func TestMemoryTxCommit(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	orders := NewMemoryOrders(store)
	tx := NewMemoryTx(store)

	err := tx.WithTransaction(ctx, func(ctx context.Context) error {
		return orders.Create(ctx, &model.Order{Number: "tx2", UserID: 1, Amount: decimal.New(1, 0)})
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}
	if _, err := orders.GetByID(ctx, 1); err != nil {
		t.Fatalf("committed order must be visible: %v", err)
	}
}

func TestMemorySetmealIDsByDishIDs(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	links := NewMemorySetmealDishes(store)

	links.AddLink(model.SetmealDish{SetmealID: 10, DishID: 1})
	links.AddLink(model.SetmealDish{SetmealID: 10, DishID: 2})
	links.AddLink(model.SetmealDish{SetmealID: 20, DishID: 2})

	ids, err := links.SetmealIDsByDishIDs(ctx, []uint{1, 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(ids) != 2 || ids[0] != 10 || ids[1] != 20 {
		t.Fatalf("expected deduped [10 20], got %v", ids)
	}

	ids, _ = links.SetmealIDsByDishIDs(ctx, []uint{3})
	if len(ids) != 0 {
		t.Fatalf("unlinked dish must yield no setmeals, got %v", ids)
	}
}
