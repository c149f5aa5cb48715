package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ada-zs1125/sky-take-out/internal/model"
	"github.com/ada-zs1125/sky-take-out/internal/queue"
	"github.com/ada-zs1125/sky-take-out/internal/repository"
)

type fakeGateway struct {
	calls      int
	err        error
	lastAmount decimal.Decimal
}

func (g *fakeGateway) Refund(ctx context.Context, orderNo, refundNo string, amount, origAmount decimal.Decimal) error {
	g.calls++
	g.lastAmount = amount
	return g.err
}

type fakeEvents struct {
	published []queue.OrderEvent
}

func (f *fakeEvents) Publish(ctx context.Context, ev queue.OrderEvent) error {
	f.published = append(f.published, ev)
	return nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type orderEnv struct {
	svc       *OrderService
	orders    *repository.MemoryOrders
	details   *repository.MemoryOrderDetails
	carts     *repository.MemoryCarts
	addresses *repository.MemoryAddressBooks
	gateway   *fakeGateway
	events    *fakeEvents
}

func newOrderEnv(t *testing.T) *orderEnv {
	t.Helper()
	store := repository.NewMemoryStore()
	env := &orderEnv{
		orders:    repository.NewMemoryOrders(store),
		details:   repository.NewMemoryOrderDetails(store),
		carts:     repository.NewMemoryCarts(store),
		addresses: repository.NewMemoryAddressBooks(store),
		gateway:   &fakeGateway{},
		events:    &fakeEvents{},
	}
	env.svc = NewOrderService(env.orders, env.details, env.carts, env.addresses,
		repository.NewMemoryTx(store), env.gateway, env.events, testLogger())
	return env
}

func uintPtr(v uint) *uint { return &v }

func (e *orderEnv) seedAddress(t *testing.T, userID int64) *model.AddressBook {
	t.Helper()
	addr := &model.AddressBook{
		UserID:    userID,
		Consignee: "张三",
		Phone:     "13800000001",
		Detail:    "天府软件园A区",
	}
	if err := e.addresses.Create(context.Background(), addr); err != nil {
		t.Fatalf("seed address: %v", err)
	}
	return addr
}

func (e *orderEnv) seedCartItem(t *testing.T, userID int64, name string, dishID uint, number int, price string) {
	t.Helper()
	item := &model.ShoppingCart{
		UserID: userID,
		Name:   name,
		DishID: uintPtr(dishID),
		Number: number,
		Amount: decimal.RequireFromString(price),
	}
	if err := e.carts.Create(context.Background(), item); err != nil {
		t.Fatalf("seed cart item: %v", err)
	}
}

func TestSubmitOrder(t *testing.T) {
	ctx := context.Background()
	env := newOrderEnv(t)
	const userID = int64(7)

	addr := env.seedAddress(t, userID)
	env.seedCartItem(t, userID, "宫保鸡丁", 1, 2, "10.00")
	env.seedCartItem(t, userID, "米饭", 2, 1, "5.00")

	vo, err := env.svc.Submit(ctx, userID, OrderSubmitDTO{
		AddressBookID: addr.ID,
		Amount:        decimal.RequireFromString("25.00"),
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if vo.OrderNumber == "" {
		t.Fatalf("expected non-empty order number")
	}
	if vo.OrderTime.IsZero() {
		t.Fatalf("expected order time to be stamped")
	}
	if !vo.OrderAmount.Equal(decimal.RequireFromString("25.00")) {
		t.Fatalf("unexpected amount: %s", vo.OrderAmount)
	}

	order, err := env.orders.GetByID(ctx, vo.ID)
	if err != nil {
		t.Fatalf("load order: %v", err)
	}
	if order.Status != model.OrderPendingPayment {
		t.Fatalf("expected status pending payment, got %d", order.Status)
	}
	if order.PayStatus != model.PayUnpaid {
		t.Fatalf("expected pay status unpaid, got %d", order.PayStatus)
	}
	if order.Phone != addr.Phone || order.Address != addr.Detail || order.Consignee != addr.Consignee {
		t.Fatalf("address snapshot not copied: %+v", order)
	}

	details, err := env.details.ListByOrderID(ctx, vo.ID)
	if err != nil {
		t.Fatalf("load details: %v", err)
	}
	if len(details) != 2 {
		t.Fatalf("expected 2 order details, got %d", len(details))
	}
	if details[0].Number != 2 || details[1].Number != 1 {
		t.Fatalf("quantities not copied: %d %d", details[0].Number, details[1].Number)
	}
	for _, d := range details {
		if d.OrderID != vo.ID {
			t.Fatalf("detail %d references order %d, want %d", d.ID, d.OrderID, vo.ID)
		}
	}

	left, _ := env.carts.List(ctx, repository.CartFilter{UserID: userID})
	if len(left) != 0 {
		t.Fatalf("cart should be empty after submit, got %d items", len(left))
	}

	if len(env.events.published) != 1 || env.events.published[0].Type != queue.EventOrderSubmitted {
		t.Fatalf("expected one submitted event, got %+v", env.events.published)
	}
}

func TestSubmitOrderNumbersDistinct(t *testing.T) {
	ctx := context.Background()
	env := newOrderEnv(t)
	const userID = int64(1)
	addr := env.seedAddress(t, userID)

	env.seedCartItem(t, userID, "A", 1, 1, "1.00")
	first, err := env.svc.Submit(ctx, userID, OrderSubmitDTO{AddressBookID: addr.ID, Amount: decimal.New(1, 0)})
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	env.seedCartItem(t, userID, "A", 1, 1, "1.00")
	second, err := env.svc.Submit(ctx, userID, OrderSubmitDTO{AddressBookID: addr.ID, Amount: decimal.New(1, 0)})
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if first.OrderNumber == second.OrderNumber {
		t.Fatalf("order numbers must be distinct per call: %s", first.OrderNumber)
	}
}

func TestSubmitEmptyCart(t *testing.T) {
	ctx := context.Background()
	env := newOrderEnv(t)
	const userID = int64(3)
	addr := env.seedAddress(t, userID)

	for i := 0; i < 2; i++ { // 失败幂等：重复提交同样失败且无副作用
		_, err := env.svc.Submit(ctx, userID, OrderSubmitDTO{AddressBookID: addr.ID})
		if !errors.Is(err, ErrCartEmpty) {
			t.Fatalf("expected ErrCartEmpty, got %v", err)
		}
	}
	if _, err := env.orders.GetByID(ctx, 1); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("no order must be created on failed submit")
	}
}

func TestSubmitAddressNotFound(t *testing.T) {
	ctx := context.Background()
	env := newOrderEnv(t)
	const userID = int64(3)
	env.seedCartItem(t, userID, "A", 1, 1, "1.00")

	_, err := env.svc.Submit(ctx, userID, OrderSubmitDTO{AddressBookID: 99})
	if !errors.Is(err, ErrAddressNotFound) {
		t.Fatalf("expected ErrAddressNotFound, got %v", err)
	}
	left, _ := env.carts.List(ctx, repository.CartFilter{UserID: userID})
	if len(left) != 1 {
		t.Fatalf("cart must be untouched on failed submit, got %d items", len(left))
	}
}

func (e *orderEnv) seedOrder(t *testing.T, userID int64, status, payStatus int, amount string) *model.Order {
	t.Helper()
	o := &model.Order{
		Number:    "test-" + time.Now().Format("150405.000000000"),
		UserID:    userID,
		Status:    status,
		PayStatus: payStatus,
		Amount:    decimal.RequireFromString(amount),
		OrderTime: time.Now(),
	}
	if err := e.orders.Create(context.Background(), o); err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return o
}

func TestCancelPendingPayment(t *testing.T) {
	ctx := context.Background()
	env := newOrderEnv(t)
	o := env.seedOrder(t, 5, model.OrderPendingPayment, model.PayUnpaid, "12.00")

	if err := env.svc.Cancel(ctx, 5, o.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	got, _ := env.orders.GetByID(ctx, o.ID)
	if got.Status != model.OrderCancelled {
		t.Fatalf("expected cancelled, got %d", got.Status)
	}
	if got.CancelReason == "" || got.CancelTime == nil {
		t.Fatalf("cancel reason/time not set: %+v", got)
	}
	if got.PayStatus != model.PayUnpaid {
		t.Fatalf("pay status must be unchanged for unpaid order, got %d", got.PayStatus)
	}
	if env.gateway.calls != 0 {
		t.Fatalf("refund must not run for pending-payment order")
	}
	if len(env.events.published) != 1 || env.events.published[0].Type != queue.EventOrderCancelled {
		t.Fatalf("expected one cancelled event, got %+v", env.events.published)
	}
}

func TestCancelToBeConfirmedRefunds(t *testing.T) {
	ctx := context.Background()
	env := newOrderEnv(t)
	o := env.seedOrder(t, 5, model.OrderToBeConfirmed, model.PayPaid, "30.00")

	if err := env.svc.Cancel(ctx, 5, o.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if env.gateway.calls != 1 {
		t.Fatalf("expected one refund call, got %d", env.gateway.calls)
	}
	if !env.gateway.lastAmount.Equal(decimal.RequireFromString("30.00")) {
		t.Fatalf("refund amount must equal order amount, got %s", env.gateway.lastAmount)
	}
	got, _ := env.orders.GetByID(ctx, o.ID)
	if got.PayStatus != model.PayRefund {
		t.Fatalf("expected pay status refund, got %d", got.PayStatus)
	}
	if got.Status != model.OrderCancelled {
		t.Fatalf("expected cancelled, got %d", got.Status)
	}
}

func TestCancelIllegalStates(t *testing.T) {
	ctx := context.Background()
	env := newOrderEnv(t)
	for _, status := range []int{model.OrderConfirmed, model.OrderDeliveryInProg, model.OrderCompleted, model.OrderCancelled} {
		o := env.seedOrder(t, 5, status, model.PayPaid, "10.00")
		err := env.svc.Cancel(ctx, 5, o.ID)
		if !errors.Is(err, ErrInvalidOrderState) {
			t.Fatalf("status %d: expected ErrInvalidOrderState, got %v", status, err)
		}
		got, _ := env.orders.GetByID(ctx, o.ID)
		if got.Status != status || got.CancelTime != nil {
			t.Fatalf("status %d: order must be unchanged, got %+v", status, got)
		}
	}
}

func TestCancelRefundFailureKeepsOrder(t *testing.T) {
	ctx := context.Background()
	env := newOrderEnv(t)
	env.gateway.err = errors.New("gateway unavailable")
	o := env.seedOrder(t, 5, model.OrderToBeConfirmed, model.PayPaid, "10.00")

	if err := env.svc.Cancel(ctx, 5, o.ID); err == nil {
		t.Fatalf("expected error when refund fails")
	}
	got, _ := env.orders.GetByID(ctx, o.ID)
	if got.Status != model.OrderToBeConfirmed || got.PayStatus != model.PayPaid {
		t.Fatalf("order must be unchanged when refund fails, got %+v", got)
	}
}

func TestCancelNotFound(t *testing.T) {
	env := newOrderEnv(t)
	if err := env.svc.Cancel(context.Background(), 1, 42); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestCancelOwnership(t *testing.T) {
	ctx := context.Background()
	env := newOrderEnv(t)
	o := env.seedOrder(t, 4, model.OrderToBeConfirmed, model.PayPaid, "30.00")

	// 别人的订单按不存在处理，不进状态机也不退款
	if err := env.svc.Cancel(ctx, 5, o.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("cancelling another user's order must fail as not found, got %v", err)
	}
	got, _ := env.orders.GetByID(ctx, o.ID)
	if got.Status != model.OrderToBeConfirmed || got.PayStatus != model.PayPaid {
		t.Fatalf("order must be unchanged: %+v", got)
	}
	if env.gateway.calls != 0 {
		t.Fatalf("refund must not run for a foreign order, got %d calls", env.gateway.calls)
	}
	if len(env.events.published) != 0 {
		t.Fatalf("no event must be published, got %+v", env.events.published)
	}
}

func TestDetail(t *testing.T) {
	ctx := context.Background()
	env := newOrderEnv(t)
	o := env.seedOrder(t, 5, model.OrderCompleted, model.PayPaid, "10.00")
	if err := env.details.CreateBatch(ctx, []model.OrderDetail{
		{OrderID: o.ID, Name: "鱼香肉丝", Number: 1, Amount: decimal.RequireFromString("10.00")},
	}); err != nil {
		t.Fatalf("seed detail: %v", err)
	}

	vo, err := env.svc.Detail(ctx, o.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if len(vo.OrderDetailList) != 1 || vo.OrderDetailList[0].Name != "鱼香肉丝" {
		t.Fatalf("unexpected detail list: %+v", vo.OrderDetailList)
	}

	if _, err := env.svc.Detail(ctx, 9999); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for missing order, got %v", err)
	}
}

func TestPageQuery(t *testing.T) {
	ctx := context.Background()
	env := newOrderEnv(t)
	const userID = int64(8)
	base := time.Now()

	var newest *model.Order
	for i := 0; i < 3; i++ {
		o := &model.Order{
			Number:    "n" + time.Now().Format("150405.000000000") + string(rune('a'+i)),
			UserID:    userID,
			Status:    model.OrderCompleted,
			Amount:    decimal.New(10, 0),
			OrderTime: base.Add(time.Duration(i) * time.Minute),
		}
		if err := env.orders.Create(ctx, o); err != nil {
			t.Fatalf("seed order: %v", err)
		}
		newest = o
	}
	// 其它用户的订单不得出现在结果里
	env.seedOrder(t, 99, model.OrderCompleted, model.PayPaid, "10.00")

	result, err := env.svc.PageQuery(ctx, repository.OrderPageFilter{UserID: userID, Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("page query: %v", err)
	}
	if result.Total != 3 {
		t.Fatalf("expected total 3, got %d", result.Total)
	}
	records := result.Records.([]OrderVO)
	if len(records) != 2 {
		t.Fatalf("expected 2 records on first page, got %d", len(records))
	}
	if records[0].ID != newest.ID {
		t.Fatalf("expected newest order first, got %d", records[0].ID)
	}

	// 按状态过滤出空页：total=0 且不查明细
	status := model.OrderDeliveryInProg
	empty, err := env.svc.PageQuery(ctx, repository.OrderPageFilter{UserID: userID, Status: &status, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("page query: %v", err)
	}
	if empty.Total != 0 || len(empty.Records.([]OrderVO)) != 0 {
		t.Fatalf("expected empty page, got %+v", empty)
	}
}

func TestRepeatOrder(t *testing.T) {
	ctx := context.Background()
	env := newOrderEnv(t)
	const userID = int64(4)
	o := env.seedOrder(t, userID, model.OrderCompleted, model.PayPaid, "15.00")
	if err := env.details.CreateBatch(ctx, []model.OrderDetail{
		{OrderID: o.ID, Name: "回锅肉", DishID: uintPtr(1), Number: 2, Amount: decimal.RequireFromString("7.50")},
	}); err != nil {
		t.Fatalf("seed detail: %v", err)
	}

	if err := env.svc.Repeat(ctx, userID, o.ID); err != nil {
		t.Fatalf("repeat: %v", err)
	}
	items, _ := env.carts.List(ctx, repository.CartFilter{UserID: userID})
	if len(items) != 1 {
		t.Fatalf("expected 1 cart item, got %d", len(items))
	}
	it := items[0]
	if it.Name != "回锅肉" || it.Number != 2 || !it.Amount.Equal(decimal.RequireFromString("7.50")) {
		t.Fatalf("cart item not copied from order detail: %+v", it)
	}
	if it.CreatedAt.IsZero() {
		t.Fatalf("cart item must get a fresh create time")
	}
}

func TestRepeatOrderOwnership(t *testing.T) {
	ctx := context.Background()
	env := newOrderEnv(t)
	o := env.seedOrder(t, 4, model.OrderCompleted, model.PayPaid, "15.00")

	if err := env.svc.Repeat(ctx, 5, o.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("repeating another user's order must fail as not found, got %v", err)
	}
	if err := env.svc.Repeat(ctx, 4, 777); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
