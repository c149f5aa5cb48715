package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ada-zs1125/sky-take-out/internal/model"
	"github.com/ada-zs1125/sky-take-out/internal/payment"
	"github.com/ada-zs1125/sky-take-out/internal/queue"
	"github.com/ada-zs1125/sky-take-out/internal/repository"
)

// OrderEventPublisher 订单生命周期事件出口；发布失败不影响业务结果。
type OrderEventPublisher interface {
	Publish(ctx context.Context, ev queue.OrderEvent) error
}

// OrderService 订单工作流：提交、查询、取消、再来一单。
// 每个写操作都在一个事务内执行，要么全部落库要么全部回滚。
type OrderService struct {
	orders    repository.OrderRepository
	details   repository.OrderDetailRepository
	carts     repository.ShoppingCartRepository
	addresses repository.AddressBookRepository
	tx        repository.TxManager
	pay       payment.Gateway
	events    OrderEventPublisher
	log       *logrus.Logger
}

func NewOrderService(
	orders repository.OrderRepository,
	details repository.OrderDetailRepository,
	carts repository.ShoppingCartRepository,
	addresses repository.AddressBookRepository,
	tx repository.TxManager,
	pay payment.Gateway,
	events OrderEventPublisher,
	log *logrus.Logger,
) *OrderService {
	return &OrderService{
		orders:    orders,
		details:   details,
		carts:     carts,
		addresses: addresses,
		tx:        tx,
		pay:       pay,
		events:    events,
		log:       log,
	}
}

// newOrderNumber 生成订单号：毫秒时间戳 + 随机后缀。
// 纯时间戳在并发下单时会碰撞，后缀 + orders.number 的唯一索引双重兜底。
func newOrderNumber(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("%d%s", now.UnixMilli(), suffix)
}

// Submit 用户下单。
// 事务内依次：校验地址 → 校验购物车 → 插入订单 → 批量插入明细 → 整批清空购物车。
func (s *OrderService) Submit(ctx context.Context, userID int64, dto OrderSubmitDTO) (*OrderSubmitVO, error) {
	var vo *OrderSubmitVO
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		addr, err := s.addresses.GetByID(ctx, dto.AddressBookID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrAddressNotFound
			}
			return fmt.Errorf("load address book %d: %w", dto.AddressBookID, err)
		}

		items, err := s.carts.List(ctx, repository.CartFilter{UserID: userID})
		if err != nil {
			return fmt.Errorf("load shopping cart of user %d: %w", userID, err)
		}
		if len(items) == 0 {
			return ErrCartEmpty
		}

		now := time.Now()
		order := &model.Order{
			Number:        newOrderNumber(now),
			UserID:        userID,
			AddressBookID: dto.AddressBookID,
			Status:        model.OrderPendingPayment,
			PayStatus:     model.PayUnpaid,
			PayMethod:     dto.PayMethod,
			Amount:        dto.Amount,
			Remark:        dto.Remark,
			// 收货信息快照，后续改地址簿不影响本订单
			Phone:     addr.Phone,
			Address:   addr.Detail,
			Consignee: addr.Consignee,
			OrderTime: now,
		}
		if err := s.orders.Create(ctx, order); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		details := make([]model.OrderDetail, 0, len(items))
		for _, item := range items {
			details = append(details, model.OrderDetail{
				OrderID:    order.ID,
				Name:       item.Name,
				Image:      item.Image,
				DishID:     item.DishID,
				SetmealID:  item.SetmealID,
				DishFlavor: item.DishFlavor,
				Number:     item.Number,
				Amount:     item.Amount,
			})
		}
		if err := s.details.CreateBatch(ctx, details); err != nil {
			return fmt.Errorf("insert order details: %w", err)
		}

		if err := s.carts.DeleteByUserID(ctx, userID); err != nil {
			return fmt.Errorf("clear shopping cart of user %d: %w", userID, err)
		}

		vo = &OrderSubmitVO{
			ID:          order.ID,
			OrderNumber: order.Number,
			OrderAmount: order.Amount,
			OrderTime:   order.OrderTime,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, queue.OrderEvent{
		Type:       queue.EventOrderSubmitted,
		OrderID:    vo.ID,
		OrderNo:    vo.OrderNumber,
		UserID:     userID,
		Amount:     vo.OrderAmount.String(),
		OccurredAt: time.Now(),
	})
	return vo, nil
}

// PageQuery 用户端历史订单分页查询，聚合各订单的明细。
func (s *OrderService) PageQuery(ctx context.Context, f repository.OrderPageFilter) (*PageResult, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 10
	}

	total, orders, err := s.orders.Page(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("page orders: %w", err)
	}

	// 空页直接返回，不再查明细
	list := make([]OrderVO, 0, len(orders))
	for _, o := range orders {
		ds, err := s.details.ListByOrderID(ctx, o.ID)
		if err != nil {
			return nil, fmt.Errorf("load details of order %d: %w", o.ID, err)
		}
		list = append(list, OrderVO{Order: o, OrderDetailList: ds})
	}
	return &PageResult{Total: total, Records: list}, nil
}

// Detail 查询订单详情；订单不存在时显式返回 ErrOrderNotFound。
func (s *OrderService) Detail(ctx context.Context, id uint) (*OrderVO, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("load order %d: %w", id, err)
	}
	ds, err := s.details.ListByOrderID(ctx, o.ID)
	if err != nil {
		return nil, fmt.Errorf("load details of order %d: %w", o.ID, err)
	}
	return &OrderVO{Order: *o, OrderDetailList: ds}, nil
}

// Cancel 用户取消订单。只能取消本人的订单，否则按订单不存在处理。
// 状态机：仅 待付款/待接单 可取消；待接单已扣款，先退款再落取消状态，
// 退款失败则整个事务回滚，订单保持原状。
func (s *OrderService) Cancel(ctx context.Context, userID int64, id uint) error {
	var cancelled *model.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		o, err := s.orders.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("load order %d: %w", id, err)
		}
		if o.UserID != userID {
			return ErrOrderNotFound
		}
		if o.Status > model.OrderToBeConfirmed {
			return ErrInvalidOrderState
		}

		if o.Status == model.OrderToBeConfirmed {
			// 退款发生在事务内：后续 Update 失败时只有行状态回滚，
			// 外部退款不可撤销，真实网关必须提供幂等退款接口兜底。
			if err := s.pay.Refund(ctx, o.Number, o.Number, o.Amount, o.Amount); err != nil {
				return fmt.Errorf("refund order %s: %w", o.Number, err)
			}
			o.PayStatus = model.PayRefund
		}

		now := time.Now()
		o.Status = model.OrderCancelled
		o.CancelReason = "用户取消"
		o.CancelTime = &now
		if err := s.orders.Update(ctx, o); err != nil {
			return fmt.Errorf("update order %d: %w", id, err)
		}
		cancelled = o
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, queue.OrderEvent{
		Type:       queue.EventOrderCancelled,
		OrderID:    cancelled.ID,
		OrderNo:    cancelled.Number,
		UserID:     cancelled.UserID,
		Amount:     cancelled.Amount.String(),
		OccurredAt: time.Now(),
	})
	return nil
}

// Repeat 再来一单：把历史订单的明细复制成新的购物车条目。
// 只能复制本人的订单，否则按订单不存在处理。
func (s *OrderService) Repeat(ctx context.Context, userID int64, orderID uint) error {
	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		o, err := s.orders.GetByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("load order %d: %w", orderID, err)
		}
		if o.UserID != userID {
			return ErrOrderNotFound
		}

		ds, err := s.details.ListByOrderID(ctx, orderID)
		if err != nil {
			return fmt.Errorf("load details of order %d: %w", orderID, err)
		}

		now := time.Now()
		items := make([]model.ShoppingCart, 0, len(ds))
		for _, d := range ds {
			// 丢弃明细自身的主键，生成全新的购物车条目
			items = append(items, model.ShoppingCart{
				UserID:     userID,
				Name:       d.Name,
				Image:      d.Image,
				DishID:     d.DishID,
				SetmealID:  d.SetmealID,
				DishFlavor: d.DishFlavor,
				Number:     d.Number,
				Amount:     d.Amount,
				CreatedAt:  now,
			})
		}
		if err := s.carts.CreateBatch(ctx, items); err != nil {
			return fmt.Errorf("insert cart items: %w", err)
		}
		return nil
	})
}

func (s *OrderService) publish(ctx context.Context, ev queue.OrderEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.WithFields(logrus.Fields{
			"type":     ev.Type,
			"order_no": ev.OrderNo,
		}).WithError(err).Warn("publish order event failed")
	}
}
