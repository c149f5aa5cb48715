package queue

import (
	"fmt"
	"time"
)

// 订单生命周期事件类型。
const (
	EventOrderSubmitted = "order.submitted"
	EventOrderCancelled = "order.cancelled"
)

// OrderEvent 写入 Kafka 的订单生命周期事件，供下游（商家端提醒、统计）消费。
type OrderEvent struct {
	Type       string    `json:"type"`
	OrderID    uint      `json:"order_id"`
	OrderNo    string    `json:"order_no"`
	UserID     int64     `json:"user_id"`
	Amount     string    `json:"amount"` // decimal 字符串，避免浮点精度问题
	OccurredAt time.Time `json:"occurred_at"`
}

// Validate 做最小字段校验，防止下游处理脏消息。
func (e OrderEvent) Validate() error {
	if e.Type != EventOrderSubmitted && e.Type != EventOrderCancelled {
		return fmt.Errorf("unknown event type %q", e.Type)
	}
	if e.OrderID == 0 {
		return fmt.Errorf("order_id is required")
	}
	if e.OrderNo == "" {
		return fmt.Errorf("order_no is required")
	}
	return nil
}
