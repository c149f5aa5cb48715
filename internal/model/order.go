package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 订单状态（递增）：1待付款 2待接单 3已接单 4派送中 5已完成 6已取消
const (
	OrderPendingPayment = 1
	OrderToBeConfirmed  = 2
	OrderConfirmed      = 3
	OrderDeliveryInProg = 4
	OrderCompleted      = 5
	OrderCancelled      = 6
)

// 支付状态：0未支付 1已支付 2已退款
const (
	PayUnpaid = 0
	PayPaid   = 1
	PayRefund = 2
)

// Order 一次下单对应一条订单记录。
type Order struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Number 订单号：毫秒时间戳 + 随机后缀，DB 层 uniqueIndex 兜底防碰撞。
	Number        string          `gorm:"size:64;uniqueIndex;not null" json:"number"`
	UserID        int64           `gorm:"not null;index" json:"user_id"`
	AddressBookID uint            `gorm:"not null" json:"address_book_id"`
	Status        int             `gorm:"not null;default:1;index" json:"status"`
	PayStatus     int             `gorm:"not null;default:0" json:"pay_status"`
	PayMethod     int             `gorm:"not null;default:1" json:"pay_method"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Remark        string          `gorm:"size:255" json:"remark"`

	// 下单时从地址簿快照的收货信息，地址簿后续修改不影响历史订单。
	Phone     string `gorm:"size:32" json:"phone"`
	Address   string `gorm:"size:255" json:"address"`
	Consignee string `gorm:"size:64" json:"consignee"`

	OrderTime    time.Time  `json:"order_time"`
	CancelReason string     `gorm:"size:255" json:"cancel_reason"`
	CancelTime   *time.Time `json:"cancel_time"`
}

func (Order) TableName() string { return "orders" }
