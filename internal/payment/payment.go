package payment

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Gateway 支付网关。取消"待接单"订单时通过它发起退款。
type Gateway interface {
	// Refund 按原订单金额退款：orderNo 商户订单号，refundNo 商户退款单号。
	Refund(ctx context.Context, orderNo, refundNo string, amount, origAmount decimal.Decimal) error
}

// NoopGateway 未接入真实支付渠道时的默认实现：只记日志，直接成功。
// 工作流照常走退款分支并把支付状态置为已退款，换成真实网关即可生效。
type NoopGateway struct {
	log *logrus.Logger
}

func NewNoopGateway(log *logrus.Logger) *NoopGateway {
	return &NoopGateway{log: log}
}

var _ Gateway = (*NoopGateway)(nil)

func (g *NoopGateway) Refund(ctx context.Context, orderNo, refundNo string, amount, origAmount decimal.Decimal) error {
	g.log.WithFields(logrus.Fields{
		"order_no":  orderNo,
		"refund_no": refundNo,
		"amount":    amount.String(),
	}).Info("payment gateway not configured, refund recorded as no-op")
	return nil
}
