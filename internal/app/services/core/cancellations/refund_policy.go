package cancellations

import (
	"mentorship-service/internal/app/config"
	"time"

	"github.com/shopspring/decimal"
)

// RefundPolicy maps the notice given before a session starts to a refund percentage.
type RefundPolicy struct {
	FullRefundNotice    time.Duration
	PartialRefundNotice time.Duration
	PartialPercentage   decimal.Decimal
}

func NewRefundPolicy(cfg config.AppCancel) RefundPolicy {
	return RefundPolicy{
		FullRefundNotice:    time.Duration(cfg.FullRefundNoticeInHours) * time.Hour,
		PartialRefundNotice: time.Duration(cfg.PartialRefundNoticeInHours) * time.Hour,
		PartialPercentage:   decimal.NewFromInt(int64(cfg.PartialRefundPercentage)),
	}
}

// Percentage returns 100 at or beyond the full notice, the partial percentage at or
// beyond the partial notice, and 0 otherwise.
func (p RefundPolicy) Percentage(untilStart time.Duration) decimal.Decimal {
	switch {
	case untilStart >= p.FullRefundNotice:
		return decimal.NewFromInt(100)
	case untilStart >= p.PartialRefundNotice:
		return p.PartialPercentage
	default:
		return decimal.Zero
	}
}
