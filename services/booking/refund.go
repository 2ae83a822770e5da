package booking

import (
	"time"

	"medibook/models"
)

// Refund tiers keyed by how far out the scheduled slot is. The boundaries are
// strict: exactly 24h earns tier 50, exactly 12h earns tier 0.
const (
	refundTierFull    = 80 // more than 24h out
	refundTierPartial = 50 // more than 12h, up to 24h out
	refundTierNone    = 0  // 12h or less
)

// DecideRefund computes the refund tier and amount for one cancellation
// request. Pure: same inputs always produce the same decision, so it is safe
// to re-derive on retry.
func DecideRefund(scheduledAt, now time.Time, paidAmount float64, paymentStatus models.PaymentStatus) models.RefundDecision {
	if paymentStatus != models.PaymentPaid {
		return models.RefundDecision{Tier: refundTierNone, RefundAmount: 0, Eligible: false}
	}

	hoursUntil := scheduledAt.Sub(now).Hours()
	switch {
	case hoursUntil > 24:
		return models.RefundDecision{
			Tier:         refundTierFull,
			RefundAmount: 0.80 * paidAmount,
			Eligible:     true,
		}
	case hoursUntil > 12:
		return models.RefundDecision{
			Tier:         refundTierPartial,
			RefundAmount: 0.50 * paidAmount,
			Eligible:     true,
		}
	default:
		return models.RefundDecision{Tier: refundTierNone, RefundAmount: 0, Eligible: true}
	}
}
