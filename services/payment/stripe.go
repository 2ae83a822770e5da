package payment

import (
	"context"
	"errors"
	"fmt"

	"medibook/models"
	"medibook/services/faults"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
	"go.uber.org/zap"
)

// StripeGateway implements Gateway against the Stripe API. The global
// stripe.Key is set from config at startup.
type StripeGateway struct {
	Logger *zap.Logger
}

func NewStripeGateway(logger *zap.Logger) *StripeGateway {
	return &StripeGateway{Logger: logger}
}

// Charge creates and confirms a PaymentIntent for the booking amount.
func (g *StripeGateway) Charge(ctx context.Context, req models.PaymentRequest) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(toMinorUnits(req.Amount)),
		Currency:      stripe.String(req.Currency),
		PaymentMethod: stripe.String(req.CardToken),
		Confirm:       stripe.Bool(true),
		Description:   stripe.String(req.Description),
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	params.AddMetadata("booking_id", req.BookingID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", g.wrapStripeError("charge", err)
	}

	g.Logger.Info("stripe payment intent confirmed",
		zap.String("bookingId", req.BookingID),
		zap.String("paymentIntent", pi.ID))
	return pi.ID, nil
}

// ProcessRefund refunds (part of) a previously confirmed PaymentIntent.
func (g *StripeGateway) ProcessRefund(ctx context.Context, req models.RefundRequest) error {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(req.TransactionID),
		Amount:        stripe.Int64(toMinorUnits(req.RefundAmount)),
		Reason:        stripe.String(string(stripe.RefundReasonRequestedByCustomer)),
	}
	params.Context = ctx
	params.AddMetadata("reason", req.Reason)

	if _, err := refund.New(params); err != nil {
		return g.wrapStripeError("refund", err)
	}
	return nil
}

// wrapStripeError converts stripe failures into the domain's gateway error so
// the classifier sees a payment failure, with declines marked permanent.
func (g *StripeGateway) wrapStripeError(op string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		// Declined or expired cards will not succeed on a bare retry.
		permanent := stripeErr.Code == stripe.ErrorCodeCardDeclined ||
			stripeErr.Code == stripe.ErrorCodeExpiredCard
		return faults.NewGatewayError(string(stripeErr.Code), fmt.Sprintf("stripe %s failed: %s", op, stripeErr.Msg), permanent)
	}
	return fmt.Errorf("stripe %s failed: %w", op, err)
}

func toMinorUnits(amount float64) int64 {
	return int64(amount*100 + 0.5)
}
