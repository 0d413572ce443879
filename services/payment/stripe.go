package payment

import (
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/transfer"
	"go.uber.org/zap"
)

// StripeGateway backs card payments and gateway-mediated payouts.
// stripe.Key is set once at startup from configuration.
type StripeGateway struct {
	Logger *zap.Logger
}

// CreatePaymentIntent registers the charge with Stripe and returns the intent id.
func (g *StripeGateway) CreatePaymentIntent(amount float64, currency, sessionID string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(math.Round(amount * 100))),
		Currency: stripe.String(currency),
	}
	params.AddMetadata("session_id", sessionID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe payment intent failed: %w", err)
	}
	g.Logger.Info("stripe payment intent created",
		zap.String("sessionId", sessionID),
		zap.String("intentId", pi.ID))
	return pi.ID, nil
}

// CreateTransfer moves mentor earnings to the mentor's connected account and
// returns the transfer id.
func (g *StripeGateway) CreateTransfer(amount float64, destination, payoutID string) (string, error) {
	params := &stripe.TransferParams{
		Amount:      stripe.Int64(int64(math.Round(amount * 100))),
		Currency:    stripe.String(string(stripe.CurrencyUSD)),
		Destination: stripe.String(destination),
	}
	params.AddMetadata("payout_id", payoutID)

	tr, err := transfer.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe transfer failed: %w", err)
	}
	g.Logger.Info("stripe transfer created",
		zap.String("payoutId", payoutID),
		zap.String("transferId", tr.ID))
	return tr.ID, nil
}
