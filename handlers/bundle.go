package handlers

import (
	userRepoPkg "mentorhub/database/repository/user"
	"mentorhub/services/identity"
	"mentorhub/services/payment"
	"mentorhub/services/payout"
	"mentorhub/services/pricing"
	"mentorhub/services/scheduling"
	"mentorhub/services/session"

	pricingRepoPkg "mentorhub/database/repository/pricing"
)

// HandlerBundle groups all endpoint handlers and their service dependencies.
type HandlerBundle struct {
	UserRepo    userRepoPkg.UserRepository
	PricingRepo pricingRepoPkg.PricingRepository

	Identity     identity.IdentityService
	Availability scheduling.AvailabilityService
	Sessions     session.SessionService
	Registry     *pricing.Registry
	Payments     *payment.Processor
	Payouts      *payout.Engine
	Ledger       *payout.Ledger
}
