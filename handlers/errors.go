package handlers

import (
	"errors"
	"net/http"

	availabilityRepo "mentorhub/database/repository/availability"
	paymentRepo "mentorhub/database/repository/payment"
	pricingRepo "mentorhub/database/repository/pricing"
	userRepo "mentorhub/database/repository/user"
	"mentorhub/services/identity"
	"mentorhub/services/payment"
	"mentorhub/services/payout"
	"mentorhub/services/pricing"
	"mentorhub/services/scheduling"
	"mentorhub/services/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps service errors onto HTTP statuses. Anything unrecognized
// is a 500 with the detail kept out of the response body.
func respondError(c *gin.Context, err error) {
	var (
		invalidTransition *session.InvalidTransitionError
		unsupportedType   *pricing.UnsupportedPricingTypeError
		amountTooLow      *pricing.AmountTooLowError
		pricingValidation *pricing.ValidationError
		payoutValidation  *payout.ValidationError
	)

	switch {
	case scheduling.IsValidation(err),
		errors.As(err, &pricingValidation),
		errors.As(err, &payoutValidation),
		errors.As(err, &unsupportedType),
		errors.As(err, &amountTooLow),
		errors.Is(err, payment.ErrUnsupportedMethod),
		errors.Is(err, payment.ErrUnknownOutcome):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, identity.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

	case errors.Is(err, session.ErrNotParticipant):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})

	case errors.Is(err, pricing.ErrPricingModelNotFound),
		errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, payment.ErrTransactionNotFound),
		errors.Is(err, availabilityRepo.ErrNotFound),
		errors.Is(err, pricingRepo.ErrNotFound),
		errors.Is(err, paymentRepo.ErrTxnNotFound),
		errors.Is(err, paymentRepo.ErrPayoutNotFound),
		errors.Is(err, userRepo.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case scheduling.IsConflict(err),
		errors.As(err, &invalidTransition),
		errors.Is(err, pricing.ErrActiveSubscriptionExists),
		errors.Is(err, payment.ErrAlreadyPaid),
		errors.Is(err, payout.ErrSettlementBusy),
		errors.Is(err, session.ErrCancellationWindowExpired),
		errors.Is(err, identity.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case payout.IsInsufficientEarnings(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})

	default:
		zap.L().Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
