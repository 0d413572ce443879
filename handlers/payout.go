package handlers

import (
	"net/http"

	"mentorhub/models"

	"github.com/gin-gonic/gin"
)

// GetEarningsHandler returns the caller's withdrawable earnings.
func (hb *HandlerBundle) GetEarningsHandler(c *gin.Context) {
	mentorID := c.GetString("accountID")
	earnings, err := hb.Ledger.GetUnsettledEarnings(c.Request.Context(), mentorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, earnings)
}

// RequestPayoutHandler settles part of the caller's earnings into a payout.
func (hb *HandlerBundle) RequestPayoutHandler(c *gin.Context) {
	var req models.PayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	mentorID := c.GetString("accountID")
	result, err := hb.Payouts.RequestPayout(c.Request.Context(), mentorID, req.Amount, req.Method, models.TriggerManual)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// ListPayoutsHandler returns the caller's payout history.
func (hb *HandlerBundle) ListPayoutsHandler(c *gin.Context) {
	mentorID := c.GetString("accountID")
	payouts, err := hb.Payouts.Repo.ListPayoutsByMentor(c.Request.Context(), mentorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payouts": payouts})
}
