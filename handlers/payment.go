package handlers

import (
	"net/http"

	"mentorhub/models"

	"github.com/gin-gonic/gin"
)

// GatewayWebhookHandler applies an asynchronous payment outcome. The gateway
// retries on non-2xx, so idempotent re-delivery is expected.
func (hb *HandlerBundle) GatewayWebhookHandler(c *gin.Context) {
	var event models.GatewayEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	txn, err := hb.Payments.ApplyGatewayEvent(c.Request.Context(), event)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txn)
}

// GetSessionTransactionHandler returns the money record for a session the
// caller participates in.
func (hb *HandlerBundle) GetSessionTransactionHandler(c *gin.Context) {
	s, err := hb.Sessions.GetByID(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondError(c, err)
		return
	}
	callerID := c.GetString("accountID")
	if callerID != s.MentorID && callerID != s.MenteeID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a participant of this session"})
		return
	}

	txn, err := hb.Payments.Repo.GetTransactionBySessionID(c.Request.Context(), s.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txn)
}
