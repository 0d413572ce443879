package handlers

import (
	"net/http"

	"mentorhub/models"

	"github.com/gin-gonic/gin"
)

// CreateAvailabilityHandler adds a weekly recurring slot for the caller.
func (hb *HandlerBundle) CreateAvailabilityHandler(c *gin.Context) {
	var req models.CreateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	mentorID := c.GetString("accountID")
	slot, err := hb.Availability.CreateSlot(c.Request.Context(), mentorID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, slot)
}

// ListAvailabilityHandler returns a mentor's weekly slots. Public: mentees
// browse a mentor's schedule before booking.
func (hb *HandlerBundle) ListAvailabilityHandler(c *gin.Context) {
	mentorID := c.Param("mentorID")
	slots, err := hb.Availability.ListSlots(c.Request.Context(), mentorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// SetAvailabilityActiveHandler toggles one of the caller's slots.
func (hb *HandlerBundle) SetAvailabilityActiveHandler(c *gin.Context) {
	var req struct {
		IsActive *bool `json:"isActive" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	mentorID := c.GetString("accountID")
	slot, err := hb.Availability.SetSlotActive(c.Request.Context(), mentorID, c.Param("slotID"), *req.IsActive)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

// DeleteAvailabilityHandler removes one of the caller's slots.
func (hb *HandlerBundle) DeleteAvailabilityHandler(c *gin.Context) {
	mentorID := c.GetString("accountID")
	if err := hb.Availability.DeleteSlot(c.Request.Context(), mentorID, c.Param("slotID")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
