package handlers

import (
	"net/http"
	"time"

	"mentorhub/models"
	"mentorhub/services/pricing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreatePricingModelHandler publishes a pricing model for the caller.
func (hb *HandlerBundle) CreatePricingModelHandler(c *gin.Context) {
	var req models.CreatePricingModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	// The type must have a registered strategy before the model goes live.
	if _, err := hb.Registry.Get(req.Type); err != nil {
		respondError(c, err)
		return
	}
	if req.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must be positive"})
		return
	}
	if req.Type != models.PricingSubscription {
		if req.Duration == nil || *req.Duration <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "duration is required for this pricing type"})
			return
		}
	}

	now := time.Now()
	model := &models.PricingModel{
		ID:          uuid.New().String(),
		MentorID:    c.GetString("accountID"),
		Type:        req.Type,
		Price:       pricing.RoundToCents(req.Price),
		Duration:    req.Duration,
		Description: req.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := hb.PricingRepo.Create(c.Request.Context(), model); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model)
}

// ListPricingModelsHandler returns a mentor's pricing models. Public listing
// shows active models only.
func (hb *HandlerBundle) ListPricingModelsHandler(c *gin.Context) {
	mentorID := c.Param("mentorID")
	activeOnly := c.GetString("accountID") != mentorID

	out, err := hb.PricingRepo.ListByMentor(c.Request.Context(), mentorID, activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pricingModels": out})
}

// SetPricingModelActiveHandler toggles one of the caller's pricing models.
// Deactivation never touches sessions already booked against the model.
func (hb *HandlerBundle) SetPricingModelActiveHandler(c *gin.Context) {
	var req struct {
		IsActive *bool `json:"isActive" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	modelID := c.Param("modelID")
	model, err := hb.PricingRepo.GetByID(c.Request.Context(), modelID)
	if err != nil {
		respondError(c, err)
		return
	}
	if model.MentorID != c.GetString("accountID") {
		c.JSON(http.StatusForbidden, gin.H{"error": "pricing model does not belong to this mentor"})
		return
	}

	if err := hb.PricingRepo.SetActive(c.Request.Context(), modelID, *req.IsActive); err != nil {
		respondError(c, err)
		return
	}
	model.IsActive = *req.IsActive
	c.JSON(http.StatusOK, model)
}
