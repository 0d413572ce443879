package handlers

import (
	"net/http"

	"mentorhub/models"

	"github.com/gin-gonic/gin"
)

// SignupHandler registers a new account and returns a token.
func (hb *HandlerBundle) SignupHandler(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	resp, err := hb.Identity.Signup(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// SigninHandler authenticates an account and returns a token.
func (hb *HandlerBundle) SigninHandler(c *gin.Context) {
	var req models.SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	resp, err := hb.Identity.Signin(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegisterDeviceHandler stores the caller's push token.
func (hb *HandlerBundle) RegisterDeviceHandler(c *gin.Context) {
	var req struct {
		FCMToken string `json:"fcmToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	accountID := c.GetString("accountID")
	if err := hb.Identity.RegisterDeviceToken(c.Request.Context(), accountID, req.FCMToken); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
