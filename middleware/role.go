package middleware

import (
	"context"
	"net/http"

	userRepo "mentorhub/database/repository/user"
	"mentorhub/models"

	"github.com/gin-gonic/gin"
)

// RequireRole gates an endpoint to accounts carrying the given role. Must run
// after JWTAuthMiddleware.
func RequireRole(users userRepo.UserRepository, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		account := accountFromContext(c, users)
		if account == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}
		if !account.HasRole(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "This action requires the " + role + " role",
			})
			return
		}
		c.Next()
	}
}

func accountFromContext(c *gin.Context, users userRepo.UserRepository) *models.Account {
	if v, ok := c.Get("account"); ok {
		if account, ok := v.(*models.Account); ok {
			return account
		}
	}
	accountID := c.GetString("accountID")
	if accountID == "" {
		return nil
	}
	account, err := users.GetByID(context.Background(), accountID)
	if err != nil {
		return nil
	}
	c.Set("account", account)
	return account
}
