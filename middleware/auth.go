package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	userRepo "mentorhub/database/repository/user"
	"mentorhub/utils"

	"github.com/gin-gonic/gin"
)

// JWTAuthMiddleware authenticates requests with a Bearer token. Validated
// token hashes are cached in Redis so repeat requests skip the signature
// check; a cache outage falls back to full validation.
func JWTAuthMiddleware(users userRepo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
					"code":  500,
				})
			}
		}()

		ctx := context.Background()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}

		accountID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || accountID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}

		computedHash := utils.HashToken(tokenString)
		cacheKey := utils.AuthCachePrefix + accountID

		authCache := utils.GetAuthCacheClient()
		cacheEnabled := authCache != nil
		if !cacheEnabled {
			log.Printf("WARNING: Auth cache client not available. Falling back to token validation.")
		}

		if cacheEnabled {
			cachedHash, err := authCache.Get(ctx, cacheKey).Result()
			if err == nil {
				if cachedHash != computedHash {
					c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
						"error": "Insufficient authorization",
					})
					return
				}
				_ = authCache.Expire(ctx, cacheKey, time.Hour).Err()
				c.Set("accountID", accountID)
				c.Next()
				return
			}
		}

		// Cache miss: confirm the account still exists, then cache the hash.
		account, err := users.GetByID(ctx, accountID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}

		if cacheEnabled {
			if err := authCache.Set(ctx, cacheKey, computedHash, time.Hour).Err(); err != nil {
				log.Printf("WARNING: Failed to cache auth token hash: %v", err)
			}
		}

		c.Set("accountID", accountID)
		c.Set("account", account)
		c.Next()
	}
}
