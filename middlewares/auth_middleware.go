package middlewares

import (
	"context"
	"errors"

	"chakula-api/models"
	"chakula-api/services"
	"chakula-api/utils"

	"github.com/gin-gonic/gin"
)

const (
	HeaderAPIKey = "x-api-key"
	QueryAPIKey  = "apiKey"
)

type KeyFinder interface {
	FindActive(ctx context.Context, key string) (*models.APIKey, error)
}

// APIKeyAuth admits requests carrying an active key in the x-api-key header
// or the apiKey query parameter. The header wins when both are present.
func APIKeyAuth(keys KeyFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		candidate := c.GetHeader(HeaderAPIKey)
		if candidate == "" {
			candidate = c.Query(QueryAPIKey)
		}
		if candidate == "" {
			_ = c.Error(utils.Unauthorized(utils.MsgAPIKeyRequired))
			c.Abort()
			return
		}

		if _, err := keys.FindActive(c.Request.Context(), candidate); err != nil {
			if errors.Is(err, services.ErrKeyNotFound) {
				_ = c.Error(utils.Forbidden(utils.MsgInvalidAPIKey))
			} else {
				_ = c.Error(err)
			}
			c.Abort()
			return
		}

		c.Next()
	}
}
