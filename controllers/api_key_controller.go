package controllers

import (
	"context"
	"net/http"

	"chakula-api/models"
	"chakula-api/validation"

	"github.com/gin-gonic/gin"
)

type APIKeyStore interface {
	Create(ctx context.Context, name string) (*models.APIKey, error)
	List(ctx context.Context) ([]models.APIKey, error)
}

type APIKeyController struct {
	Keys APIKeyStore
}

func NewAPIKeyController(keys APIKeyStore) *APIKeyController {
	return &APIKeyController{Keys: keys}
}

// POST /api-keys  {"name": "..."}
func (kc *APIKeyController) CreateKey(c *gin.Context) {
	var input validation.CreateAPIKeyInput
	if err := validation.BindJSON(c, &input); err != nil {
		_ = c.Error(err)
		return
	}
	key, err := kc.Keys.Create(c.Request.Context(), input.Name)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"key":        key.Key,
		"name":       key.Name,
		"created_at": key.CreatedAt,
	})
}

// GET /api-keys
func (kc *APIKeyController) ListKeys(c *gin.Context) {
	keys, err := kc.Keys.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, keys)
}
