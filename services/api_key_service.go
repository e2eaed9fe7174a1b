package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chakula-api/models"
	"chakula-api/utils"

	"gorm.io/gorm"
)

var ErrKeyNotFound = errors.New("api key not found")

type APIKeyService struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewAPIKeyService(db *gorm.DB, timeout time.Duration) *APIKeyService {
	return &APIKeyService{db: db, timeout: timeout}
}

// Create issues a new active key. There is no retry on collision; the unique
// index on key turns one into a store error.
func (s *APIKeyService) Create(ctx context.Context, name string) (*models.APIKey, error) {
	token, err := utils.GenerateAPIKey()
	if err != nil {
		return nil, fmt.Errorf("generate api key: %w", err)
	}
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	key := &models.APIKey{Key: token, Name: name, Active: true}
	if err := s.db.WithContext(ctx).Create(key).Error; err != nil {
		return nil, fmt.Errorf("insert api key: %w", err)
	}
	return key, nil
}

func (s *APIKeyService) List(ctx context.Context) ([]models.APIKey, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	keys := []models.APIKey{}
	if err := s.db.WithContext(ctx).Order("id").Find(&keys).Error; err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	return keys, nil
}

// FindActive returns ErrKeyNotFound when no active key matches.
func (s *APIKeyService) FindActive(ctx context.Context, key string) (*models.APIKey, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	var k models.APIKey
	err := s.db.WithContext(ctx).
		Where("key = ? AND active = ?", key, true).
		Take(&k).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find api key: %w", err)
	}
	return &k, nil
}
