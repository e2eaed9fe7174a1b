package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chakula-api/models"

	"gorm.io/gorm"
)

var ErrNoMeals = errors.New("no meals found")

type MealService struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewMealService(db *gorm.DB, timeout time.Duration) *MealService {
	return &MealService{db: db, timeout: timeout}
}

func (s *MealService) List(ctx context.Context, q MealQuery) ([]models.Meal, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	meals := []models.Meal{}
	if err := q.Apply(s.db.WithContext(ctx).Model(&models.Meal{})).Find(&meals).Error; err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	return meals, nil
}

// Random draws up to count meals. Draws are independent between calls and
// the whole pool is returned when it is smaller than count.
func (s *MealService) Random(ctx context.Context, count int) ([]models.Meal, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	var meals []models.Meal
	err := s.db.WithContext(ctx).
		Order("RANDOM()").
		Limit(ClampSample(count)).
		Find(&meals).Error
	if err != nil {
		return nil, fmt.Errorf("sample meals: %w", err)
	}
	if len(meals) == 0 {
		return nil, ErrNoMeals
	}
	return meals, nil
}

func (s *MealService) Create(ctx context.Context, meal *models.Meal) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.db.WithContext(ctx).Create(meal).Error; err != nil {
		return fmt.Errorf("insert meal: %w", err)
	}
	return nil
}
