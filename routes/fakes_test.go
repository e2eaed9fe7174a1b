package routes

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"chakula-api/models"
	"chakula-api/services"
	"chakula-api/utils"
)

type memoryKeys struct {
	mu   sync.Mutex
	keys []models.APIKey
}

func (m *memoryKeys) Create(_ context.Context, name string) (*models.APIKey, error) {
	token, err := utils.GenerateAPIKey()
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	k := models.APIKey{ID: uint(len(m.keys) + 1), Key: token, Name: name, Active: true, CreatedAt: time.Now()}
	m.keys = append(m.keys, k)
	return &k, nil
}

func (m *memoryKeys) List(context.Context) ([]models.APIKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.APIKey{}, m.keys...), nil
}

func (m *memoryKeys) FindActive(_ context.Context, key string) (*models.APIKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.keys {
		if m.keys[i].Key == key && m.keys[i].Active {
			k := m.keys[i]
			return &k, nil
		}
	}
	return nil, services.ErrKeyNotFound
}

// memoryMeals mirrors the SQL semantics of services.MealService.
type memoryMeals struct {
	mu      sync.Mutex
	meals   []models.Meal
	lastQ   services.MealQuery
	failErr error
}

func (m *memoryMeals) List(_ context.Context, q services.MealQuery) ([]models.Meal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastQ = q
	if m.failErr != nil {
		return nil, m.failErr
	}
	out := []models.Meal{}
	skipped := 0
	for _, meal := range m.meals {
		if q.Search != "" && !strings.Contains(strings.ToLower(meal.Name), strings.ToLower(q.Search)) {
			continue
		}
		if q.Category != "" && !contains(meal.Category, q.Category) {
			continue
		}
		if skipped < q.Offset {
			skipped++
			continue
		}
		if len(out) == q.Limit {
			break
		}
		out = append(out, meal)
	}
	return out, nil
}

func (m *memoryMeals) Random(_ context.Context, count int) ([]models.Meal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.meals) == 0 {
		return nil, services.ErrNoMeals
	}
	pool := append([]models.Meal{}, m.meals...)
	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if count < len(pool) {
		pool = pool[:count]
	}
	return pool, nil
}

func (m *memoryMeals) Create(_ context.Context, meal *models.Meal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	meal.ID = uint(len(m.meals) + 1)
	meal.CreatedAt = time.Now()
	meal.UpdatedAt = meal.CreatedAt
	m.meals = append(m.meals, *meal)
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

var errDown = errors.New("database is down")
