package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"chakula-api/models"
	"chakula-api/services"
	"chakula-api/utils"
	"chakula-api/validation"

	"github.com/gin-gonic/gin"
)

type MealStore interface {
	List(ctx context.Context, q services.MealQuery) ([]models.Meal, error)
	Random(ctx context.Context, count int) ([]models.Meal, error)
	Create(ctx context.Context, meal *models.Meal) error
}

type MealController struct {
	Meals MealStore
	// MaxLimit caps ?limit=; zero leaves it unbounded.
	MaxLimit int
}

func NewMealController(meals MealStore, maxLimit int) *MealController {
	return &MealController{Meals: meals, MaxLimit: maxLimit}
}

// GET /meals?limit=&offset=&search=&category=
func (mc *MealController) ListMeals(c *gin.Context) {
	q, err := parseMealQuery(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	meals, err := mc.Meals.List(c.Request.Context(), q.ClampLimit(mc.MaxLimit))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, meals)
}

// GET /meals/random?count=
// One meal is returned as an object, more as an array.
func (mc *MealController) RandomMeals(c *gin.Context) {
	count := services.DefaultSample
	if raw := c.Query("count"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			count = n
		}
	}
	count = services.ClampSample(count)

	meals, err := mc.Meals.Random(c.Request.Context(), count)
	if errors.Is(err, services.ErrNoMeals) {
		_ = c.Error(utils.NotFound(utils.MsgNoMealsFound))
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}
	if count == 1 {
		c.JSON(http.StatusOK, meals[0])
		return
	}
	c.JSON(http.StatusOK, meals)
}

// POST /meals
func (mc *MealController) CreateMeal(c *gin.Context) {
	var input validation.CreateMealInput
	if err := validation.BindJSON(c, &input); err != nil {
		_ = c.Error(err)
		return
	}
	meal := input.ToModel()
	if err := mc.Meals.Create(c.Request.Context(), meal); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, meal)
}

func parseMealQuery(c *gin.Context) (services.MealQuery, error) {
	q := services.DefaultMealQuery()
	var details []utils.FieldError
	for _, p := range []struct {
		name string
		dst  *int
	}{{"limit", &q.Limit}, {"offset", &q.Offset}} {
		raw, ok := c.GetQuery(p.name)
		if !ok || raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			details = append(details, utils.FieldError{
				Path:    p.name,
				Message: fmt.Sprintf("Expected a non-negative integer, received %q", raw),
			})
			continue
		}
		*p.dst = n
	}
	if len(details) > 0 {
		return q, utils.ValidationFailed(details)
	}
	q.Search = c.Query("search")
	q.Category = c.Query("category")
	return q, nil
}
