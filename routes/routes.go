package routes

import (
	"chakula-api/controllers"
	"chakula-api/middlewares"
	"chakula-api/validation"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ulule/limiter/v3"
)

type KeyStore interface {
	controllers.APIKeyStore
	middlewares.KeyFinder
}

type Options struct {
	Keys   KeyStore
	Meals  controllers.MealStore
	Health controllers.Pinger

	LimiterStore limiter.Store
	GeneralRate  limiter.Rate
	StrictRate   limiter.Rate

	// ExposeErrors echoes internal error text in 500 bodies.
	ExposeErrors   bool
	MealsMaxLimit  int
	TrustedProxies []string
	// Registry receives the HTTP metrics and is served on /metrics.
	Registry *prometheus.Registry
}

// SetupRouter wires every route with its handler chain, in order:
// rate limiter, API key auth, then the handler (which validates before
// touching the store).
func SetupRouter(opts Options) (*gin.Engine, error) {
	validation.Setup()

	r := gin.New()
	if err := r.SetTrustedProxies(opts.TrustedProxies); err != nil {
		return nil, err
	}

	var metrics *middlewares.Metrics
	if opts.Registry != nil {
		metrics = middlewares.NewMetrics(opts.Registry)
	}

	r.Use(
		middlewares.RequestID(),
		middlewares.RequestLogger(),
		metrics.Middleware(),
		middlewares.ErrorHandler(opts.ExposeErrors),
		middlewares.Recovery(),
	)

	general := middlewares.RateLimit(opts.LimiterStore, middlewares.RateLimitOptions{
		Name:    "general",
		Rate:    opts.GeneralRate,
		Message: middlewares.GeneralLimitMessage,
		Headers: middlewares.HeadersStandard,
	}, metrics)
	strict := middlewares.RateLimit(opts.LimiterStore, middlewares.RateLimitOptions{
		Name:    "strict",
		Rate:    opts.StrictRate,
		Message: middlewares.StrictLimitMessage,
		Headers: middlewares.HeadersLegacy,
	}, metrics)
	auth := middlewares.APIKeyAuth(opts.Keys)

	keys := controllers.NewAPIKeyController(opts.Keys)
	meals := controllers.NewMealController(opts.Meals, opts.MealsMaxLimit)

	r.GET("/", controllers.Welcome)
	if opts.Health != nil {
		r.GET("/healthz", controllers.NewHealthController(opts.Health).Health)
	}
	if opts.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))
	}

	r.POST("/api-keys", strict, keys.CreateKey)
	r.GET("/api-keys", auth, keys.ListKeys)

	mealRoutes := r.Group("/meals", general, auth)
	{
		mealRoutes.GET("", meals.ListMeals)
		mealRoutes.GET("/random", meals.RandomMeals)
		mealRoutes.POST("", meals.CreateMeal)
	}

	return r, nil
}
