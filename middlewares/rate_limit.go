package middlewares

import (
	"fmt"
	"strconv"
	"time"

	"chakula-api/logger"
	"chakula-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const (
	GeneralLimitMessage = "Too many requests from this IP, please try again later."
	StrictLimitMessage  = "Too many key generation requests from this IP, please try again later."

	limiterPrefix = "chakula:ratelimit"
)

type HeaderStyle int

const (
	// HeadersStandard emits RateLimit-Limit, RateLimit-Remaining and
	// RateLimit-Reset (seconds until the window resets).
	HeadersStandard HeaderStyle = iota
	// HeadersLegacy emits the X-RateLimit-* trio with Reset as a unix time.
	HeadersLegacy
)

type RateLimitOptions struct {
	// Name scopes the counters so limiters can share one store.
	Name    string
	Rate    limiter.Rate
	Message string
	Headers HeaderStyle
}

// NewLimiterStore returns a Redis-backed store when redisURL is set and a
// process-local one otherwise. The memory store is only correct for a single
// instance.
func NewLimiterStore(redisURL string) (limiter.Store, error) {
	if redisURL == "" {
		return memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          limiterPrefix,
			CleanUpInterval: limiter.DefaultCleanUpInterval,
		}), nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewRedisLimiterStore(redis.NewClient(opts))
}

func NewRedisLimiterStore(client *redis.Client) (limiter.Store, error) {
	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:   limiterPrefix,
		MaxRetry: 3,
	})
	if err != nil {
		return nil, fmt.Errorf("create redis limiter store: %w", err)
	}
	return store, nil
}

// RateLimit counts requests per client IP in fixed windows. When the store
// is unreachable the request is let through and the failure is logged.
func RateLimit(store limiter.Store, opts RateLimitOptions, metrics *Metrics) gin.HandlerFunc {
	lim := limiter.New(store, opts.Rate)
	return func(c *gin.Context) {
		key := opts.Name + ":" + c.ClientIP()
		ctx, err := lim.Get(c.Request.Context(), key)
		if err != nil {
			logger.Warn("rate limiter unavailable", "limiter", opts.Name, "err", err)
			c.Next()
			return
		}

		writeRateHeaders(c, opts.Headers, ctx)
		if ctx.Reached {
			if metrics != nil {
				metrics.RateLimited(opts.Name)
			}
			c.Header("Retry-After", strconv.FormatInt(secondsUntil(ctx.Reset), 10))
			_ = c.Error(utils.RateLimited(opts.Message))
			c.Abort()
			return
		}
		c.Next()
	}
}

func writeRateHeaders(c *gin.Context, style HeaderStyle, ctx limiter.Context) {
	limit := strconv.FormatInt(ctx.Limit, 10)
	remaining := strconv.FormatInt(ctx.Remaining, 10)
	switch style {
	case HeadersLegacy:
		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", remaining)
		c.Header("X-RateLimit-Reset", strconv.FormatInt(ctx.Reset, 10))
	default:
		c.Header("RateLimit-Limit", limit)
		c.Header("RateLimit-Remaining", remaining)
		c.Header("RateLimit-Reset", strconv.FormatInt(secondsUntil(ctx.Reset), 10))
	}
}

func secondsUntil(unix int64) int64 {
	d := time.Until(time.Unix(unix, 0))
	if d < 0 {
		return 0
	}
	return int64(d.Round(time.Second) / time.Second)
}
