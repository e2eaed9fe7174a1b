package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"chakula-api/models"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

var DB *gorm.DB

type Config struct {
	DatabaseURL     string        `mapstructure:"database_url"`
	Port            int           `mapstructure:"port"`
	Env             string        `mapstructure:"app_env"`
	LogLevel        string        `mapstructure:"log_level"`
	LogJSON         bool          `mapstructure:"log_json"`
	RedisURL        string        `mapstructure:"redis_url"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	QueryTimeout    time.Duration `mapstructure:"db_query_timeout"`
	MealsMaxLimit   int           `mapstructure:"meals_max_limit"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// TrustedProxies lists proxy CIDRs whose X-Forwarded-For is honoured when
	// resolving the client IP for rate limiting. Empty trusts none.
	TrustedProxies []string `mapstructure:"trusted_proxies"`

	GeneralRateLimit  int64         `mapstructure:"general_rate_limit"`
	GeneralRateWindow time.Duration `mapstructure:"general_rate_window"`
	StrictRateLimit   int64         `mapstructure:"strict_rate_limit"`
	StrictRateWindow  time.Duration `mapstructure:"strict_rate_window"`
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Load reads the optional env files (".env" when none are given) and then the
// process environment. A missing env file is not an error.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	v := viper.New()
	v.SetDefault("database_url", "")
	v.SetDefault("port", 3000)
	v.SetDefault("app_env", EnvDevelopment)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)
	v.SetDefault("redis_url", "")
	v.SetDefault("allowed_origins", []string{})
	v.SetDefault("db_query_timeout", 5*time.Second)
	v.SetDefault("meals_max_limit", 0)
	v.SetDefault("shutdown_timeout", 15*time.Second)
	v.SetDefault("trusted_proxies", []string{})
	v.SetDefault("general_rate_limit", 100)
	v.SetDefault("general_rate_window", 15*time.Minute)
	v.SetDefault("strict_rate_limit", 5)
	v.SetDefault("strict_rate_window", time.Hour)

	v.AutomaticEnv()
	if err := v.BindEnv("database_url", "DATABASE_URL", "NEON_DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("bind database_url: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return fmt.Errorf("app_env must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Env)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if c.GeneralRateLimit <= 0 || c.StrictRateLimit <= 0 {
		return errors.New("rate limits must be positive")
	}
	if c.GeneralRateWindow <= 0 || c.StrictRateWindow <= 0 {
		return errors.New("rate limit windows must be positive")
	}
	if c.MealsMaxLimit < 0 {
		return fmt.Errorf("meals_max_limit must not be negative: %d", c.MealsMaxLimit)
	}
	return nil
}

// InitDB connects to Postgres, migrates the schema and stores the handle in DB.
func InitDB(cfg *Config) (*gorm.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := db.AutoMigrate(&models.APIKey{}, &models.Meal{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	DB = db
	return db, nil
}
