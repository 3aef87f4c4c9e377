package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/Fares-ag/blox-vercel-sub002/internal/domain"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:",squash"`
	Database  DatabaseConfig  `mapstructure:",squash"`
	Redis     RedisConfig     `mapstructure:",squash"`
	Scheduler SchedulerConfig `mapstructure:",squash"`
	Business  BusinessConfig  `mapstructure:",squash"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"SERVER_PORT"`
	Host         string        `mapstructure:"SERVER_HOST"`
	Env          string        `mapstructure:"ENV"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"DATABASE_URL"`
	MaxOpenConns    int           `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type SchedulerConfig struct {
	StatusRefreshSpec string `mapstructure:"SCHEDULER_STATUS_REFRESH_SPEC"`
	Timezone          string `mapstructure:"SCHEDULER_TIMEZONE"`
}

// BusinessConfig carries the billing knobs: the yearly deferral quota and
// the settlement discount policy.
type BusinessConfig struct {
	DeferralQuotaPerYear        int    `mapstructure:"DEFERRAL_QUOTA_PER_YEAR"`
	SettlementPrincipalDiscount string `mapstructure:"SETTLEMENT_PRINCIPAL_DISCOUNT"`
	SettlementInterestDiscount  string `mapstructure:"SETTLEMENT_INTEREST_DISCOUNT"`
	SettlementDiscountType      string `mapstructure:"SETTLEMENT_DISCOUNT_TYPE"`
	MaxDiscountAmount           string `mapstructure:"SETTLEMENT_MAX_DISCOUNT_AMOUNT"`
	MaxDiscountPercentage       string `mapstructure:"SETTLEMENT_MAX_DISCOUNT_PERCENTAGE"`
	MinSettlementAmount         string `mapstructure:"SETTLEMENT_MIN_AMOUNT"`
	MinRemainingPayments        int    `mapstructure:"SETTLEMENT_MIN_REMAINING_PAYMENTS"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("SERVER_READ_TIMEOUT", "15s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DATABASE_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SCHEDULER_STATUS_REFRESH_SPEC", "0 5 0 * * *")
	viper.SetDefault("SCHEDULER_TIMEZONE", "UTC")
	viper.SetDefault("DEFERRAL_QUOTA_PER_YEAR", domain.DefaultDeferralQuota)
	viper.SetDefault("SETTLEMENT_PRINCIPAL_DISCOUNT", "0")
	viper.SetDefault("SETTLEMENT_INTEREST_DISCOUNT", "0")
	viper.SetDefault("SETTLEMENT_DISCOUNT_TYPE", domain.DiscountTypePercentage)
	viper.SetDefault("SETTLEMENT_MAX_DISCOUNT_AMOUNT", "0")
	viper.SetDefault("SETTLEMENT_MAX_DISCOUNT_PERCENTAGE", "0")
	viper.SetDefault("SETTLEMENT_MIN_AMOUNT", "0")
	viper.SetDefault("SETTLEMENT_MIN_REMAINING_PAYMENTS", 0)

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read from .env file (optional)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Business.DeferralQuotaPerYear <= 0 {
		return fmt.Errorf("DEFERRAL_QUOTA_PER_YEAR must be greater than 0")
	}

	if c.Business.SettlementDiscountType != domain.DiscountTypePercentage &&
		c.Business.SettlementDiscountType != domain.DiscountTypeFixed {
		return fmt.Errorf("SETTLEMENT_DISCOUNT_TYPE must be percentage or fixed")
	}

	for name, value := range map[string]string{
		"SETTLEMENT_PRINCIPAL_DISCOUNT":      c.Business.SettlementPrincipalDiscount,
		"SETTLEMENT_INTEREST_DISCOUNT":       c.Business.SettlementInterestDiscount,
		"SETTLEMENT_MAX_DISCOUNT_AMOUNT":     c.Business.MaxDiscountAmount,
		"SETTLEMENT_MAX_DISCOUNT_PERCENTAGE": c.Business.MaxDiscountPercentage,
		"SETTLEMENT_MIN_AMOUNT":              c.Business.MinSettlementAmount,
	} {
		if _, err := decimal.NewFromString(value); err != nil {
			return fmt.Errorf("%s must be a valid decimal: %w", name, err)
		}
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// SettlementPolicy builds the discount policy from the configured knobs.
// The decimal fields were validated at load time.
func (c *Config) SettlementPolicy() domain.DiscountPolicy {
	principal, _ := decimal.NewFromString(c.Business.SettlementPrincipalDiscount)
	interest, _ := decimal.NewFromString(c.Business.SettlementInterestDiscount)
	maxAmount, _ := decimal.NewFromString(c.Business.MaxDiscountAmount)
	maxPct, _ := decimal.NewFromString(c.Business.MaxDiscountPercentage)
	minAmount, _ := decimal.NewFromString(c.Business.MinSettlementAmount)

	return domain.DiscountPolicy{
		PrincipalDiscount: domain.DiscountSetting{
			Enabled: principal.Sign() > 0,
			Type:    c.Business.SettlementDiscountType,
			Value:   principal,
		},
		InterestDiscount: domain.DiscountSetting{
			Enabled: interest.Sign() > 0,
			Type:    c.Business.SettlementDiscountType,
			Value:   interest,
		},
		MaxDiscountAmount:     maxAmount,
		MaxDiscountPercentage: maxPct,
		MinSettlementAmount:   minAmount,
		MinRemainingPayments:  c.Business.MinRemainingPayments,
	}
}
