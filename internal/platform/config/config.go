package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	JWTSecret     string

	// Payment processor API
	ProcessorBaseURL string
	ProcessorAPIKey  string

	// Analytics / audit events
	PosthogAPIKey string

	// AutoPay sweep schedule, cron syntax
	AutoPayCronSchedule string
	// System actor recorded on scheduler-initiated writes
	SystemUserID string

	// Payer share of the processing fee under SPLIT_FEES, 0..1
	FeeSplitTenantRatio decimal.Decimal
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("PROCESSOR_BASE_URL", "https://api.processor.example.com")
	viper.SetDefault("PROCESSOR_API_KEY", "")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("AUTOPAY_CRON_SCHEDULE", "0 6 * * *")
	viper.SetDefault("SYSTEM_USER_ID", "system-autopay")
	viper.SetDefault("FEE_SPLIT_TENANT_RATIO", "0.5")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.ProcessorBaseURL = viper.GetString("PROCESSOR_BASE_URL")
	cfg.ProcessorAPIKey = viper.GetString("PROCESSOR_API_KEY")
	if cfg.ProcessorAPIKey == "" {
		log.Println("Warning: PROCESSOR_API_KEY not set. Processor calls will be rejected.")
	}

	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.AutoPayCronSchedule = viper.GetString("AUTOPAY_CRON_SCHEDULE")
	cfg.SystemUserID = viper.GetString("SYSTEM_USER_ID")

	ratioStr := viper.GetString("FEE_SPLIT_TENANT_RATIO")
	ratio, err := decimal.NewFromString(ratioStr)
	if err != nil {
		return nil, fmt.Errorf("invalid FEE_SPLIT_TENANT_RATIO %q: %w", ratioStr, err)
	}
	if ratio.IsNegative() || ratio.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("FEE_SPLIT_TENANT_RATIO %s outside [0,1]", ratioStr)
	}
	cfg.FeeSplitTenantRatio = ratio

	return cfg, nil
}
