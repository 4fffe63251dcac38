package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/database"
	"github.com/Tashika-Wijesooriya/GemXpert/internal/domain"
	"github.com/Tashika-Wijesooriya/GemXpert/internal/pricing"
	"github.com/shopspring/decimal"
)

const (
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	HTTPPort           string
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64
	// LogDevelopment selects the human-readable console log encoder.
	LogDevelopment bool

	Mongo database.MongoOptions

	RedisAddr     string
	RedisPassword string

	// StoreBackend selects where checkout sessions and the catalog live.
	StoreBackend string
	// OrderStore selects the order record backend and defaults to StoreBackend.
	OrderStore string
	Postgres   database.Credentials

	KafkaBrokers []string

	JWTSecret string
	RateRPS   float64
	RateBurst int

	Currency           string
	Pricing            pricing.Policy
	PaymentSuccessRate int
	PaymentTimeout     time.Duration
	IdempotencyTTL     time.Duration
}

func Load() (*Config, error) {
	policy, err := loadPricing()
	if err != nil {
		return nil, err
	}

	store := getEnv("STORE_BACKEND", BackendMongo)
	cfg := &Config{
		HTTPPort:           getEnv("HTTP_PORT", "3001"),
		RequestTimeout:     getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout:    getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		MaxRequestBodySize: int64(getEnvInt("MAX_REQUEST_BODY_SIZE", 1<<20)), // 1MB
		LogDevelopment:     getEnv("LOG_FORMAT", "json") == "console",

		Mongo: database.MongoOptions{
			URI:                    getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:               getEnv("MONGO_DB_NAME", "gemxpert"),
			ConnectTimeout:         getEnvDuration("MONGO_CONNECT_TIMEOUT", 10*time.Second),
			ServerSelectionTimeout: getEnvDuration("MONGO_SERVER_SELECTION_TIMEOUT", 5*time.Second),
			MaxPoolSize:            uint64(getEnvInt("MONGO_MAX_POOL_SIZE", 100)),
			MinPoolSize:            uint64(getEnvInt("MONGO_MIN_POOL_SIZE", 10)),
		},

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		StoreBackend: store,
		OrderStore:   getEnv("ORDER_STORE", store),
		Postgres: database.Credentials{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getEnvInt("DB_PORT", 5432),
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", "postgres"),
			DBName:            getEnv("DB_NAME", "gemxpert"),
			MigrationsDirPath: getEnv("MIGRATIONS_PATH", ""),
		},

		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "")),

		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-me"),
		RateRPS:   getEnvFloat("RATE_RPS", 10),
		RateBurst: getEnvInt("RATE_BURST", 20),

		Currency:           getEnv("CURRENCY", "USD"),
		Pricing:            policy,
		PaymentSuccessRate: getEnvInt("PAYMENT_SUCCESS_RATE", 95),
		PaymentTimeout:     getEnvDuration("PAYMENT_TIMEOUT", 10*time.Second),
		IdempotencyTTL:     getEnvDuration("IDEMPOTENCY_TTL", 24*time.Hour),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	for _, backend := range []string{c.StoreBackend, c.OrderStore} {
		switch backend {
		case BackendMongo, BackendMemory, BackendPostgres:
		default:
			return fmt.Errorf("unknown store backend %q", backend)
		}
	}
	if c.StoreBackend == BackendPostgres {
		return fmt.Errorf("STORE_BACKEND=postgres is not supported, use ORDER_STORE")
	}
	if c.PaymentSuccessRate < 0 || c.PaymentSuccessRate > 100 {
		return fmt.Errorf("PAYMENT_SUCCESS_RATE must be between 0 and 100, got %d", c.PaymentSuccessRate)
	}
	return nil
}

func loadPricing() (pricing.Policy, error) {
	policy := pricing.DefaultPolicy()

	threshold, err := getEnvMoney("PRICING_FREE_SHIPPING_THRESHOLD", policy.FreeShippingThreshold)
	if err != nil {
		return policy, err
	}
	flat, err := getEnvMoney("PRICING_FLAT_SHIPPING", policy.FlatShipping)
	if err != nil {
		return policy, err
	}
	policy.FreeShippingThreshold = threshold
	policy.FlatShipping = flat

	if v := os.Getenv("PRICING_TAX_RATE"); v != "" {
		rate, err := decimal.NewFromString(v)
		if err != nil || rate.IsNegative() {
			return policy, fmt.Errorf("invalid PRICING_TAX_RATE %q", v)
		}
		policy.TaxRate = rate
	}

	// PRICING_COUNTRY_SHIPPING="Sri Lanka=5.00,India=7.50"
	if v := os.Getenv("PRICING_COUNTRY_SHIPPING"); v != "" {
		policy.CountryShipping = make(map[string]domain.Money)
		for _, pair := range splitList(v) {
			name, amount, ok := strings.Cut(pair, "=")
			if !ok {
				return policy, fmt.Errorf("invalid PRICING_COUNTRY_SHIPPING entry %q", pair)
			}
			fee, err := decimal.NewFromString(strings.TrimSpace(amount))
			if err != nil {
				return policy, fmt.Errorf("invalid PRICING_COUNTRY_SHIPPING entry %q: %w", pair, err)
			}
			key := pricing.CountryKey(name)
			if key == "" {
				return policy, fmt.Errorf("invalid PRICING_COUNTRY_SHIPPING entry %q", pair)
			}
			if _, dup := policy.CountryShipping[key]; dup {
				return policy, fmt.Errorf("duplicate PRICING_COUNTRY_SHIPPING country %q", strings.TrimSpace(name))
			}
			policy.CountryShipping[key] = domain.MoneyFromDecimal(fee)
		}
	}

	return policy, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvMoney(key string, defaultValue domain.Money) (domain.Money, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return domain.MoneyFromDecimal(d), nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
