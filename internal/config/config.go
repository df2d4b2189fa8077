package config

import (
	"fmt"
	"strings"
	"time"

	"inventory-backend/internal/pkg/apperr"

	"github.com/spf13/viper"
)

// MinJWTSecretLength is the shortest accepted HMAC signing secret.
const MinJWTSecretLength = 32

// Config holds application configuration (env + Viper).
type Config struct {
	Env                string
	Port               string
	DBDriver           string
	DatabaseURL        string
	DBAutoMigrate      bool
	RedisURL           string
	JWTSecret          string
	JWTTTL             time.Duration
	CORSAllowedOrigins []string
	SweepInterval      time.Duration
	LogLevel           string
	LogFormat          string
	LogFile            string
	MetricsEnabled     bool
	HealthAdminKey     string
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "2300")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_AUTO_MIGRATE", false)
	v.SetDefault("JWT_TTL", "168h")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("SWEEP_INTERVAL", "1h")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("METRICS_ENABLED", true)

	env := v.GetString("APP_ENV")
	if env == "" {
		env = v.GetString("NODE_ENV")
	}
	if env == "" {
		env = "development"
	}

	ttl, err := time.ParseDuration(v.GetString("JWT_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	sweep, err := time.ParseDuration(v.GetString("SWEEP_INTERVAL"))
	if err != nil {
		return nil, fmt.Errorf("invalid SWEEP_INTERVAL: %w", err)
	}

	return &Config{
		Env:                env,
		Port:               v.GetString("PORT"),
		DBDriver:           strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
		DatabaseURL:        v.GetString("DATABASE_URL"),
		DBAutoMigrate:      v.GetBool("DB_AUTO_MIGRATE"),
		RedisURL:           v.GetString("REDIS_URL"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		JWTTTL:             ttl,
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		SweepInterval:      sweep,
		LogLevel:           v.GetString("LOG_LEVEL"),
		LogFormat:          v.GetString("LOG_FORMAT"),
		LogFile:            v.GetString("LOG_FILE"),
		MetricsEnabled:     v.GetBool("METRICS_ENABLED"),
		HealthAdminKey:     v.GetString("HEALTH_ADMIN_KEY"),
	}, nil
}

// Validate reports configuration that would make the server unsafe to start.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return apperr.Validation("JWT_SECRET is required")
	}
	if len(c.JWTSecret) < MinJWTSecretLength {
		return apperr.Validation(fmt.Sprintf("JWT_SECRET must be at least %d characters", MinJWTSecretLength))
	}
	if c.JWTTTL <= 0 {
		return apperr.Validation("JWT_TTL must be positive")
	}
	switch c.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return apperr.Validation(fmt.Sprintf("unsupported DB_DRIVER %q", c.DBDriver))
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
