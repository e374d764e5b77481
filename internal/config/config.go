package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const devJWTSecret = "pos-system-secret-2025"

type Config struct {
	Port         string        `mapstructure:"PORT"`
	DBDriver     string        `mapstructure:"DB_DRIVER"`
	DBDSN        string        `mapstructure:"DB_DSN"`
	JWTSecret    string        `mapstructure:"JWT_SECRET"`
	TokenTTL     time.Duration `mapstructure:"TOKEN_TTL"`
	CORSOrigins  []string      `mapstructure:"CORS_ORIGINS"`
	UploadDir    string        `mapstructure:"UPLOAD_DIR"`
	WebDir       string        `mapstructure:"WEB_DIR"`
	StrictStatus bool          `mapstructure:"STRICT_STATUS"`
	LogLevel     string        `mapstructure:"LOG_LEVEL"`
	LogFormat    string        `mapstructure:"LOG_FORMAT"`
	GeminiAPIKey string        `mapstructure:"GEMINI_API_KEY"`
	GeminiModel  string        `mapstructure:"GEMINI_MODEL"`
}

var keys = []string{
	"PORT", "DB_DRIVER", "DB_DSN", "JWT_SECRET", "TOKEN_TTL", "CORS_ORIGINS", "UPLOAD_DIR", "WEB_DIR",
	"STRICT_STATUS", "LOG_LEVEL", "LOG_FORMAT", "GEMINI_API_KEY", "GEMINI_MODEL",
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("no .env file found, using process environment")
	}

	v := viper.New()
	v.SetDefault("PORT", "8082")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_DSN", "coffee_shop.db")
	v.SetDefault("JWT_SECRET", devJWTSecret)
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("WEB_DIR", "web")
	v.SetDefault("STRICT_STATUS", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("GEMINI_MODEL", "gemini-2.0-flash-001")
	v.AutomaticEnv()
	// AutomaticEnv only covers keys viper already knows about during Unmarshal
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	switch c.DBDriver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if c.JWTSecret == devJWTSecret {
		log.Warn().Msg("JWT_SECRET not set, using the development secret. Set it in production!")
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = 24 * time.Hour
	}
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{"*"}
	}
	return nil
}
