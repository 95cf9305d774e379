package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// EnvProduction hides error stacks from API responses.
	EnvProduction  = "production"
	EnvDevelopment = "development"

	defaultJWTSecret = "change-me"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort       string
	AppEnv           string
	DBDriver         string
	DatabaseDSN      string
	ResetDB          bool
	RedisAddr        string
	RedisDB          int
	RedisPass        string
	CacheTTL         time.Duration
	JWTSecret        string
	TokenTTL         time.Duration
	BcryptCost       int
	CORSAllowOrigins []string
	SwaggerHost      string
}

// Load builds Config from environment with sensible defaults. A .env file in
// the working directory is read first when present; real environment
// variables win over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	driver := strings.ToLower(getEnv("DB_DRIVER", "mysql"))
	cfg := &Config{
		ServerPort:       getEnv("SERVER_PORT", "5000"),
		AppEnv:           strings.ToLower(getEnv("APP_ENV", EnvDevelopment)),
		DBDriver:         driver,
		DatabaseDSN:      getEnv("DATABASE_DSN", defaultDSN(driver)),
		ResetDB:          getEnvBool("RESET_DB", false),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		RedisPass:        os.Getenv("REDIS_PASSWORD"),
		CacheTTL:         getEnvDuration("CACHE_TTL", 5*time.Minute),
		JWTSecret:        getEnv("JWT_SECRET", defaultJWTSecret),
		TokenTTL:         getEnvDuration("TOKEN_TTL", 30*24*time.Hour),
		BcryptCost:       getEnvInt("BCRYPT_COST", 10),
		CORSAllowOrigins: getEnvList("CORS_ALLOW_ORIGINS", []string{"*"}),
		SwaggerHost:      os.Getenv("SWAGGER_HOST"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether the service runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER must be mysql or postgres, got %q", c.DBDriver)
	}
	if c.IsProduction() && c.JWTSecret == defaultJWTSecret {
		return errors.New("JWT_SECRET is required in production")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	return nil
}

func defaultDSN(driver string) string {
	if driver == "postgres" {
		return "host=localhost user=postgres password=password dbname=jobboard port=5432 sslmode=disable"
	}
	return "user:password@tcp(localhost:3306)/jobboard?charset=utf8mb4&parseTime=True&loc=Local"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
