package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr  string `env:"APP_ADDR" env-default:":8080"`
	GinMode  string `env:"GIN_MODE"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	DB    Database
	JWT   JWT
	Redis Redis

	CookieSecure       bool          `env:"COOKIE_SECURE" env-default:"true"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173"`
	DistrictCacheTTL   time.Duration `env:"DISTRICT_CACHE_TTL" env-default:"5m"`
	StaticRoot         string        `env:"STATIC_ROOT" env-default:"wwwroot"`
}

type Database struct {
	Host         string `env:"DB_HOST" env-default:"127.0.0.1"`
	Port         string `env:"DB_PORT" env-default:"3306"`
	User         string `env:"DB_USER" env-default:"root"`
	Password     string `env:"DB_PASS"`
	Name         string `env:"DB_NAME" env-default:"nightcity"`
	MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns int    `env:"DB_MAX_IDLE_CONNS" env-default:"25"`
}

// DSN builds a go-sql-driver/mysql data source name. Times are read back in UTC.
func (d Database) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Name,
	)
}

type JWT struct {
	Secret string        `env:"JWT_SECRET" env-default:"change-me-in-production"`
	TTL    time.Duration `env:"JWT_TTL" env-default:"168h"`
}

type Redis struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

// Enabled reports whether a Redis address was configured.
func (r Redis) Enabled() bool {
	return strings.TrimSpace(r.Addr) != ""
}

// LoadEnv reads an optional .env file and then the process environment.
func LoadEnv() (Env, error) {
	_ = godotenv.Load()

	var env Env
	if err := cleanenv.ReadEnv(&env); err != nil {
		return Env{}, fmt.Errorf("config error: %w", err)
	}
	env.GinMode = strings.TrimSpace(env.GinMode)
	return env, nil
}
