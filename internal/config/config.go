package config

import (
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server   Server
	Database Database
	Redis    Redis
	Auth     Auth
	Chat     Chat
	Log      Log
	Limit    RateLimit
}

type Server struct {
	Port    string `envconfig:"PORT" default:"8080"`
	GinMode string `envconfig:"GIN_MODE" default:"release" validate:"oneof=debug release test"`
	// Только этим адресам верим X-Forwarded-For; пустой список отключает заголовок
	TrustedProxies []string `envconfig:"TRUSTED_PROXIES" default:"127.0.0.1"`
}

func (s Server) Addr() string {
	return ":" + s.Port
}

type Database struct {
	URL          string `envconfig:"DATABASE_URL" validate:"required"`
	MaxOpenConns int    `envconfig:"DB_MAX_OPEN_CONNS" default:"20" validate:"min=1"`
	MaxIdleConns int    `envconfig:"DB_MAX_IDLE_CONNS" default:"10" validate:"min=0"`
}

type Redis struct {
	// Пустой URL отключает черный список токенов и /logout
	URL string `envconfig:"REDIS_URL"`
}

type Auth struct {
	JWTSecret     string        `envconfig:"JWT_SECRET" validate:"required,min=16"`
	TokenTTL      time.Duration `envconfig:"TOKEN_TTL" default:"30m" validate:"gt=0"`
	AdminPassword string        `envconfig:"ADMIN_PASSWORD" default:"admin" validate:"required"`
}

type Chat struct {
	SeedWelcomeMessage bool `envconfig:"SEED_WELCOME_MESSAGE" default:"false"`
}

type Log struct {
	Level string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	JSON  bool   `envconfig:"LOG_JSON" default:"true"`
}

type RateLimit struct {
	PerSecond float64 `envconfig:"RATE_LIMIT" default:"5" validate:"gt=0"`
	Burst     int     `envconfig:"RATE_BURST" default:"10" validate:"min=1"`
}

var validate = validator.New()

// Load читает .env.local / .env (если есть) и переменные окружения
func Load() (*Config, error) {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println(".env not found, using environment variables")
		}
	}
	return FromEnv()
}

// FromEnv собирает конфиг только из окружения, без .env файлов
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
