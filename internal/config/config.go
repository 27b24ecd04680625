package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort         string        `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL      string        `env:"DATABASE_URL"`
	DBMaxConns       int32         `env:"DB_MAX_CONNS" envDefault:"10"`
	RedisAddr        string        `env:"REDIS_ADDR"`
	RedisPassword    string        `env:"REDIS_PASSWORD"`
	RedisDB          int           `env:"REDIS_DB" envDefault:"0"`
	JWTSecret        string        `env:"JWT_SECRET"`
	JWTAccessTTL     time.Duration `env:"JWT_ACCESS_TTL" envDefault:"15m"`
	TrendCacheTTL    time.Duration `env:"PULSE_TREND_CACHE_TTL" envDefault:"1m"`
	SubmitRateWindow time.Duration `env:"PULSE_SUBMIT_RATE_WINDOW" envDefault:"24h"`
	SubmitRateMax    int           `env:"PULSE_SUBMIT_RATE_MAX" envDefault:"3"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
