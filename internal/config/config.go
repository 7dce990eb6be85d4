package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort              string   `env:"HTTP_PORT" envDefault:"8080"`
	FilePort              string   `env:"FILE_PORT" envDefault:"8081"`
	DatabaseURL           string   `env:"DATABASE_URL,required"`
	RedisAddr             string   `env:"REDIS_ADDR,required"`
	RedisPassword         string   `env:"REDIS_PASSWORD"`
	RedisDB               int      `env:"REDIS_DB" envDefault:"0"`
	SessionTTLHours       int      `env:"SESSION_TTL_HOURS" envDefault:"72"`
	RequestTimeoutSeconds int      `env:"REQUEST_TIMEOUT_SECONDS" envDefault:"30"`
	AuthSkipPrefixes      []string `env:"AUTH_SKIP_PREFIXES" envSeparator:"," envDefault:"/auth"`
	S3Endpoint            string   `env:"S3_ENDPOINT"`
	S3Region              string   `env:"S3_REGION" envDefault:"us-east-1"`
	S3AccessKey           string   `env:"S3_ACCESS_KEY"`
	S3SecretKey           string   `env:"S3_SECRET_KEY"`
	S3Bucket              string   `env:"S3_BUCKET" envDefault:"users"`
	FileBaseURL           string   `env:"FILE_BASE_URL" envDefault:"http://localhost:8081/files/users"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SessionTTL devuelve el TTL de sesión como duración.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// RequestTimeout devuelve el límite por request aplicado en el interceptor.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}
