package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"family-hub-go/pkg/logger"
	"github.com/ilyakaznacheev/cleanenv"
)

const developmentAuthSecret = "family-hub-development-secret-do-not-use-in-production"

var ErrAuthSecretRequired = errors.New("AUTH_SECRET is required outside development")

type Config struct {
	HTTPPort       string        `env:"HTTP_PORT" env-default:"8080"`
	Env            string        `env:"ENV" env-default:"development"`
	AllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:5173" env-separator:","`
	RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"30s"`
	FamilyCacheTTL time.Duration `env:"FAMILY_CACHE_TTL" env-default:"30s"`
	DB             DBConfig
	Auth           AuthConfig
}

type DBConfig struct {
	Driver          string        `env:"DB_DRIVER" env-default:"postgres"`
	DSN             string        `env:"DB_DSN"`
	Host            string        `env:"DB_HOST" env-default:"localhost"`
	Port            string        `env:"DB_PORT" env-default:"5432"`
	User            string        `env:"DB_USER" env-default:"postgres"`
	Password        string        `env:"DB_PASSWORD" env-default:"postgres"`
	Name            string        `env:"DB_NAME" env-default:"family_hub"`
	SSLMode         string        `env:"DB_SSLMODE" env-default:"disable"`
	TimeZone        string        `env:"DB_TIMEZONE" env-default:"UTC"`
	SQLitePath      string        `env:"DB_SQLITE_PATH" env-default:"family-hub.db"`
	AutoMigrate     bool          `env:"DB_AUTO_MIGRATE" env-default:"false"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" env-default:"10"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"30m"`
}

type AuthConfig struct {
	Secret     string        `env:"AUTH_SECRET"`
	TokenTTL   time.Duration `env:"AUTH_TOKEN_TTL" env-default:"30m"`
	Issuer     string        `env:"AUTH_ISSUER" env-default:"family-hub"`
	BcryptCost int           `env:"AUTH_BCRYPT_COST" env-default:"10"`
}

func Load(log logger.Logger) (Config, error) {
	if err := loadDotEnv(log); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.normalize(log); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) normalize(log logger.Logger) error {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.DB.Driver = strings.ToLower(strings.TrimSpace(c.DB.Driver))

	origins := make([]string, 0, len(c.AllowedOrigins))
	for _, origin := range c.AllowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	c.AllowedOrigins = origins

	c.Auth.Secret = strings.TrimSpace(c.Auth.Secret)
	if c.Auth.Secret == "" {
		if !c.IsDevelopment() {
			return ErrAuthSecretRequired
		}
		log.Warn("config: AUTH_SECRET not set, using development secret")
		c.Auth.Secret = developmentAuthSecret
	}

	return nil
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
