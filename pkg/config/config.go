package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "VITRINE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "VITRINE_APP_ENV"
	EnvAppPort  = "VITRINE_APP_PORT"
	EnvRedisURL = "VITRINE_REDIS_URL"

	EnvDBDSN  = "VITRINE_DB_DSN"
	EnvDBHost = "VITRINE_DB_HOST"
	EnvDBUser = "VITRINE_DB_USER"
	EnvDBName = "VITRINE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Cart         CartConfig
	Catalog      CatalogConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VITRINE_APP_ENV" required:"true"`
	Port         string `envconfig:"VITRINE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"VITRINE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VITRINE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"VITRINE_DB_DSN"`
	Driver string `envconfig:"VITRINE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VITRINE_DB_HOST"`
	LegacyPort     int    `envconfig:"VITRINE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VITRINE_DB_USER"`
	LegacyPassword string `envconfig:"VITRINE_DB_PASSWORD"`
	LegacyName     string `envconfig:"VITRINE_DB_NAME"`
	LegacySSLMode  string `envconfig:"VITRINE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VITRINE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VITRINE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VITRINE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VITRINE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VITRINE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VITRINE_REDIS_ADDR"`
	Password     string        `envconfig:"VITRINE_REDIS_PASSWORD"`
	DB           int           `envconfig:"VITRINE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VITRINE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VITRINE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VITRINE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VITRINE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VITRINE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CartConfig struct {
	CommitIdempotencyTTL time.Duration `envconfig:"VITRINE_CART_COMMIT_IDEMPOTENCY_TTL" default:"168h"`
	WriteIdempotencyTTL  time.Duration `envconfig:"VITRINE_CART_WRITE_IDEMPOTENCY_TTL" default:"24h"`
}

type CatalogConfig struct {
	MaxTiersPerProduct  int `envconfig:"VITRINE_CATALOG_MAX_TIERS_PER_PRODUCT" default:"10"`
	MaxImagesPerProduct int `envconfig:"VITRINE_CATALOG_MAX_IMAGES_PER_PRODUCT" default:"12"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"VITRINE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
