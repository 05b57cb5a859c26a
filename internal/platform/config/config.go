// Package config loads process configuration from a YAML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator"
	"github.com/ilyakaznacheev/cleanenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Config is the root configuration.
type Config struct {
	Env      string         `yaml:"env" env:"ANONMSG_ENV" env-default:"local" validate:"required,oneof=local dev prod"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	Links    LinksConfig    `yaml:"links"`
	Audit    AuditConfig    `yaml:"audit"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// PostgresConfig selects the store backend. An empty DSN keeps every store
// in memory.
type PostgresConfig struct {
	DSN             string        `yaml:"dsn" env:"DATABASE_URL"`
	MaxOpenConns    int           `yaml:"max_open_conns" env-default:"10" validate:"gt=0"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env-default:"5" validate:"gte=0"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env-default:"30m"`
}

// RedisConfig configures the session revocation list and login lockout. An
// empty URL keeps both in memory.
type RedisConfig struct {
	URL          string        `yaml:"url" env:"REDIS_URL"`
	PoolSize     int           `yaml:"pool_size" env-default:"10"`
	MinIdleConns int           `yaml:"min_idle_conns" env-default:"2"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env-default:"3s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"3s"`
}

type AuthConfig struct {
	JWTSecret        string        `yaml:"jwt_secret" env:"JWT_SECRET" validate:"required,min=16"`
	TokenTTL         time.Duration `yaml:"token_ttl" env-default:"24h"`
	Issuer           string        `yaml:"issuer" env-default:"anonmsg"`
	BcryptCost       int           `yaml:"bcrypt_cost" env-default:"10" validate:"gte=4,lte=31"`
	LockoutThreshold int           `yaml:"lockout_threshold" env-default:"5" validate:"gt=0"`
	LockoutWindow    time.Duration `yaml:"lockout_window" env-default:"15m"`
	LockoutDuration  time.Duration `yaml:"lockout_duration" env-default:"15m"`
}

type LinksConfig struct {
	BaseURL string `yaml:"base_url" env:"LINK_BASE_URL" env-default:"https://app.anonymous-message.com" validate:"required,url"`
}

// AuditConfig picks where audit events go. "outbox" requires Postgres.
type AuditConfig struct {
	Store      string `yaml:"store" env-default:"memory" validate:"oneof=memory outbox"`
	BufferSize int    `yaml:"buffer_size" env-default:"0" validate:"gte=0"`
}

type KafkaConfig struct {
	Brokers           []string      `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	TopicPrefix       string        `yaml:"topic_prefix" env-default:"anonmsg.audit"`
	Partitions        int32         `yaml:"partitions" env-default:"3"`
	ReplicationFactor int16         `yaml:"replication_factor" env-default:"1"`
	RelayInterval     time.Duration `yaml:"relay_interval" env-default:"2s"`
	RelayBatchSize    int           `yaml:"relay_batch_size" env-default:"100" validate:"gt=0"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr" env:"METRICS_ADDR" env-default:":9090"`
}

// Load reads path (when non-empty) and then the environment, and validates
// the result.
func Load(path string) (*Config, error) {
	var cfg Config
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad reads the file named by CONFIG_PATH and exits on failure.
func MustLoad() *Config {
	path := os.Getenv("CONFIG_PATH")
	if path != "" {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			log.Fatalf("config file %s does not exist", path)
		}
	}
	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("cannot load config: %s", err)
	}
	return cfg
}

// Validate checks struct tags and cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Audit.Store == "outbox" && c.Postgres.DSN == "" {
		return errors.New("invalid config: audit outbox requires postgres.dsn")
	}
	return nil
}

// UsesPostgres reports whether stores should be backed by Postgres.
func (c *Config) UsesPostgres() bool { return c.Postgres.DSN != "" }

// UsesRedis reports whether session state should be backed by Redis.
func (c *Config) UsesRedis() bool { return c.Redis.URL != "" }
