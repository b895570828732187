package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"

	PublisherNoop   = "noop"
	PublisherKafka  = "kafka"
	PublisherOutbox = "outbox"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Identity IdentityConfig `mapstructure:"identity"`
	Setup    SetupConfig    `mapstructure:"setup"`
	Leave    LeaveConfig    `mapstructure:"leave"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// RateLimit is requests per second per client IP; zero disables limiting.
	RateLimit float64 `mapstructure:"rate_limit" validate:"gte=0"`
	RateBurst int     `mapstructure:"rate_burst" validate:"gte=0"`
}

func (c ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

type StorageConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=memory postgres redis"`
	// Seed loads the sample organisation at start-up.
	Seed bool `mapstructure:"seed"`
}

type DatabaseConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port" validate:"gte=1,lte=65535"`
	Name       string `mapstructure:"name"`
	User       string `mapstructure:"user"`
	Password   string `mapstructure:"password"`
	SSLMode    string `mapstructure:"sslmode"`
	MaxRetries int    `mapstructure:"max_retries" validate:"gte=1"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

type RedisConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Addr       string        `mapstructure:"addr"`
	Password   string        `mapstructure:"password"`
	DB         int           `mapstructure:"db"`
	Prefix     string        `mapstructure:"prefix"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl"`
	MaxRetries int           `mapstructure:"max_retries" validate:"gte=1"`
	// NotificationCap bounds the per-user notification list.
	NotificationCap int64 `mapstructure:"notification_cap" validate:"gte=1"`
}

type KafkaConfig struct {
	Broker       string        `mapstructure:"broker"`
	Publisher    string        `mapstructure:"publisher" validate:"oneof=noop kafka outbox"`
	GroupID      string        `mapstructure:"group_id"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	MaxRetries   int           `mapstructure:"max_retries" validate:"gte=1"`
}

type IdentityConfig struct {
	// HeaderAuth trusts the User-Id header. Kept for the browser client.
	HeaderAuth bool       `mapstructure:"header_auth"`
	JWTSecret  string     `mapstructure:"jwt_secret"`
	JWTIssuer  string     `mapstructure:"jwt_issuer"`
	RoleRules  []RoleRule `mapstructure:"role_rules" validate:"dive"`
}

// RoleRule grants Role to identities whose Claim carries Value.
type RoleRule struct {
	Claim string `mapstructure:"claim" validate:"required"`
	Value string `mapstructure:"value" validate:"required"`
	Role  string `mapstructure:"role" validate:"oneof=employee hr"`
}

type SetupConfig struct {
	// TokenHash is a bcrypt hash of the X-Setup-Token value. Empty leaves
	// the setup route open.
	TokenHash string `mapstructure:"token_hash"`
}

type LeaveConfig struct {
	AllowRedecide bool `mapstructure:"allow_redecide"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

var validate = validator.New()

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "5s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.rate_limit", 20)
	v.SetDefault("server.rate_burst", 40)

	v.SetDefault("storage.driver", DriverMemory)
	v.SetDefault("storage.seed", true)

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "leave")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_retries", 5)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "leave")
	v.SetDefault("redis.cache_ttl", "30s")
	v.SetDefault("redis.max_retries", 5)
	v.SetDefault("redis.notification_cap", 50)

	v.SetDefault("kafka.broker", "localhost:9092")
	v.SetDefault("kafka.publisher", PublisherNoop)
	v.SetDefault("kafka.group_id", "go-leave-notifications")
	v.SetDefault("kafka.poll_interval", "3s")
	v.SetDefault("kafka.max_retries", 5)

	v.SetDefault("identity.header_auth", true)
	v.SetDefault("identity.jwt_secret", "")
	v.SetDefault("identity.jwt_issuer", "")
	v.SetDefault("identity.role_rules", []map[string]string{
		{"claim": "groups", "value": "hr", "role": "hr"},
		{"claim": "department", "value": "Human Resources", "role": "hr"},
	})

	v.SetDefault("setup.token_hash", "")
	v.SetDefault("leave.allow_redecide", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load reads defaults, then an optional config file, then LEAVE_* environment
// variables (LEAVE_STORAGE_DRIVER overrides storage.driver).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("LEAVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field ranges and the cross-field requirements of the
// selected drivers.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Storage.Driver == DriverRedis && !c.Redis.Enabled {
		return errors.New("invalid configuration: storage.driver=redis requires redis.enabled")
	}
	if c.Kafka.Publisher == PublisherOutbox && c.Storage.Driver != DriverPostgres {
		return errors.New("invalid configuration: kafka.publisher=outbox requires storage.driver=postgres")
	}
	if !c.Identity.HeaderAuth && c.Identity.JWTSecret == "" {
		return errors.New("invalid configuration: identity needs header_auth or jwt_secret")
	}
	if c.Identity.JWTSecret != "" && len(c.Identity.JWTSecret) < 16 {
		return errors.New("invalid configuration: identity.jwt_secret must be at least 16 characters")
	}
	return nil
}
