package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

type Config struct {
	Env      string         `mapstructure:"env" validate:"required"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Log      LogConfig      `mapstructure:"log"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Cache    CacheConfig    `mapstructure:"cache"`
}

type HTTPConfig struct {
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=mongo postgres"`
}

type MongoConfig struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database" validate:"required"`
	Collection string `mapstructure:"collection" validate:"required"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

type CacheConfig struct {
	RedisURL string `mapstructure:"redis_url"`
	// TTL bounds how long a cached result is served. Sightings ingested
	// during that window do not appear until the entry expires.
	TTL time.Duration `mapstructure:"ttl"`
}

// Enabled reports whether query results should be cached.
func (c CacheConfig) Enabled() bool {
	return c.RedisURL != "" && c.TTL > 0
}

// Addr is the listen address for the HTTP server.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("http.port", 3000)
	v.SetDefault("http.cors_origins", []string{"*"})
	v.SetDefault("http.shutdown_timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("storage.driver", DriverMongo)
	v.SetDefault("mongo.uri", "")
	v.SetDefault("mongo.database", "license_plate_database")
	v.SetDefault("mongo.collection", "license_plate_collection")
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", 30*time.Second)
}

// Load reads configuration from defaults, an optional config file, a .env
// file and TRACKIFY_* environment variables, in increasing precedence.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("TRACKIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configPath, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
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

// Validate checks field constraints and that the selected storage driver
// has a connection string.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	switch c.Storage.Driver {
	case DriverMongo:
		if c.Mongo.URI == "" {
			return errors.New("invalid config: mongo.uri is required for the mongo driver")
		}
	case DriverPostgres:
		if c.Postgres.DSN == "" {
			return errors.New("invalid config: postgres.dsn is required for the postgres driver")
		}
	}
	return nil
}
