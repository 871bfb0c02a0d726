package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Scoring   ScoringConfig   `mapstructure:"scoring"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	Debug       bool   `mapstructure:"debug"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	HTTPPort        int           `mapstructure:"http_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

type RedisConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
	TLS       bool   `mapstructure:"tls"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
	RequestsPerHour   int  `mapstructure:"requests_per_hour"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	TimeFormat string `mapstructure:"time_format"`
}

// ScoringConfig tunes the confidence model and the deduplication window.
type ScoringConfig struct {
	RuleWeight         int           `mapstructure:"rule_weight"`
	URLWeight          int           `mapstructure:"url_weight"`
	PhoneWeight        int           `mapstructure:"phone_weight"`
	MaxConfidence      int           `mapstructure:"max_confidence"`
	SimilarityWindow   int           `mapstructure:"similarity_window"`
	ReputationCacheTTL time.Duration `mapstructure:"reputation_cache_ttl"`
	RecentScamsLimit   int           `mapstructure:"recent_scams_limit"`
	RecentCacheTTL     time.Duration `mapstructure:"recent_cache_ttl"`
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/palavaproof")
	}

	setDefaults(v)

	// Environment variables
	v.SetEnvPrefix("PALAVA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind nested env vars explicitly (viper doesn't auto-bind nested struct fields)
	v.BindEnv("server.host", "PALAVA_SERVER_HOST")
	v.BindEnv("server.http_port", "PALAVA_SERVER_HTTP_PORT")
	v.BindEnv("redis.host", "PALAVA_REDIS_HOST")
	v.BindEnv("redis.port", "PALAVA_REDIS_PORT")
	v.BindEnv("redis.password", "PALAVA_REDIS_PASSWORD")
	v.BindEnv("redis.tls", "PALAVA_REDIS_TLS")
	v.BindEnv("database.host", "PALAVA_DATABASE_HOST")
	v.BindEnv("database.port", "PALAVA_DATABASE_PORT")
	v.BindEnv("database.user", "PALAVA_DATABASE_USER")
	v.BindEnv("database.password", "PALAVA_DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "PALAVA_DATABASE_DBNAME")
	v.BindEnv("database.sslmode", "PALAVA_DATABASE_SSLMODE")
	v.BindEnv("app.environment", "PALAVA_APP_ENVIRONMENT")
	v.BindEnv("logger.level", "PALAVA_LOGGER_LEVEL")

	// A missing config file is fine, defaults plus env vars carry a full
	// configuration. An unreadable or malformed file is still an error.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadDefault loads configuration with default path
func LoadDefault() (*Config, error) {
	return Load("")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "palavaproof-api")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.debug", false)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "palava")
	v.SetDefault("database.password", "palava")
	v.SetDefault("database.dbname", "palavaproof")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "palava:")
	v.SetDefault("redis.tls", false)

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Accept", "Content-Type", "X-Request-ID"})
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.requests_per_minute", 60)
	v.SetDefault("ratelimit.requests_per_hour", 1000)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.time_format", time.RFC3339)

	v.SetDefault("scoring.rule_weight", 20)
	v.SetDefault("scoring.url_weight", 30)
	v.SetDefault("scoring.phone_weight", 25)
	v.SetDefault("scoring.max_confidence", 100)
	v.SetDefault("scoring.similarity_window", 50)
	v.SetDefault("scoring.reputation_cache_ttl", 5*time.Minute)
	v.SetDefault("scoring.recent_scams_limit", 20)
	v.SetDefault("scoring.recent_cache_ttl", 30*time.Second)
}
