package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	Flights   FlightsConfig   `yaml:"flights"`
}

type HTTPConfig struct {
	Address         string   `yaml:"address"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
	ShutdownTimeout int      `yaml:"shutdown_timeout_seconds"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
	Migrate  bool   `yaml:"migrate"`
}

// DSN returns the connection string for the configured driver. An explicit URL wins.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	if d.Driver == DriverMongo {
		return fmt.Sprintf("mongodb://%s:%d", d.Host, d.Port)
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s", d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type RateLimitConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Capacity       int           `yaml:"capacity"`
	RefillTokens   int           `yaml:"refill_tokens"`
	RefillInterval time.Duration `yaml:"refill_interval"`
	TTL            time.Duration `yaml:"ttl"`
	Prefix         string        `yaml:"prefix"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	FromName string `yaml:"from_name"`
}

type FlightsConfig struct {
	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
}

func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:         ":5000",
			ShutdownTimeout: 5,
		},
		Database: DatabaseConfig{
			Driver:  DriverPostgres,
			Host:    "localhost",
			Port:    5432,
			User:    "postgres",
			Name:    "flights",
			SSLMode: "disable",
			Migrate: true,
		},
		RateLimit: RateLimitConfig{
			Capacity:       30,
			RefillTokens:   1,
			RefillInterval: 2 * time.Second,
			TTL:            10 * time.Minute,
			Prefix:         "rl",
		},
		Kafka: KafkaConfig{
			BookingEventsTopic: "booking_events",
			NotificationsTopic: "booking_notifications",
			GroupID:            "booking-notifier",
		},
		SMTP: SMTPConfig{
			Port:     587,
			FromName: "Flight Booking",
		},
		Flights: FlightsConfig{
			DefaultLimit: 10,
			MaxLimit:     100,
		},
	}
}

// LoadConfig reads .env (if present), then the YAML file at path on top of the defaults,
// then applies environment overrides. A missing YAML file is not an error.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if port := os.Getenv("PORT"); port != "" {
		cfg.HTTP.Address = ":" + port
	}
	mongoURI := os.Getenv("MONGO_URI")
	if driver := os.Getenv("DATABASE_DRIVER"); driver != "" {
		cfg.Database.Driver = driver
	} else if mongoURI != "" {
		cfg.Database.Driver = DriverMongo
	}
	// each URL variable only applies to its own driver
	switch cfg.Database.Driver {
	case DriverMongo:
		if mongoURI != "" {
			cfg.Database.URL = mongoURI
		}
	default:
		if url := os.Getenv("DATABASE_URL"); url != "" {
			cfg.Database.URL = url
		}
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = strings.Split(brokers, ",")
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverMongo:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.Driver == DriverMongo && c.Database.Name == "" {
		return errors.New("database name is required for mongo")
	}
	if c.Flights.DefaultLimit <= 0 {
		return errors.New("flights.default_limit must be positive")
	}
	if c.Flights.MaxLimit < c.Flights.DefaultLimit {
		return errors.New("flights.max_limit must not be below flights.default_limit")
	}
	return nil
}

func (c HTTPConfig) ShutdownTimeoutDuration() time.Duration {
	if c.ShutdownTimeout <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.ShutdownTimeout) * time.Second
}
