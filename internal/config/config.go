package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Session  SessionConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Kafka    KafkaConfig
	Features FeatureFlags
	Pricing  PricingConfig
	ETA      ETAConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// SessionConfig selects the session store backend and how clients present their handle.
type SessionConfig struct {
	Store      string
	TTL        time.Duration
	CookieName string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

func (d DatabaseConfig) ConnectionString() string {
	return "host=" + d.Host +
		" port=" + strconv.Itoa(d.Port) +
		" user=" + d.User +
		" password=" + d.Password +
		" dbname=" + d.Name +
		" sslmode=" + d.SSLMode
}

type KafkaConfig struct {
	Brokers       []string
	OrdersTopic   string
	ConsumerGroup string
}

type FeatureFlags struct {
	EnableOrderEvents  bool
	EnableOrderArchive bool
}

type PricingConfig struct {
	TaxRate float64
}

// ETAConfig holds the constants of the preparation estimate: base minus elapsed, never below floor.
type ETAConfig struct {
	BaseMinutes  int
	FloorMinutes int
}

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnvInt("SERVER_PORT", 8000),
			ReadTimeout:  time.Duration(getEnvInt("SERVER_READ_TIMEOUT", 30)) * time.Second,
			WriteTimeout: time.Duration(getEnvInt("SERVER_WRITE_TIMEOUT", 30)) * time.Second,
		},
		Session: SessionConfig{
			Store:      strings.ToLower(getEnvString("SESSION_STORE", SessionStoreMemory)),
			TTL:        time.Duration(getEnvInt("SESSION_TTL", 86400)) * time.Second,
			CookieName: getEnvString("SESSION_COOKIE", "orderbot_session"),
		},
		Redis: RedisConfig{
			Host:     getEnvString("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnvString("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Database: DatabaseConfig{
			Host:         getEnvString("DB_HOST", "localhost"),
			Port:         getEnvInt("DB_PORT", 5432),
			User:         getEnvString("DB_USER", "acme"),
			Password:     getEnvString("DB_PASSWORD", "acme"),
			Name:         getEnvString("DB_NAME", "acme_orderbot"),
			SSLMode:      getEnvString("DB_SSLMODE", "disable"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  time.Duration(getEnvInt("DB_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:       getEnvList("KAFKA_BROKERS", []string{"localhost:9092"}),
			OrdersTopic:   getEnvString("KAFKA_ORDERS_TOPIC", "orderbot.orders"),
			ConsumerGroup: getEnvString("KAFKA_CONSUMER_GROUP", "orderbot-archiver"),
		},
		Features: FeatureFlags{
			EnableOrderEvents:  getEnvBool("FEATURE_ORDER_EVENTS", false),
			EnableOrderArchive: getEnvBool("FEATURE_ORDER_ARCHIVE", false),
		},
		Pricing: PricingConfig{
			TaxRate: getEnvFloat("TAX_RATE", 0.08875),
		},
		ETA: ETAConfig{
			BaseMinutes:  getEnvInt("ETA_BASE_MINUTES", 25),
			FloorMinutes: getEnvInt("ETA_FLOOR_MINUTES", 5),
		},
	}
}

// Warnings reports flag combinations that start but cannot work as intended.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.Features.EnableOrderArchive && !c.Features.EnableOrderEvents {
		warnings = append(warnings, "FEATURE_ORDER_ARCHIVE is on but FEATURE_ORDER_EVENTS is off: "+
			"this instance publishes no order.placed events, so the archive only fills if another instance does")
	}
	return warnings
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
