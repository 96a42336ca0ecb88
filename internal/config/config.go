package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

type Config struct {
	HTTPAddr      string
	StoreDriver   string
	MongoURL      string
	DatabaseName  string
	PostgresDSN   string
	RunMigrations bool
	RedisAddr     string // empty disables the product cache
	KafkaBrokers  []string
	ServiceName   string
	RateRPS       float64 // 0 disables rate limiting
	RateBurst     int
}

func Load() Config {
	return Config{
		HTTPAddr:      envOr("HTTP_ADDR", ":8080"),
		StoreDriver:   strings.ToLower(envOr("STORE_DRIVER", DriverMongo)),
		MongoURL:      os.Getenv("MONGODB_URL"),
		DatabaseName:  os.Getenv("DATABASE_NAME"),
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),
		RunMigrations: getbool("RUN_MIGRATIONS", true),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		KafkaBrokers:  brokerList(os.Getenv("KAFKA_BROKERS")),
		ServiceName:   envOr("SERVICE_NAME", "shop-api"),
		RateRPS:       getfloat("RATE_RPS", 0),
		RateBurst:     getint("RATE_BURST", 20),
	}
}

// Validate reports settings the process cannot start without.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURL == "" || c.DatabaseName == "" {
			return errors.New("MONGODB_URL and DATABASE_NAME are required")
		}
	case DriverPostgres:
		if c.PostgresDSN == "" {
			return errors.New("POSTGRES_DSN is required")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.RateRPS < 0 {
		return errors.New("RATE_RPS must not be negative")
	}
	return nil
}

// envOr returns the trimmed value of key, or fallback when it is unset or blank.
func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getint(k string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(k), 64); err == nil {
		return v
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(k)); err == nil {
		return v
	}
	return def
}

// brokerList splits a comma separated host:port list, dropping empty entries.
func brokerList(s string) []string {
	var out []string
	for _, addr := range strings.Split(s, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
