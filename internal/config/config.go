package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// DB stores PostgreSQL connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN builds a postgres connection string from the DB settings.
func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		d.User, d.Pass, d.Host, d.Port, d.Name)
}

// Kafka stores broker addresses and topic/group settings.
type Kafka struct {
	Brokers            []string
	AnnouncementsTopic string
	NotificationsTopic string
	GroupID            string
}

// Matching stores candidate search settings. Weights are relative shares of
// the final score and should sum to 1.
type Matching struct {
	MaxDistanceKm  float64
	DistanceWeight float64
	PriceWeight    float64
	// PriceCeilingCents caps price normalisation so a single expensive
	// request cannot dominate the ranking.
	PriceCeilingCents int64
}

// Cancellation stores the fee schedule. Percentages are configurable rather
// than hard business truth.
type Cancellation struct {
	LateThreshold    time.Duration
	EarlyFeePct      int
	LateFeePct       int
	InProgressFeePct int
}

// Worker stores background worker settings.
type Worker struct {
	ExpireInterval time.Duration
}

// RateLimit stores HTTP rate limiting settings.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
}

// Pprof stores the optional debug listener settings.
type Pprof struct {
	Enabled bool
	Addr    string
	User    string
	Pass    string
}

// Config stores all service settings.
type Config struct {
	Port         int
	DB           DB
	Kafka        Kafka
	Matching     Matching
	Cancellation Cancellation
	Worker       Worker
	RateLimit    RateLimit
	Pprof        Pprof
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:         defaultPort,
		DB:           DefaultDB(),
		Kafka:        DefaultKafka(),
		Matching:     DefaultMatching(),
		Cancellation: DefaultCancellation(),
		Worker:       DefaultWorker(),
		RateLimit:    DefaultRateLimit(),
		Pprof:        DefaultPprof(),
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	pflag.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	if err := pflag.CommandLine.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %q", v)
		}
		cfg.Port = p
	}

	setStr(&cfg.DB.Host, "POSTGRES_HOST")
	setStr(&cfg.DB.User, "POSTGRES_USER")
	setStr(&cfg.DB.Pass, "POSTGRES_PASSWORD")
	setStr(&cfg.DB.Name, "POSTGRES_DB")
	if v := os.Getenv("POSTGRES_PORT"); v != "" {
		if _, err := strconv.Atoi(v); err != nil {
			return fmt.Errorf("invalid POSTGRES_PORT: %q", v)
		}
		cfg.DB.Port = v
	}

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitCSV(v)
	}
	setStr(&cfg.Kafka.AnnouncementsTopic, "KAFKA_ANNOUNCEMENTS_TOPIC")
	setStr(&cfg.Kafka.NotificationsTopic, "KAFKA_NOTIFICATIONS_TOPIC")
	setStr(&cfg.Kafka.GroupID, "KAFKA_GROUP_ID")

	if err := setFloat(&cfg.Matching.MaxDistanceKm, "MATCHING_MAX_DISTANCE_KM"); err != nil {
		return err
	}
	if err := setFloat(&cfg.Matching.DistanceWeight, "MATCHING_DISTANCE_WEIGHT"); err != nil {
		return err
	}
	if err := setFloat(&cfg.Matching.PriceWeight, "MATCHING_PRICE_WEIGHT"); err != nil {
		return err
	}

	if err := setDuration(&cfg.Cancellation.LateThreshold, "CANCELLATION_LATE_THRESHOLD"); err != nil {
		return err
	}
	if err := setInt(&cfg.Cancellation.LateFeePct, "CANCELLATION_LATE_FEE_PCT"); err != nil {
		return err
	}
	if err := setInt(&cfg.Cancellation.InProgressFeePct, "CANCELLATION_IN_PROGRESS_FEE_PCT"); err != nil {
		return err
	}

	if err := setDuration(&cfg.Worker.ExpireInterval, "WORKER_EXPIRE_INTERVAL"); err != nil {
		return err
	}

	if v := os.Getenv("RATE_LIMIT_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_ENABLED: %q", v)
		}
		cfg.RateLimit.Enabled = b
	}
	if err := setFloat(&cfg.RateLimit.Rate, "RATE_LIMIT_RATE"); err != nil {
		return err
	}
	if err := setInt(&cfg.RateLimit.Burst, "RATE_LIMIT_BURST"); err != nil {
		return err
	}

	if v := os.Getenv("PPROF_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid PPROF_ENABLED: %q", v)
		}
		cfg.Pprof.Enabled = b
	}
	setStr(&cfg.Pprof.Addr, "PPROF_ADDR")
	setStr(&cfg.Pprof.User, "PPROF_USER")
	setStr(&cfg.Pprof.Pass, "PPROF_PASS")
	return nil
}

func validate(cfg *Config) error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.Matching.MaxDistanceKm <= 0 {
		return fmt.Errorf("invalid matching max distance: %f", cfg.Matching.MaxDistanceKm)
	}
	if cfg.Cancellation.LateFeePct < 0 || cfg.Cancellation.LateFeePct > 100 ||
		cfg.Cancellation.InProgressFeePct < 0 || cfg.Cancellation.InProgressFeePct > 100 {
		return fmt.Errorf("invalid cancellation fee percentages: %d/%d",
			cfg.Cancellation.LateFeePct, cfg.Cancellation.InProgressFeePct)
	}
	if cfg.Worker.ExpireInterval <= 0 {
		return fmt.Errorf("invalid worker expire interval: %s", cfg.Worker.ExpireInterval)
	}
	return nil
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, v)
	}
	*dst = n
	return nil
}

func setFloat(dst *float64, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, v)
	}
	*dst = f
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, v)
	}
	*dst = d
	return nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
