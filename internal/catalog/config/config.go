// Package config loads the catalog service configuration from YAML with
// environment variable overrides of the same keys.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gartstein/catalog/internal/catalog/db"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the service looks for its configuration file.
const DefaultPath = "internal/catalog/config/config.yaml"

// Config struct for YAML configuration
type Config struct {
	GRPCPort         int           `yaml:"GRPC_PORT"`
	HTTPPort         int           `yaml:"HTTP_PORT"`
	DBDriver         string        `yaml:"DB_DRIVER"`
	DBHost           string        `yaml:"DB_HOST"`
	DBPort           int           `yaml:"DB_PORT"`
	DBUser           string        `yaml:"DB_USER"`
	DBPassword       string        `yaml:"DB_PASSWORD"`
	DBName           string        `yaml:"DB_NAME"`
	DBSSLMode        string        `yaml:"DB_SSLMODE"`
	DBPath           string        `yaml:"DB_PATH"`
	DBConnectTimeout time.Duration `yaml:"DB_CONNECT_TIMEOUT"`
	DBSlowQuery      time.Duration `yaml:"DB_SLOW_QUERY"`
	KafkaBrokers     []string      `yaml:"KAFKA_BROKERS"`
	KafkaGroupID     string        `yaml:"KAFKA_GROUP_ID"`
	Topic            string        `yaml:"TOPIC"`
	JWTSecret        string        `yaml:"JWT_SECRET"`
	CORSOrigins      []string      `yaml:"CORS_ALLOWED_ORIGINS"`
	CORSPreview      string        `yaml:"CORS_PREVIEW_PATTERN"`
	LogLevel         string        `yaml:"LOG_LEVEL"`
	LogDevelopment   bool          `yaml:"LOG_DEVELOPMENT"`
	SeedCompanies    []string      `yaml:"SEED_COMPANIES"`
}

// Default returns the configuration used for keys absent from the file.
func Default() *Config {
	return &Config{
		GRPCPort:         9090,
		HTTPPort:         3000,
		DBDriver:         db.DriverPostgres,
		DBHost:           "localhost",
		DBPort:           5432,
		DBSSLMode:        "disable",
		DBConnectTimeout: 30 * time.Second,
		DBSlowQuery:      200 * time.Millisecond,
		KafkaGroupID:     "catalog-events",
		Topic:            "catalog.products",
		CORSOrigins: []string{
			"http://localhost:5173",
			"http://127.0.0.1:5173",
			"https://vende-challenge.vercel.app",
		},
		CORSPreview:   `^https://[a-z0-9-]+--vende-challenge\.vercel\.app$`,
		LogLevel:      "info",
		SeedCompanies: []string{"Vende S.A.", "Acme Corp"},
	}
}

// Load reads the YAML file at path on top of Default, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides lets every YAML key be overridden by an environment
// variable of the same name. List values are comma separated.
func (c *Config) applyEnvOverrides() error {
	ints := map[string]*int{
		"GRPC_PORT": &c.GRPCPort,
		"HTTP_PORT": &c.HTTPPort,
		"DB_PORT":   &c.DBPort,
	}
	for key, dst := range ints {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = n
		}
	}

	durations := map[string]*time.Duration{
		"DB_CONNECT_TIMEOUT": &c.DBConnectTimeout,
		"DB_SLOW_QUERY":      &c.DBSlowQuery,
	}
	for key, dst := range durations {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = d
		}
	}

	strs := map[string]*string{
		"DB_DRIVER":      &c.DBDriver,
		"DB_HOST":        &c.DBHost,
		"DB_USER":        &c.DBUser,
		"DB_NAME":        &c.DBName,
		"DB_SSLMODE":     &c.DBSSLMode,
		"DB_PATH":        &c.DBPath,
		"KAFKA_GROUP_ID": &c.KafkaGroupID,
		"TOPIC":          &c.Topic,
		"LOG_LEVEL":      &c.LogLevel,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	// optional keys: a variable set to "" switches the feature off
	optional := map[string]*string{
		"DB_PASSWORD":          &c.DBPassword,
		"JWT_SECRET":           &c.JWTSecret,
		"CORS_PREVIEW_PATTERN": &c.CORSPreview,
	}
	for key, dst := range optional {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	lists := map[string]*[]string{
		"KAFKA_BROKERS":        &c.KafkaBrokers,
		"CORS_ALLOWED_ORIGINS": &c.CORSOrigins,
		"SEED_COMPANIES":       &c.SeedCompanies,
	}
	for key, dst := range lists {
		if v, ok := os.LookupEnv(key); ok {
			*dst = splitList(v)
		}
	}

	if v := os.Getenv("LOG_DEVELOPMENT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid LOG_DEVELOPMENT: %w", err)
		}
		c.LogDevelopment = b
	}

	// platforms such as Render only provide PORT
	if v := os.Getenv("PORT"); v != "" && os.Getenv("HTTP_PORT") == "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %w", err)
		}
		c.HTTPPort = n
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT out of range: %d", c.HTTPPort)
	}
	if c.GRPCPort <= 0 || c.GRPCPort > 65535 {
		return fmt.Errorf("GRPC_PORT out of range: %d", c.GRPCPort)
	}
	if c.GRPCPort == c.HTTPPort {
		return fmt.Errorf("GRPC_PORT and HTTP_PORT must differ")
	}
	switch c.DBDriver {
	case db.DriverPostgres:
		if c.DBHost == "" || c.DBName == "" {
			return fmt.Errorf("DB_HOST and DB_NAME are required for postgres")
		}
	case db.DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if len(c.KafkaBrokers) > 0 && c.Topic == "" {
		return fmt.Errorf("TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}

// Database returns the repository configuration.
func (c *Config) Database() *db.Config {
	return &db.Config{
		Driver:         c.DBDriver,
		Host:           c.DBHost,
		Port:           c.DBPort,
		User:           c.DBUser,
		Password:       c.DBPassword,
		DBName:         c.DBName,
		SSLMode:        c.DBSSLMode,
		Path:           c.DBPath,
		ConnectTimeout: c.DBConnectTimeout,
		SlowQuery:      c.DBSlowQuery,
	}
}

// EventsEnabled reports whether Kafka brokers are configured.
func (c *Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}
