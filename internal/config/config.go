package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	SessionStoreMemory = "memory"
	SessionStoreDB     = "db"
)

type Config struct {
	ServiceName string `yaml:"service_name"`
	ListenAddr  string `yaml:"listen_addr"`
	LogLevel    string `yaml:"log_level"`

	DBDriver    string `yaml:"db_driver"`
	DatabaseURL string `yaml:"database_url"`

	SessionSecret string        `yaml:"session_secret"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	SessionStore  string        `yaml:"session_store"`
	CookieName    string        `yaml:"cookie_name"`
	CookieSecure  bool          `yaml:"cookie_secure"`
	CSRF          bool          `yaml:"csrf"`

	KafkaBrokers []string `yaml:"kafka_brokers"`

	ESURL      string `yaml:"es_url"`
	ESUser     string `yaml:"es_user"`
	ESPassword string `yaml:"es_password"`
	ESIndex    string `yaml:"es_index"`
}

func Default() Config {
	return Config{
		ServiceName:  "shop",
		ListenAddr:   ":8080",
		LogLevel:     "info",
		DBDriver:     DriverSQLite,
		DatabaseURL:  "ecommerce.db",
		SessionTTL:   24 * time.Hour,
		SessionStore: SessionStoreMemory,
		CookieName:   "session",
		ESIndex:      "products",
	}
}

// Load builds the configuration from defaults, then the optional YAML file at
// path, then .env and the process environment. Later sources win.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(".env"); err != nil {
		slog.Debug("no .env file, using process environment", "error", err)
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.ServiceName = EnvDefault("SERVICE_NAME", cfg.ServiceName)
	cfg.ListenAddr = EnvDefault("SERVER_ADDR", cfg.ListenAddr)
	if port := EnvIntDefault("SERVER_PORT", 0); port > 0 && port <= 65535 {
		cfg.ListenAddr = ":" + strconv.Itoa(port)
	}
	cfg.LogLevel = EnvDefault("LOG_LEVEL", cfg.LogLevel)

	cfg.DBDriver = EnvDefault("DB_DRIVER", cfg.DBDriver)
	cfg.DatabaseURL = EnvDefault("DATABASE_URL", cfg.DatabaseURL)

	cfg.SessionSecret = EnvDefault("SESSION_SECRET", cfg.SessionSecret)
	cfg.SessionTTL = EnvDurationDefault("SESSION_TTL", cfg.SessionTTL)
	cfg.SessionStore = EnvDefault("SESSION_STORE", cfg.SessionStore)
	cfg.CookieName = EnvDefault("COOKIE_NAME", cfg.CookieName)
	cfg.CookieSecure = EnvBoolDefault("COOKIE_SECURE", cfg.CookieSecure)
	cfg.CSRF = EnvBoolDefault("CSRF_ENABLED", cfg.CSRF)

	if brokers := CSV(os.Getenv("KAFKA_BROKERS")); len(brokers) > 0 {
		cfg.KafkaBrokers = brokers
	}

	cfg.ESURL = EnvDefault("ES_URL", cfg.ESURL)
	cfg.ESUser = EnvDefault("ES_USER", cfg.ESUser)
	cfg.ESPassword = EnvDefault("ES_PASSWORD", cfg.ESPassword)
	cfg.ESIndex = EnvDefault("ES_INDEX", cfg.ESIndex)
}

func (c *Config) Validate() error {
	c.DBDriver = strings.ToLower(c.DBDriver)
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is empty")
	}

	c.SessionStore = strings.ToLower(c.SessionStore)
	switch c.SessionStore {
	case SessionStoreMemory, SessionStoreDB:
	default:
		return fmt.Errorf("unsupported SESSION_STORE %q", c.SessionStore)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.CookieName == "" {
		return fmt.Errorf("COOKIE_NAME is empty")
	}
	return nil
}

func (c *Config) SearchEnabled() bool { return c.ESURL != "" }

func (c *Config) EventsEnabled() bool { return len(c.KafkaBrokers) > 0 }
