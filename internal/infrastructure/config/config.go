package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Store backends selectable through STORE_BACKEND.
const (
	BackendMongo     = "mongo"
	BackendPostgres  = "postgres"
	BackendFirestore = "firestore"
	BackendMemory    = "memory"
)

type Config struct {
	Port        string        `env:"PORT,         default=10000"`
	Env         string        `env:"ENV,          default=development"`
	LogLevel    string        `env:"LOG_LEVEL,    default=info"`
	JWTSecret   string        `env:"JWT_SECRET,   required"`
	TokenTTL    time.Duration `env:"TOKEN_TTL,    default=24h"`
	RequireAuth bool          `env:"REQUIRE_AUTH, default=false"`

	Storage StorageConfig
	Grant   GrantConfig
	Sweep   SweepConfig
	Login   LoginConfig

	AuditWorkers int `env:"AUDIT_WORKERS, default=4"`
}

// StorageConfig selects and configures the user store. It is loaded on its
// own by tools that only need database access.
type StorageConfig struct {
	Backend string `env:"STORE_BACKEND, default=mongo"`

	Mongo     MongoConfig
	Postgres  PostgresConfig
	Firestore FirestoreConfig
	Redis     RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=user_admin"`
}

type PostgresConfig struct {
	DSN string `env:"POSTGRES_DSN"`
}

type FirestoreConfig struct {
	ProjectID string `env:"FIREBASE_PROJECT_ID"`
	// Key is the service-account JSON document.
	Key string `env:"FIREBASE_KEY"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type GrantConfig struct {
	PermanentCode string        `env:"PERMANENT_ADMIN_CODE, required"`
	TemporaryCode string        `env:"TEMP_ADMIN_CODE,      required"`
	TemporaryTTL  time.Duration `env:"TEMP_ADMIN_TTL,       default=240h"`
}

type SweepConfig struct {
	Interval time.Duration `env:"SWEEP_INTERVAL, default=1h"`
	OnStart  bool          `env:"SWEEP_ON_START, default=false"`
}

type LoginConfig struct {
	MaxFailures int           `env:"LOGIN_MAX_FAILURES, default=5"`
	Lockout     time.Duration `env:"LOGIN_LOCKOUT,      default=15m"`
}

// Load reads configuration from environment variables using go-envconfig
// and validates it.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadStorage reads only the storage settings.
func LoadStorage(ctx context.Context) (*StorageConfig, error) {
	return loadStorage(ctx, envconfig.OsLookuper())
}

func loadStorage(ctx context.Context, lookuper envconfig.Lookuper) (*StorageConfig, error) {
	var cfg StorageConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("load storage config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that depend on the selected backend.
func (c *StorageConfig) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))

	switch c.Backend {
	case BackendMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			return errors.New("config: MONGO_URI and MONGO_DB are required for the mongo backend")
		}
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			return errors.New("config: POSTGRES_DSN is required for the postgres backend")
		}
	case BackendFirestore:
		if c.Firestore.Key == "" {
			return errors.New("config: FIREBASE_KEY is required for the firestore backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("config: unknown STORE_BACKEND %q", c.Backend)
	}
	return nil
}

// Validate checks cross-field constraints of the full configuration.
func (c *Config) Validate() error {
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if c.Grant.PermanentCode == c.Grant.TemporaryCode {
		return errors.New("config: PERMANENT_ADMIN_CODE and TEMP_ADMIN_CODE must differ")
	}
	if c.Grant.TemporaryTTL <= 0 {
		return errors.New("config: TEMP_ADMIN_TTL must be positive")
	}
	if c.Sweep.Interval <= 0 {
		return errors.New("config: SWEEP_INTERVAL must be positive")
	}
	return nil
}

// IsDevelopment reports whether ENV selects the development profile.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}
