package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"

	StorageLocal = "local"
	StorageNATS  = "nats"
)

// devJWTSecret is only accepted outside release mode.
const devJWTSecret = "default_super_secret_key"

type Config struct {
	Port    string `mapstructure:"port"`
	GinMode string `mapstructure:"gin_mode"`

	DBDriver   string `mapstructure:"db_driver"`
	DBHost     string `mapstructure:"db_host"`
	DBPort     string `mapstructure:"db_port"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name"`
	DBSSLMode  string `mapstructure:"db_sslmode"`
	SQLitePath string `mapstructure:"sqlite_path"`

	MongoURI      string `mapstructure:"mongo_uri"`
	MongoDatabase string `mapstructure:"mongo_database"`

	RedisURL string `mapstructure:"redis_url"`

	NATSURL       string `mapstructure:"nats_url"`
	StorageDriver string `mapstructure:"storage_driver"`
	StorageDir    string `mapstructure:"storage_dir"`
	StorageBucket string `mapstructure:"storage_bucket"`
	PublicBaseURL string `mapstructure:"public_base_url"`

	JWTSecret  string        `mapstructure:"jwt_secret"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
	// AdminLoginURL is the admin UI login page that unauthenticated browser
	// navigations are redirected to. An empty value in a config file
	// disables the redirect.
	AdminLoginURL string `mapstructure:"admin_login_url"`

	Timezone        string        `mapstructure:"timezone"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	StatusRateLimit int           `mapstructure:"status_rate_limit"`
	RateLimitWindow time.Duration `mapstructure:"rate_limit_window"`
	LogLevel        string        `mapstructure:"log_level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("gin_mode", "debug")

	v.SetDefault("db_driver", DriverPostgres)
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "postgres")
	v.SetDefault("db_name", "postgres")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("sqlite_path", "data/idportal.db")

	v.SetDefault("mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("mongo_database", "idportal")

	v.SetDefault("redis_url", "")

	v.SetDefault("nats_url", "")
	v.SetDefault("storage_driver", StorageLocal)
	v.SetDefault("storage_dir", "data/uploads")
	v.SetDefault("storage_bucket", "idportal-uploads")
	v.SetDefault("public_base_url", "http://localhost:8080")

	v.SetDefault("jwt_secret", "")
	v.SetDefault("session_ttl", 24*time.Hour)
	v.SetDefault("admin_login_url", "/admin/login")

	v.SetDefault("timezone", "Asia/Kolkata")
	v.SetDefault("cors_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("status_rate_limit", 10)
	v.SetDefault("rate_limit_window", time.Minute)
	v.SetDefault("log_level", "info")
}

// Load reads configs/.env (if present), an optional config file and the
// process environment, in increasing order of precedence.
func Load(path string) (Config, error) {
	if err := godotenv.Load("configs/.env"); err != nil {
		slog.Debug("no configs/.env file loaded", "error", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// AutomaticEnv only resolves keys viper already knows about.
	for _, key := range v.AllKeys() {
		_ = v.BindEnv(key, strings.ToUpper(key))
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.CORSOrigins = splitList(cfg.CORSOrigins)

	if cfg.JWTSecret == "" && cfg.GinMode != "release" {
		cfg.JWTSecret = devJWTSecret
	}
	return cfg, nil
}

// splitList accepts both list values and a single comma separated env value.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (c Config) Validate() error {
	var errs []error

	switch c.DBDriver {
	case DriverPostgres, DriverSQLite, DriverMongo:
	default:
		errs = append(errs, fmt.Errorf("unknown db_driver %q", c.DBDriver))
	}

	switch c.StorageDriver {
	case StorageLocal:
		if c.StorageDir == "" {
			errs = append(errs, errors.New("storage_dir is required for local storage"))
		}
	case StorageNATS:
		if c.NATSURL == "" {
			errs = append(errs, errors.New("nats_url is required for nats storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage_driver %q", c.StorageDriver))
	}

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt_secret is required in release mode"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("session_ttl must be positive"))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if c.StatusRateLimit < 0 {
		errs = append(errs, errors.New("status_rate_limit must not be negative"))
	}

	return errors.Join(errs...)
}

// Location returns the zone calendar dates are interpreted in.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c Config) PostgresDSN() string {
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName + "?sslmode=" + c.DBSSLMode
}

func (c Config) Release() bool {
	return c.GinMode == "release"
}

func (c Config) LogLevelValue() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
