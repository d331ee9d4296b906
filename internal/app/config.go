package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/marketledger-backend/internal/data/db"
	"github.com/yungbote/marketledger-backend/internal/platform/envutil"
	"github.com/yungbote/marketledger-backend/internal/platform/logger"
	"github.com/yungbote/marketledger-backend/internal/realtime/bus"
)

const defaultJWTSecret = "defaultsecret"

type DatabaseConfig struct {
	Driver     string `yaml:"driver"`
	Host       string `yaml:"host"`
	Port       string `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Name       string `yaml:"name"`
	SSLMode    string `yaml:"sslmode"`
	SQLitePath string `yaml:"sqlite_path"`
}

func (d DatabaseConfig) Postgres() db.PostgresConfig {
	return db.PostgresConfig{
		Host:     d.Host,
		Port:     d.Port,
		User:     d.User,
		Password: d.Password,
		Name:     d.Name,
		SSLMode:  d.SSLMode,
	}
}

type Config struct {
	Port    string `yaml:"port"`
	LogMode string `yaml:"log_mode"`

	Database DatabaseConfig  `yaml:"database"`
	Redis    bus.RedisConfig `yaml:"redis"`

	JWTSecretKey   string        `yaml:"jwt_secret_key"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl"`

	PlatformOwner  string   `yaml:"platform_owner"`
	AllowedOrigins []string `yaml:"cors_allowed_origins"`

	OtelServiceName string `yaml:"otel_service_name"`
}

func defaultConfig() Config {
	return Config{
		Port:    "8080",
		LogMode: "development",
		Database: DatabaseConfig{
			Driver: db.DriverPostgres,
			Host:   "localhost",
			Port:   "5432",
			User:   "postgres",
			Name:   "marketledger",
		},
		Redis:           bus.RedisConfig{Channel: "marketplace"},
		JWTSecretKey:    defaultJWTSecret,
		AccessTokenTTL:  time.Hour,
		OtelServiceName: "marketledger",
	}
}

// LoadConfig merges, in increasing precedence: defaults, the YAML file named
// by MARKETPLACE_CONFIG, and the process environment (with .env loaded first).
func LoadConfig(log *logger.Logger) (Config, error) {
	if log == nil {
		log = logger.Nop()
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("Failed to load .env", "error", err)
	}

	cfg := defaultConfig()
	if path := envutil.String("MARKETPLACE_CONFIG", ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		log.Info("Loaded config file", "path", path)
	}
	applyEnv(&cfg)

	if cfg.JWTSecretKey == defaultJWTSecret {
		log.Warn("JWT_SECRET_KEY not set; using the development default")
	}
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) {
	cfg.Port = envutil.String("PORT", cfg.Port)
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode)

	cfg.Database.Driver = envutil.String("DB_DRIVER", cfg.Database.Driver)
	cfg.Database.Host = envutil.String("POSTGRES_HOST", cfg.Database.Host)
	cfg.Database.Port = envutil.String("POSTGRES_PORT", cfg.Database.Port)
	cfg.Database.User = envutil.String("POSTGRES_USER", cfg.Database.User)
	cfg.Database.Password = envutil.String("POSTGRES_PASSWORD", cfg.Database.Password)
	cfg.Database.Name = envutil.String("POSTGRES_NAME", cfg.Database.Name)
	cfg.Database.SSLMode = envutil.String("POSTGRES_SSLMODE", cfg.Database.SSLMode)
	cfg.Database.SQLitePath = envutil.String("SQLITE_PATH", cfg.Database.SQLitePath)

	cfg.Redis.Addr = envutil.String("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = envutil.String("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = envutil.Int("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.Channel = envutil.String("REDIS_CHANNEL", cfg.Redis.Channel)

	cfg.JWTSecretKey = envutil.String("JWT_SECRET_KEY", cfg.JWTSecretKey)
	cfg.AccessTokenTTL = envutil.Seconds("ACCESS_TOKEN_TTL", cfg.AccessTokenTTL)

	cfg.PlatformOwner = envutil.String("PLATFORM_OWNER", cfg.PlatformOwner)
	cfg.AllowedOrigins = envutil.List("CORS_ALLOWED_ORIGINS", cfg.AllowedOrigins)
	cfg.OtelServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.OtelServiceName)
}

func (c Config) Validate() error {
	var problems []string
	switch strings.ToLower(strings.TrimSpace(c.Database.Driver)) {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		problems = append(problems, fmt.Sprintf("unsupported database driver %q", c.Database.Driver))
	}
	if strings.TrimSpace(c.Port) == "" {
		problems = append(problems, "port must be set")
	}
	if strings.TrimSpace(c.JWTSecretKey) == "" {
		problems = append(problems, "jwt secret must be set")
	}
	if c.AccessTokenTTL <= 0 {
		problems = append(problems, "access token ttl must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
