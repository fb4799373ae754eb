package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variables read by Load.
const EnvPrefix = "USERS"

// envAliases binds conventional deployment variable names to config keys.
// Prefixed variables (USERS_SERVER_PORT, ...) win over these.
var envAliases = map[string]string{
	"server.port":        "PORT",
	"server.environment": "APP_ENV",
	"database.url":       "DATABASE_URL",
	"database.host":      "DB_HOST",
	"database.port":      "DB_PORT",
	"database.name":      "DB_NAME",
	"database.user":      "DB_USER",
	"database.password":  "DB_PASSWORD",
	"rate_limit.window":  "RATE_LIMIT_WINDOW",
	"rate_limit.max":     "RATE_LIMIT_MAX",
}

// Load configuration from environment variables and optionally config files.
// A .env file in the working directory is loaded first without overriding
// variables that are already set. Environment variables take precedence over
// values from config files. Returns a populated Config struct or an error if
// loading/validation fails.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if path := os.Getenv(EnvPrefix + "_CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, alias := range envAliases {
		if err := v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), alias); err != nil {
			return nil, fmt.Errorf("error binding env var %s: %w", alias, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.environment", EnvDevelopment)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.max_body_bytes", int64(10<<20))

	v.SetDefault("database.url", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "users")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.sslmode", "")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_idle_time", 30*time.Second)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.connect_timeout", 2*time.Second)
	v.SetDefault("database.statement_timeout", time.Duration(0))
	v.SetDefault("database.slow_query_threshold", 500*time.Millisecond)
	v.SetDefault("database.operation_timeout", 10*time.Second)
	v.SetDefault("database.email_precheck_fail_closed", false)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.window", 15*time.Minute)
	v.SetDefault("rate_limit.max", 100)

	v.SetDefault("log.file_path", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("log.compress", false)
}
