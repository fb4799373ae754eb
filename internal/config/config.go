package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"
)

// Environment names accepted by ServerConfig.Environment.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"     validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"   validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" validate:"required"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"             validate:"required,gt=0,lt=65536"`
	Environment     string        `mapstructure:"environment"      validate:"required,oneof=development production test"`
	LogLevel        string        `mapstructure:"log_level"        validate:"required,oneof=debug info warn error"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"     validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"    validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"   validate:"gt=0"`
}

// IsProduction reports whether the server runs in production mode.
func (c ServerConfig) IsProduction() bool {
	return c.Environment == EnvProduction
}

// DatabaseConfig contains connection and pool settings. URL, when set,
// takes precedence over the individual connection fields.
type DatabaseConfig struct {
	URL      string `mapstructure:"url"      validate:"omitempty,url"`
	Host     string `mapstructure:"host"     validate:"required_without=URL"`
	Port     int    `mapstructure:"port"     validate:"omitempty,gt=0,lt=65536"`
	Name     string `mapstructure:"name"     validate:"required_without=URL"`
	User     string `mapstructure:"user"     validate:"required_without=URL"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"  validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`

	MaxOpenConns       int           `mapstructure:"max_open_conns"       validate:"gt=0"`
	MaxIdleConns       int           `mapstructure:"max_idle_conns"       validate:"gte=0"`
	ConnMaxIdleTime    time.Duration `mapstructure:"conn_max_idle_time"   validate:"gte=0"`
	ConnMaxLifetime    time.Duration `mapstructure:"conn_max_lifetime"    validate:"gte=0"`
	ConnectTimeout     time.Duration `mapstructure:"connect_timeout"      validate:"gte=0"`
	StatementTimeout   time.Duration `mapstructure:"statement_timeout"    validate:"gte=0"`
	SlowQueryThreshold time.Duration `mapstructure:"slow_query_threshold" validate:"gte=0"`

	// OperationTimeout bounds each request's database work, including the
	// wait for a free pooled connection. Zero disables the bound.
	OperationTimeout time.Duration `mapstructure:"operation_timeout" validate:"gte=0"`

	// EmailPrecheckFailClosed rejects writes when the duplicate-email
	// pre-check itself fails, instead of deferring to the unique constraint.
	EmailPrecheckFailClosed bool `mapstructure:"email_precheck_fail_closed"`
}

// DSN returns the connection string for the database. URL is returned
// unchanged when set; otherwise a postgres URL is assembled from the parts.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}

	port := c.Port
	if port == 0 {
		port = 5432
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(port)),
		Path:   "/" + c.Name,
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	} else {
		u.User = url.User(c.User)
	}
	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{c.SSLMode}}.Encode()
	}
	return u.String()
}

// RateLimitConfig configures the fixed-window limiter applied to every request.
type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Window  time.Duration `mapstructure:"window"  validate:"gt=0"`
	Max     int           `mapstructure:"max"     validate:"gt=0"`
}

// LogConfig configures the optional rotating log file. An empty FilePath
// keeps logging on stdout only.
type LogConfig struct {
	FilePath   string `mapstructure:"file_path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"  validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups"  validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
	Compress   bool   `mapstructure:"compress"`
}

// String returns a loggable summary of the database target without credentials.
func (c DatabaseConfig) String() string {
	if c.URL != "" {
		if u, err := url.Parse(c.URL); err == nil {
			return fmt.Sprintf("%s%s", u.Host, u.Path)
		}
		return "[unparseable url]"
	}
	return fmt.Sprintf("%s:%d/%s", c.Host, c.Port, c.Name)
}
