package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the application's global configuration, loaded once at
// startup from defaults, an optional config file, and environment
// variables (env wins).
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"db"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Log        LogConfig        `mapstructure:"log"`
	Scheduling SchedulingConfig `mapstructure:"scheduling"`
}

// ServerConfig is the HTTP server configuration.
type ServerConfig struct {
	Port                int             `mapstructure:"port"`
	BaseURL             string          `mapstructure:"base_url"`
	CORS                CORSConfig      `mapstructure:"cors"`
	MaxRequestBodyBytes int64           `mapstructure:"max_request_body_bytes"`
	RateLimit           RateLimitConfig `mapstructure:"rate_limit"`
}

// CORSConfig lists origins allowed to call the API cross-origin.
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// RateLimitConfig bounds the login endpoint against credential stuffing.
type RateLimitConfig struct {
	LoginLimit  int           `mapstructure:"login_limit"`
	LoginWindow time.Duration `mapstructure:"login_window"`
}

// DatabaseConfig is the PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
}

// DSN builds the libpq connection string for this configuration.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig is the Redis client configuration, used for the token
// blacklist and the per-team generation advisory lock.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig is the JWT issuance configuration.
type AuthConfig struct {
	JWTSecret               string        `mapstructure:"jwt_secret"`
	AccessTokenTTL          time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTLDefault  time.Duration `mapstructure:"refresh_token_ttl_default"`
	RefreshTokenTTLRemember time.Duration `mapstructure:"refresh_token_ttl_remember_me"`
	Cookie                  CookieConfig  `mapstructure:"cookie"`
}

// CookieConfig controls how refresh-token cookies are set.
type CookieConfig struct {
	Secure   bool   `mapstructure:"secure"`
	SameSite string `mapstructure:"same_site"`
	Domain   string `mapstructure:"domain"`
}

// LogConfig controls zap's verbosity and encoding.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SchedulingConfig carries the scheduling-core knobs that used to live
// in the original Python implementation's config module, now loaded the
// same way every other section is.
type SchedulingConfig struct {
	Timezone                 string `mapstructure:"timezone"`
	FairnessWindowDays       int    `mapstructure:"fairness_window_days"`
	ATMRestRuleEnabled       bool   `mapstructure:"atm_rest_rule_enabled"`
	ATMCooldownDays          int    `mapstructure:"atm_b_cooldown_days"`
	SysAidWeekDays           []int  `mapstructure:"sysaid_week_days"`
	SysAidRequiredOfficeDays []int  `mapstructure:"sysaid_required_office_days"`
	DefaultAggressiveness    int    `mapstructure:"default_aggressiveness"`
	GenerationLockTTL        time.Duration `mapstructure:"generation_lock_ttl"`
}

// Load reads configuration from a file (if path is non-empty, or
// ./config/config.yaml by default) layered under defaults, then applies
// environment variable overrides under the ROSTER_ prefix.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.max_request_body_bytes", 1<<20)
	v.SetDefault("server.rate_limit.login_limit", 10)
	v.SetDefault("server.rate_limit.login_window", "1m")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "opsroster")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.access_token_ttl", "15m")
	v.SetDefault("auth.refresh_token_ttl_default", "24h")
	v.SetDefault("auth.refresh_token_ttl_remember_me", "168h")
	v.SetDefault("auth.cookie.secure", false)
	v.SetDefault("auth.cookie.same_site", "Lax")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("scheduling.timezone", "UTC")
	v.SetDefault("scheduling.fairness_window_days", 90)
	v.SetDefault("scheduling.atm_rest_rule_enabled", true)
	v.SetDefault("scheduling.atm_b_cooldown_days", 2)
	v.SetDefault("scheduling.sysaid_week_days", []int{1, 2, 3, 4, 5, 6})
	v.SetDefault("scheduling.sysaid_required_office_days", []int{1, 2, 3, 4, 5})
	v.SetDefault("scheduling.default_aggressiveness", 1)
	v.SetDefault("scheduling.generation_lock_ttl", "5m")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("ROSTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the fields that would otherwise fail unsafely or
// silently at runtime.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("config validation: auth.jwt_secret must not be empty")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("config validation: auth.jwt_secret must be at least 16 characters")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config validation: server.port must be between 1 and 65535")
	}
	if c.Scheduling.FairnessWindowDays <= 0 {
		return fmt.Errorf("config validation: scheduling.fairness_window_days must be positive")
	}
	if c.Scheduling.ATMCooldownDays < 0 {
		return fmt.Errorf("config validation: scheduling.atm_b_cooldown_days must not be negative")
	}
	if c.Scheduling.DefaultAggressiveness < 1 || c.Scheduling.DefaultAggressiveness > 5 {
		return fmt.Errorf("config validation: scheduling.default_aggressiveness must be between 1 and 5")
	}
	return nil
}
