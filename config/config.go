package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the application-wide configuration tree.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Recon    ReconConfig    `mapstructure:"recon"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig HTTP server settings.
type ServerConfig struct {
	Port int        `mapstructure:"port"`
	CORS CORSConfig `mapstructure:"cors"`
}

// CORSConfig cross-origin settings for the reporting surface.
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL settings.
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
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // minutes
}

// DSN builds the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis settings. Redis is optional: when unreachable the
// reconciliation run markers degrade to database probing only.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT settings for operator identity on the adjudication surface.
type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

// ReconConfig reconciliation engine policy knobs.
type ReconConfig struct {
	// ToleranceMinutes is the margin around the planned start inside which an
	// actual shift opening matches the slot. Forced runs ignore it.
	ToleranceMinutes int `mapstructure:"tolerance_minutes"`
	// OvertimeThresholdMinutes is the rounding threshold: actual duration must
	// exceed planned by more than this to produce an Overtime record.
	OvertimeThresholdMinutes int `mapstructure:"overtime_threshold_minutes"`
	// ForcedLookbackDays is the default historical window for forced catch-up.
	ForcedLookbackDays int `mapstructure:"forced_lookback_days"`
	// Workers bounds the per-batch worker pool.
	Workers int `mapstructure:"workers"`
	// ScheduleEnabled turns the nightly job on/off.
	ScheduleEnabled bool `mapstructure:"schedule_enabled"`
	// ScheduleAt is the local time-of-day ("HH:MM") the nightly job fires.
	ScheduleAt string `mapstructure:"schedule_at"`
	// MarkerTTL is how long a redis run marker lives.
	MarkerTTL time.Duration `mapstructure:"marker_ttl"`
	// Timezone is the local zone planned slot start times are anchored in.
	Timezone string `mapstructure:"timezone"`
}

// LogConfig logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment.
// Precedence: environment variables > config file > defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── defaults ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "turnario")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "America/Sao_Paulo")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.access_token_ttl", "12h")

	v.SetDefault("recon.tolerance_minutes", 30)
	v.SetDefault("recon.overtime_threshold_minutes", 15)
	v.SetDefault("recon.forced_lookback_days", 30)
	v.SetDefault("recon.workers", 4)
	v.SetDefault("recon.schedule_enabled", true)
	v.SetDefault("recon.schedule_at", "02:00")
	v.SetDefault("recon.marker_ttl", "1080h") // 45 days, covers the forced lookback
	v.SetDefault("recon.timezone", "America/Sao_Paulo")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// ── config file ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── environment ──
	v.SetEnvPrefix("TURNARIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// missing file: defaults + environment only
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

// Validate checks the settings the process cannot run without.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("config: auth.jwt_secret must not be empty")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("config: auth.jwt_secret must be at least 16 characters")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port must be between 1 and 65535")
	}
	if c.Recon.ToleranceMinutes < 0 {
		return fmt.Errorf("config: recon.tolerance_minutes must not be negative")
	}
	if c.Recon.Workers <= 0 {
		return fmt.Errorf("config: recon.workers must be positive")
	}
	if _, err := time.Parse("15:04", c.Recon.ScheduleAt); err != nil {
		return fmt.Errorf("config: recon.schedule_at must be HH:MM: %w", err)
	}
	return nil
}
