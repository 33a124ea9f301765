package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the application configuration. It intentionally carries no
// domain policy: shipping/tax rates and payment behavior are injected
// in code (domain/pricing), not configured.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	Journal JournalConfig `mapstructure:"journal"`
	Log     LogConfig     `mapstructure:"log"`
}

// AppConfig identifies the running application.
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env"` // development, staging, production
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
}

// JournalConfig selects and configures the journal backend.
type JournalConfig struct {
	// Backend is one of "memory", "relational", "widecolumn".
	Backend    string           `mapstructure:"backend"`
	Relational RelationalConfig `mapstructure:"relational"`
	WideColumn WideColumnConfig `mapstructure:"wide_column"`
	Retry      RetryConfig      `mapstructure:"retry"`
}

// RelationalConfig configures the gorm/MySQL journal backend.
type RelationalConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN builds the MySQL data source name gorm expects.
func (c RelationalConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.Username, c.Password, c.Host, c.Port, c.Database)
}

// WideColumnConfig configures the gocql/Scylla journal backend.
type WideColumnConfig struct {
	Hosts    []string `mapstructure:"hosts"`
	Keyspace string   `mapstructure:"keyspace"`
	Table    string   `mapstructure:"table"`
}

// RetryConfig configures transient-failure retry for journal append.
type RetryConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxAttempts     int           `mapstructure:"max_attempts"`
	InitialDelay    time.Duration `mapstructure:"initial_delay"`
	MaxDelay        time.Duration `mapstructure:"max_delay"`
	BackoffFactor   float64       `mapstructure:"backoff_factor"`
	JitterEnabled   bool          `mapstructure:"jitter_enabled"`
	RetryOnDeadlock bool          `mapstructure:"retry_on_deadlock"`
	RetryOnTimeout  bool          `mapstructure:"retry_on_timeout"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

func (c *Config) IsDevelopment() bool { return c.App.Env == "development" }
func (c *Config) IsProduction() bool  { return c.App.Env == "production" }

// Load reads configuration from configPath (or ./config.yaml by
// default), overlaying defaults then environment variables prefixed
// ORDERCORE_.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("ORDERCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "ordercore")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.env", "development")

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.request_timeout", "15s")

	v.SetDefault("journal.backend", "memory")

	v.SetDefault("journal.relational.host", "localhost")
	v.SetDefault("journal.relational.port", "3306")
	v.SetDefault("journal.relational.username", "root")
	v.SetDefault("journal.relational.password", "")
	v.SetDefault("journal.relational.database", "ordercore")
	v.SetDefault("journal.relational.max_open_conns", 25)
	v.SetDefault("journal.relational.max_idle_conns", 5)
	v.SetDefault("journal.relational.conn_max_lifetime", "5m")

	v.SetDefault("journal.wide_column.hosts", []string{"localhost"})
	v.SetDefault("journal.wide_column.keyspace", "ordercore")
	v.SetDefault("journal.wide_column.table", "events")

	v.SetDefault("journal.retry.enabled", true)
	v.SetDefault("journal.retry.max_attempts", 3)
	v.SetDefault("journal.retry.initial_delay", "100ms")
	v.SetDefault("journal.retry.max_delay", "2s")
	v.SetDefault("journal.retry.backoff_factor", 2.0)
	v.SetDefault("journal.retry.jitter_enabled", true)
	v.SetDefault("journal.retry.retry_on_deadlock", true)
	v.SetDefault("journal.retry.retry_on_timeout", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file_path", "logs/app.log")
}
