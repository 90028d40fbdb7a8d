package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full worker configuration. Every knob has a sane default so
// the worker is operable with nothing but credentials set.
type Config struct {
	Supabase SupabaseConfig `mapstructure:"supabase"`
	Worker   WorkerConfig   `mapstructure:"worker"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
}

// SupabaseConfig holds the queue/finalize RPC credentials.
type SupabaseConfig struct {
	URL            string `mapstructure:"url"`
	ServiceRoleKey string `mapstructure:"service_role_key"`
}

// WorkerConfig holds the polling-loop and provider-dispatch knobs.
type WorkerConfig struct {
	QueueName         string  `mapstructure:"queue_name"`
	VisibilitySeconds int     `mapstructure:"visibility_seconds"`
	PollBatchSize     int     `mapstructure:"poll_batch_size"`
	EmptySleepSeconds float64 `mapstructure:"empty_sleep_seconds"`
	IdleExitSeconds   int     `mapstructure:"idle_exit_seconds"`
	APIKeyEnvOverride string  `mapstructure:"api_key_env_override"`
}

// EmptySleep returns the sleep between empty polls as a duration.
// Parameters: none.
// Returns:
//   - time.Duration: empty-poll sleep interval.
func (w WorkerConfig) EmptySleep() time.Duration {
	return time.Duration(w.EmptySleepSeconds * float64(time.Second))
}

// IdleExit returns the idle ceiling after which the worker exits cleanly.
// Parameters: none.
// Returns:
//   - time.Duration: idle-exit ceiling.
func (w WorkerConfig) IdleExit() time.Duration {
	return time.Duration(w.IdleExitSeconds) * time.Second
}

// DatabaseConfig holds the job-table connection settings.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from an optional YAML file plus environment
// variables, applies defaults, and clamps operational knobs to safe ranges.
// Parameters:
//   - configPath: explicit config file path; empty searches ./configs and .
// Returns:
//   - *Config: resolved configuration.
//   - error: non-nil if the file is unreadable or validation fails.
func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("worker.queue_name", "benchmark_jobs")
	v.SetDefault("worker.visibility_seconds", 120)
	v.SetDefault("worker.poll_batch_size", 1)
	v.SetDefault("worker.empty_sleep_seconds", 2.0)
	v.SetDefault("worker.idle_exit_seconds", 300)
	v.SetDefault("worker.api_key_env_override", "")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.max_open_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for credentials and the knobs
	// operators actually set.
	v.BindEnv("supabase.url", "SUPABASE_URL")
	v.BindEnv("supabase.service_role_key", "SUPABASE_SERVICE_ROLE_KEY")
	v.BindEnv("worker.queue_name", "WORKER_QUEUE_NAME")
	v.BindEnv("worker.visibility_seconds", "WORKER_VT_SECONDS")
	v.BindEnv("worker.poll_batch_size", "WORKER_POLL_QTY")
	v.BindEnv("worker.empty_sleep_seconds", "WORKER_EMPTY_SLEEP_SECONDS")
	v.BindEnv("worker.idle_exit_seconds", "WORKER_IDLE_EXIT_SECONDS")
	v.BindEnv("worker.api_key_env_override", "API_KEY_ENV_OVERRIDE")
	v.BindEnv("database.dsn", "DATABASE_URL")
	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("log.format", "LOG_FORMAT")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.clamp()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// clamp forces operational knobs into the ranges the queue service expects.
func (c *Config) clamp() {
	if c.Worker.QueueName = strings.TrimSpace(c.Worker.QueueName); c.Worker.QueueName == "" {
		c.Worker.QueueName = "benchmark_jobs"
	}
	if c.Worker.VisibilitySeconds < 15 {
		c.Worker.VisibilitySeconds = 15
	}
	if c.Worker.PollBatchSize < 1 {
		c.Worker.PollBatchSize = 1
	}
	if c.Worker.PollBatchSize > 10 {
		c.Worker.PollBatchSize = 10
	}
	if c.Worker.EmptySleepSeconds < 1 {
		c.Worker.EmptySleepSeconds = 1
	}
	if c.Worker.IdleExitSeconds < 30 {
		c.Worker.IdleExitSeconds = 30
	}
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Supabase.URL) == "" {
		return fmt.Errorf("missing required env var: SUPABASE_URL")
	}
	if strings.TrimSpace(c.Supabase.ServiceRoleKey) == "" {
		return fmt.Errorf("missing required env var: SUPABASE_SERVICE_ROLE_KEY")
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("missing required env var: DATABASE_URL")
	}
	return nil
}
