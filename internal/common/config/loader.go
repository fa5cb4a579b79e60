// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml on top
// and applies environment overrides. Missing files are not an error.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")
	bindEnv(v)

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // ignore error if not found

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func bindEnv(v *viper.Viper) {
	// SERVER_PORT overrides server.port, EVENTS_KAFKA_TOPIC overrides events.kafka.topic
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Load .env from the working directory, its parents, or the module root.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars replaces ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// Direct override for secrets that are conventionally provided without a prefix.
func overrideEmptyConfig(cfg *Config) {
	pg := &cfg.Events.Audit.Postgres
	if pg.User == "" {
		if val := os.Getenv("DB_USER"); val != "" {
			pg.User = val
		}
	}
	if pg.Password == "" {
		if val := os.Getenv("DB_PASSWORD"); val != "" {
			pg.Password = val
		}
	}
	if cfg.Events.Redis.Password == "" {
		if val := os.Getenv("REDIS_PASSWORD"); val != "" {
			cfg.Events.Redis.Password = val
		}
	}
	if cfg.Events.Mail.Region == "" {
		if val := os.Getenv("AWS_REGION"); val != "" {
			cfg.Events.Mail.Region = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "school-activities"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.StaticDir == "" {
		cfg.Server.StaticDir = "./static"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 10000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 5000
	}

	if cfg.Events.PublishTimeout == 0 {
		cfg.Events.PublishTimeout = 3000
	}
	if cfg.Events.Kafka.Topic == "" {
		cfg.Events.Kafka.Topic = "activities.roster"
	}
	if cfg.Events.Redis.Stream == "" {
		cfg.Events.Redis.Stream = "activities:roster"
	}
	if cfg.Events.Redis.MaxLen == 0 {
		cfg.Events.Redis.MaxLen = 10000
	}

	pg := &cfg.Events.Audit.Postgres
	if pg.Port == 0 {
		pg.Port = 5432
	}
	if pg.MaxConnections == 0 {
		pg.MaxConnections = 10
	}
	if pg.MaxIdle == 0 {
		pg.MaxIdle = 2
	}
	if pg.SSLMode == "" {
		pg.SSLMode = "disable"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	if cfg.Events.Kafka.Enabled && len(cfg.Events.Kafka.Brokers) == 0 {
		return fmt.Errorf("events.kafka.brokers is required when kafka is enabled")
	}

	if cfg.Events.Redis.Enabled && cfg.Events.Redis.Address == "" {
		return fmt.Errorf("events.redis.address is required when redis is enabled")
	}

	if cfg.Events.Audit.Enabled {
		pg := cfg.Events.Audit.Postgres
		if pg.Host == "" {
			return fmt.Errorf("events.audit.postgres.host is required")
		}
		if pg.Database == "" {
			return fmt.Errorf("events.audit.postgres.database is required")
		}
		if pg.User == "" {
			return fmt.Errorf("events.audit.postgres.user is required")
		}
	}

	if cfg.Events.Mail.Enabled {
		if cfg.Events.Mail.Region == "" {
			return fmt.Errorf("events.mail.region is required when mail is enabled")
		}
		if cfg.Events.Mail.FromEmail == "" {
			return fmt.Errorf("events.mail.from_email is required when mail is enabled")
		}
	}

	if cfg.Tracing.Enabled && cfg.Tracing.JaegerEndpoint == "" {
		return fmt.Errorf("tracing.jaeger_endpoint is required when tracing is enabled")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
