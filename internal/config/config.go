package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"alcyxob/adaptive-trainer/internal/domain"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	S3           S3Config           `mapstructure:"s3"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	Metrics      MetricsConfig      `mapstructure:"metrics"`
	Scheduler    SchedulerConfig    `mapstructure:"scheduler"`
	Prescription PrescriptionConfig `mapstructure:"prescription"`
	Cache        CacheConfig        `mapstructure:"cache"`
	Planner      PlannerConfig      `mapstructure:"planner"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string        `mapstructure:"endpoint"`
	Region          string        `mapstructure:"region"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	BucketName      string        `mapstructure:"bucket_name"`
	UseSSL          bool          `mapstructure:"use_ssl"`
	PresignExpiry   time.Duration `mapstructure:"presign_expiry"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
	File  string `mapstructure:"file"` // Empty logs to stdout
}

type MetricsConfig struct {
	Namespace string `mapstructure:"namespace"`
	Subsystem string `mapstructure:"subsystem"`
}

// SchedulerConfig holds the defaults applied to athletes who have not set their own preferences.
type SchedulerConfig struct {
	MaxSessionsPerWeek int      `mapstructure:"max_sessions_per_week"`
	AvailableDays      []int    `mapstructure:"available_days"`
	PreferredTimes     []string `mapstructure:"preferred_times"`
	SearchWindowDays   int      `mapstructure:"search_window_days"`
}

// PrescriptionConfig holds the progression constants.
type PrescriptionConfig struct {
	ProgressionStep  float64 `mapstructure:"progression_step"`
	LowRPEThreshold  float64 `mapstructure:"low_rpe_threshold"`
	HighRPEThreshold float64 `mapstructure:"high_rpe_threshold"`
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type PlannerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Spec    string `mapstructure:"spec"` // robfig/cron spec with seconds
}

// DefaultPreferences converts the scheduler section into athlete preference defaults.
func (c SchedulerConfig) DefaultPreferences() domain.SchedulingPreferences {
	return domain.SchedulingPreferences{
		PreferredTimes:     append([]string(nil), c.PreferredTimes...),
		AvailableDays:      append([]int(nil), c.AvailableDays...),
		MaxSessionsPerWeek: c.MaxSessionsPerWeek,
	}
}

// Validate rejects settings the planner cannot work with.
func (c Config) Validate() error {
	var errs []error
	if c.Scheduler.MaxSessionsPerWeek < 1 || c.Scheduler.MaxSessionsPerWeek > 7 {
		errs = append(errs, fmt.Errorf("scheduler.max_sessions_per_week must be between 1 and 7, got %d", c.Scheduler.MaxSessionsPerWeek))
	}
	for _, d := range c.Scheduler.AvailableDays {
		if d < 0 || d > 6 {
			errs = append(errs, fmt.Errorf("scheduler.available_days contains invalid weekday %d", d))
		}
	}
	if err := c.Scheduler.DefaultPreferences().Validate(); err != nil && len(errs) == 0 {
		errs = append(errs, fmt.Errorf("scheduler: %w", err))
	}
	if c.Scheduler.SearchWindowDays < 1 {
		errs = append(errs, errors.New("scheduler.search_window_days must be positive"))
	}
	if c.Prescription.ProgressionStep <= 0 || c.Prescription.ProgressionStep >= 1 {
		errs = append(errs, fmt.Errorf("prescription.progression_step must be in (0, 1), got %v", c.Prescription.ProgressionStep))
	}
	if c.Prescription.LowRPEThreshold >= c.Prescription.HighRPEThreshold {
		errs = append(errs, errors.New("prescription.low_rpe_threshold must be below high_rpe_threshold"))
	}
	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "adaptive_trainer")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("s3.presign_expiry", "15m")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.json", false)
	v.SetDefault("logging.file", "")
	v.SetDefault("metrics.namespace", "adaptive_trainer")
	v.SetDefault("metrics.subsystem", "server")
	v.SetDefault("scheduler.max_sessions_per_week", 3)
	v.SetDefault("scheduler.available_days", []int{1, 2, 3, 4, 5})
	v.SetDefault("scheduler.preferred_times", []string{})
	v.SetDefault("scheduler.search_window_days", 7)
	v.SetDefault("prescription.progression_step", 0.05)
	v.SetDefault("prescription.low_rpe_threshold", 7.0)
	v.SetDefault("prescription.high_rpe_threshold", 8.0)
	v.SetDefault("cache.ttl", "30m")
	v.SetDefault("planner.enabled", false)
	v.SetDefault("planner.spec", "0 0 20 * * 0") // Sundays at 20:00
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Nested keys map to env vars, e.g. scheduler.max_sessions_per_week -> SCHEDULER_MAX_SESSIONS_PER_WEEK
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// Running on defaults and env vars only
		err = nil
	} else if err != nil {
		return
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}

	return config, config.Validate()
}
