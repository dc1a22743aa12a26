package config

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	JobFeedbackReminders   = "feedback_reminders"
	JobFormDefinitionsSync = "form_definitions_sync"
	JobInterviewTypesSync  = "interview_types_sync"
	JobSlackUsersSync      = "slack_users_sync"
)

// JobConfig controls one periodic job.
type JobConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type SchedulerConfig struct {
	Jobs        map[string]JobConfig `mapstructure:"jobs"`
	InitialSync bool                 `mapstructure:"initial_sync"`
}

// RuntimeConfig is the part of the configuration that may change while running.
type RuntimeConfig struct {
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		Scheduler: SchedulerConfig{
			Jobs: map[string]JobConfig{
				JobFeedbackReminders:   {Enabled: true, Interval: 5 * time.Minute, Timeout: 2 * time.Minute},
				JobFormDefinitionsSync: {Enabled: true, Interval: 6 * time.Hour, Timeout: 10 * time.Minute},
				JobInterviewTypesSync:  {Enabled: true, Interval: 12 * time.Hour, Timeout: 10 * time.Minute},
				JobSlackUsersSync:      {Enabled: true, Interval: 12 * time.Hour, Timeout: 10 * time.Minute},
			},
			InitialSync: true,
		},
	}
}

// Job returns the settings for name, falling back to the defaults for any unset field.
func (c RuntimeConfig) Job(name string) JobConfig {
	def := DefaultRuntimeConfig().Scheduler.Jobs[name]
	job, ok := c.Scheduler.Jobs[name]
	if !ok {
		return def
	}
	if job.Interval <= 0 {
		job.Interval = def.Interval
	}
	if job.Timeout <= 0 {
		job.Timeout = def.Timeout
	}
	return job
}

type RuntimeConfigHolder struct {
	current atomic.Value // holds RuntimeConfig
}

// NewStaticRuntimeConfigHolder returns a holder that never reloads.
func NewStaticRuntimeConfigHolder(cfg RuntimeConfig) *RuntimeConfigHolder {
	holder := &RuntimeConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewRuntimeConfigHolder(cfg Config, log *zap.Logger) (*RuntimeConfigHolder, error) {
	log = log.Named("config.runtime")
	v := viper.New()

	v.SetConfigName("relay")
	v.SetConfigType("yml")
	v.AddConfigPath(cfg.RuntimeConfigPath)
	v.AddConfigPath("/etc/feedbackrelay")

	v.SetEnvPrefix("RELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultRuntimeConfig()
	v.SetDefault("scheduler.initial_sync", defaults.Scheduler.InitialSync)
	for name, job := range defaults.Scheduler.Jobs {
		v.SetDefault("scheduler.jobs."+name+".enabled", job.Enabled)
		v.SetDefault("scheduler.jobs."+name+".interval", job.Interval)
		v.SetDefault("scheduler.jobs."+name+".timeout", job.Timeout)
	}

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		fileFound = false
	}

	current, err := decodeRuntimeConfig(v)
	if err != nil {
		return nil, err
	}

	holder := NewStaticRuntimeConfigHolder(current)
	if !fileFound {
		log.Info("runtime config file not found, using defaults")
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decodeRuntimeConfig(v)
		if err != nil {
			log.Warn("invalid runtime config ignored", zap.String("file", e.Name), zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("runtime config reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *RuntimeConfigHolder) Get() RuntimeConfig {
	return h.current.Load().(RuntimeConfig)
}

func decodeRuntimeConfig(v *viper.Viper) (RuntimeConfig, error) {
	var cfg RuntimeConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return RuntimeConfig{}, err
	}
	if err := validateRuntimeConfig(cfg); err != nil {
		return RuntimeConfig{}, err
	}
	return cfg, nil
}

func validateRuntimeConfig(cfg RuntimeConfig) error {
	for name, job := range cfg.Scheduler.Jobs {
		if job.Interval < 0 || job.Timeout < 0 {
			return fmt.Errorf("scheduler.jobs.%s: negative duration", name)
		}
		if job.Interval > 0 && job.Interval < time.Second {
			return fmt.Errorf("scheduler.jobs.%s.interval must be at least 1s", name)
		}
	}
	return nil
}
