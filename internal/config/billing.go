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

// BillingConfig controls how billing dates are interpreted and how
// outstanding balances are bucketed.
type BillingConfig struct {
	// TimeZone is the IANA zone used to decide what "today" is for
	// overdue sweeps.
	TimeZone     string        `mapstructure:"timeZone"`
	AgingBuckets []AgingBucket `mapstructure:"agingBuckets"`
}

type AgingBucket struct {
	Label   string `mapstructure:"label" json:"label"`
	MinDays int    `mapstructure:"minDays" json:"min_days"`
	MaxDays *int   `mapstructure:"maxDays" json:"max_days,omitempty"`
}

// Contains reports whether daysPastDue falls inside the bucket.
func (b AgingBucket) Contains(daysPastDue int) bool {
	if daysPastDue < b.MinDays {
		return false
	}
	return b.MaxDays == nil || daysPastDue <= *b.MaxDays
}

// Location resolves TimeZone, falling back to UTC.
func (c BillingConfig) Location() *time.Location {
	name := strings.TrimSpace(c.TimeZone)
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

func DefaultBillingConfig() BillingConfig {
	return BillingConfig{
		TimeZone: "UTC",
		AgingBuckets: []AgingBucket{
			{Label: "0-30", MinDays: 0, MaxDays: intPtr(30)},
			{Label: "31-60", MinDays: 31, MaxDays: intPtr(60)},
			{Label: "60+", MinDays: 61, MaxDays: nil},
		},
	}
}

func intPtr(v int) *int { return &v }

type BillingConfigHolder struct {
	current atomic.Value // holds BillingConfig
}

// NewStaticBillingConfigHolder wraps a fixed config without file watching.
func NewStaticBillingConfigHolder(cfg BillingConfig) *BillingConfigHolder {
	holder := &BillingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewBillingConfigHolder(log *zap.Logger) (*BillingConfigHolder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("billing.config")

	v := viper.New()

	v.SetConfigName("billing")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/estate/config")
	v.AddConfigPath("/etc/estate")
	v.AddConfigPath(".")

	v.SetEnvPrefix("ESTATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultBillingConfig()
	v.SetDefault("billing.timeZone", defaults.TimeZone)

	fileLoaded := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		fileLoaded = false
		v.SetDefault("billing.agingBuckets", defaults.AgingBuckets)
	}

	var cfg BillingConfig
	if err := v.UnmarshalKey("billing", &cfg); err != nil {
		return nil, err
	}
	if len(cfg.AgingBuckets) == 0 {
		cfg.AgingBuckets = defaults.AgingBuckets
	}
	if err := validateBillingConfig(cfg); err != nil {
		return nil, err
	}

	holder := NewStaticBillingConfigHolder(cfg)
	if !fileLoaded {
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated BillingConfig
		if err := v.UnmarshalKey("billing", &updated); err != nil {
			log.Warn("reload failed", zap.String("file", e.Name), zap.Error(err))
			return
		}
		if err := validateBillingConfig(updated); err != nil {
			log.Warn("invalid config ignored", zap.String("file", e.Name), zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *BillingConfigHolder) Get() BillingConfig {
	if h == nil {
		return DefaultBillingConfig()
	}
	return h.current.Load().(BillingConfig)
}

func validateBillingConfig(cfg BillingConfig) error {
	if len(cfg.AgingBuckets) == 0 {
		return errors.New("billing.agingBuckets cannot be empty")
	}
	if tz := strings.TrimSpace(cfg.TimeZone); tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			return fmt.Errorf("billing.timeZone %q: %w", tz, err)
		}
	}
	for i, bucket := range cfg.AgingBuckets {
		if strings.TrimSpace(bucket.Label) == "" {
			return fmt.Errorf("billing.agingBuckets[%d].label cannot be empty", i)
		}
		if bucket.MinDays < 0 {
			return fmt.Errorf("billing.agingBuckets[%d].minDays cannot be negative", i)
		}
		if bucket.MaxDays != nil && *bucket.MaxDays < bucket.MinDays {
			return fmt.Errorf("billing.agingBuckets[%d].maxDays below minDays", i)
		}
	}
	return nil
}
