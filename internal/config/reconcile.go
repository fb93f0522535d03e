package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ReconcileConfig tunes the financial reconciliation engine. It is loaded
// from an optional reconcile.yml and hot-reloaded on change so tolerance
// adjustments do not require a restart.
type ReconcileConfig struct {
	// Epsilon absorbs floating rounding when comparing installment totals
	// against the project cost.
	Epsilon float64 `mapstructure:"epsilon"`
	// MoneyScale is the number of decimals used at presentation boundaries.
	MoneyScale int `mapstructure:"moneyScale"`
	// OverdueGraceDays shifts the overdue cutoff back from "now".
	OverdueGraceDays int `mapstructure:"overdueGraceDays"`
}

func DefaultReconcileConfig() ReconcileConfig {
	return ReconcileConfig{
		Epsilon:          0.0001,
		MoneyScale:       2,
		OverdueGraceDays: 0,
	}
}

type ReconcileConfigHolder struct {
	current atomic.Value // holds ReconcileConfig
}

func (h *ReconcileConfigHolder) Get() ReconcileConfig {
	if v, ok := h.current.Load().(ReconcileConfig); ok {
		return v
	}
	return DefaultReconcileConfig()
}

func NewReconcileConfigHolder() (*ReconcileConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("reconcile")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/projectledger")
	v.AddConfigPath(".")

	v.SetEnvPrefix("PROJECTLEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultReconcileConfig()
	v.SetDefault("reconcile.epsilon", defaults.Epsilon)
	v.SetDefault("reconcile.moneyScale", defaults.MoneyScale)
	v.SetDefault("reconcile.overdueGraceDays", defaults.OverdueGraceDays)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg ReconcileConfig
	if err := v.UnmarshalKey("reconcile", &cfg); err != nil {
		return nil, err
	}
	if err := validateReconcileConfig(cfg); err != nil {
		return nil, err
	}

	holder := &ReconcileConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated ReconcileConfig
		if err := v.UnmarshalKey("reconcile", &updated); err != nil {
			log.Printf("[reconcile-config] reload failed: %v", err)
			return
		}
		if err := validateReconcileConfig(updated); err != nil {
			log.Printf("[reconcile-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[reconcile-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func validateReconcileConfig(cfg ReconcileConfig) error {
	if cfg.Epsilon <= 0 {
		return errors.New("reconcile.epsilon must be positive")
	}
	if cfg.MoneyScale < 0 || cfg.MoneyScale > 4 {
		return errors.New("reconcile.moneyScale must be between 0 and 4")
	}
	if cfg.OverdueGraceDays < 0 {
		return errors.New("reconcile.overdueGraceDays must not be negative")
	}
	return nil
}
