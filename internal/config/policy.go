package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// PolicyConfig holds ranking and leaderboard policy that operators tune
// without redeploying: file `policy.yml`, hot-reloaded on change.
type PolicyConfig struct {
	LeaderboardDefaultLimit int `mapstructure:"leaderboardDefaultLimit"`
	LeaderboardMaxLimit     int `mapstructure:"leaderboardMaxLimit"`
	// MinRatings is the minimum number of ratings an entity needs before it
	// appears on the leaderboard.
	MinRatings         int `mapstructure:"minRatings"`
	TrendingWindowDays int `mapstructure:"trendingWindowDays"`
}

func DefaultPolicyConfig() PolicyConfig {
	return PolicyConfig{
		LeaderboardDefaultLimit: 10,
		LeaderboardMaxLimit:     100,
		MinRatings:              1,
		TrendingWindowDays:      7,
	}
}

type PolicyConfigHolder struct {
	current atomic.Value // holds PolicyConfig
}

func NewPolicyConfigHolder() (*PolicyConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("policy")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/uwazi/config")
	v.AddConfigPath("/etc/uwazi")
	v.AddConfigPath(".")

	v.SetEnvPrefix("UWAZI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultPolicyConfig()
	v.SetDefault("ranking.leaderboardDefaultLimit", defaults.LeaderboardDefaultLimit)
	v.SetDefault("ranking.leaderboardMaxLimit", defaults.LeaderboardMaxLimit)
	v.SetDefault("ranking.minRatings", defaults.MinRatings)
	v.SetDefault("ranking.trendingWindowDays", defaults.TrendingWindowDays)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg PolicyConfig
	if err := v.UnmarshalKey("ranking", &cfg); err != nil {
		return nil, err
	}
	if err := validatePolicyConfig(cfg); err != nil {
		return nil, err
	}

	holder := &PolicyConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated PolicyConfig
		if err := v.UnmarshalKey("ranking", &updated); err != nil {
			log.Printf("[policy-config] reload failed: %v", err)
			return
		}
		if err := validatePolicyConfig(updated); err != nil {
			log.Printf("[policy-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[policy-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticPolicyHolder returns a holder pinned to the given config. Tests use
// it to avoid touching the filesystem.
func NewStaticPolicyHolder(cfg PolicyConfig) *PolicyConfigHolder {
	holder := &PolicyConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *PolicyConfigHolder) Current() PolicyConfig {
	if h == nil {
		return DefaultPolicyConfig()
	}
	if cfg, ok := h.current.Load().(PolicyConfig); ok {
		return cfg
	}
	return DefaultPolicyConfig()
}

func validatePolicyConfig(cfg PolicyConfig) error {
	if cfg.LeaderboardDefaultLimit <= 0 {
		return errors.New("leaderboardDefaultLimit must be positive")
	}
	if cfg.LeaderboardMaxLimit < cfg.LeaderboardDefaultLimit {
		return errors.New("leaderboardMaxLimit must be >= leaderboardDefaultLimit")
	}
	if cfg.MinRatings < 0 {
		return errors.New("minRatings must not be negative")
	}
	if cfg.TrendingWindowDays <= 0 {
		return errors.New("trendingWindowDays must be positive")
	}
	return nil
}
