// Package config loads application configuration from a YAML file and
// environment variables. Priority: ENV > YAML > defaults.
package config

import (
	"fmt"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Journal Journal `yaml:"journal"`
	Scorer  Scorer  `yaml:"scorer"`
	Rewards Rewards `yaml:"rewards"`
	Log     Log     `yaml:"log"`
}

// Journal holds the SQLite event-journal settings.
type Journal struct {
	Path string `yaml:"path" env:"JOURNAL_PATH" env-default:"tahfiz.db"`
}

// Scorer holds the external recitation-scorer settings.
type Scorer struct {
	APIKey      string        `yaml:"api_key"      env:"SCORER_API_KEY"`
	BaseURL     string        `yaml:"base_url"     env:"SCORER_BASE_URL"`
	Model       string        `yaml:"model"        env:"SCORER_MODEL"       env-default:"whisper-1"`
	MaxAttempts int           `yaml:"max_attempts" env:"SCORER_MAX_ATTEMPTS" env-default:"3"`
	BaseDelay   time.Duration `yaml:"base_delay"   env:"SCORER_BASE_DELAY"  env-default:"500ms"`
	MaxDelay    time.Duration `yaml:"max_delay"    env:"SCORER_MAX_DELAY"   env-default:"8s"`
}

// Rewards holds the reward-engine tuning.
type Rewards struct {
	DailyTargetAyahs int `yaml:"daily_target_ayahs" env:"REWARDS_DAILY_TARGET_AYAHS" env-default:"10"`
	RepetitionTarget int `yaml:"repetition_target"  env:"REWARDS_REPETITION_TARGET"  env-default:"20"`
	DailyPlanQuota   int `yaml:"daily_plan_quota"   env:"REWARDS_DAILY_PLAN_QUOTA"   env-default:"10"`
}

// Log holds logging settings.
type Log struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// Validate checks cross-field constraints cleanenv tags cannot express.
func (c *Config) Validate() error {
	if c.Rewards.DailyTargetAyahs < 1 {
		return fmt.Errorf("rewards.daily_target_ayahs must be at least 1")
	}
	if c.Rewards.RepetitionTarget < 1 {
		return fmt.Errorf("rewards.repetition_target must be at least 1")
	}
	if c.Scorer.MaxAttempts < 1 {
		return fmt.Errorf("scorer.max_attempts must be at least 1")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}
