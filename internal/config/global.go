package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Verify *VerifyConfig

	Development bool
}

type VerifyConfig struct {
	// Start and End bound the XP range checked, End exclusive.
	Start uint64
	End   uint64

	Workers   int
	ChunkSize uint64

	// MaxMismatches is how many mismatches are kept before the run gives up
	MaxMismatches int
}

var ErrInvalidRange = errors.New("invalid verify range")

func LoadGlobalConfig() (config *Config, err error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.AddConfigPath(".")

	setDefaults(v)

	err = v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return unmarshal(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("development", false)
	v.SetDefault("verify.start", 0)
	v.SetDefault("verify.end", 1_000_000)
	v.SetDefault("verify.workers", runtime.GOMAXPROCS(0))
	v.SetDefault("verify.chunkSize", 1<<16)
	v.SetDefault("verify.maxMismatches", 10)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Verify.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *VerifyConfig) validate() error {
	switch {
	case c == nil:
		return fmt.Errorf("%w: missing verify section", ErrInvalidRange)
	case c.End <= c.Start:
		return fmt.Errorf("%w: end %d must be after start %d", ErrInvalidRange, c.End, c.Start)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidRange, c.Workers)
	case c.ChunkSize == 0:
		return fmt.Errorf("%w: chunkSize must be positive", ErrInvalidRange)
	case c.MaxMismatches < 1:
		return fmt.Errorf("%w: maxMismatches must be at least 1, got %d", ErrInvalidRange, c.MaxMismatches)
	}

	return nil
}
