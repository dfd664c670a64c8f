package config

import (
	"time"

	"github.com/spf13/viper"
)

// DefaultBaseURL is the host serving the upload API.
const DefaultBaseURL = "https://minecraft.curseforge.com"

type Config struct {
	CurseForge CurseForgeConfig
	Logger     LoggerConfig
}

type CurseForgeConfig struct {
	APIToken string
	// BaseURL is not read from the environment; tests point it at a local server.
	BaseURL string
	Timeout time.Duration
	Debug   bool
}

type LoggerConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("CURSEFORGE_API_TOKEN", "")
	v.SetDefault("CURSEFORGE_TIMEOUT", "60s")
	v.SetDefault("CURSEFORGE_DEBUG", false)
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "text")

	// Env
	v.AutomaticEnv()

	timeout, err := time.ParseDuration(v.GetString("CURSEFORGE_TIMEOUT"))
	if err != nil {
		timeout = 60 * time.Second
	}

	cfg := &Config{
		CurseForge: CurseForgeConfig{
			APIToken: v.GetString("CURSEFORGE_API_TOKEN"),
			BaseURL:  DefaultBaseURL,
			Timeout:  timeout,
			Debug:    v.GetBool("CURSEFORGE_DEBUG"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
	}

	return cfg, nil
}
