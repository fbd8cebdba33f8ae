package internal

import (
	"github.com/jocelynow/travelpal/internal/config"
)

// LoadConfig reads the configuration from an explicit path or the
// default location.
func LoadConfig(configPath string) (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}
