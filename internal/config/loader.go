package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir

const (
	userConfigDir  = ".config/multidialer"
	configFileName = "config.yaml"
)

// LoadConfig loads the multidialer configuration by layering user settings
// over the built-in defaults. A missing user config file is not an error.
func LoadConfig() (DialerConfig, error) {
	config := GetDefaultConfig()

	userConfigPath, err := getUserConfigPath()
	if err != nil {
		// Log this error but don't fail; user config is optional
		fmt.Fprintf(os.Stderr, "Warning: Could not determine user config path: %v\n", err)
		return config, nil
	}

	if _, err := os.Stat(userConfigPath); !os.IsNotExist(err) {
		userConfig, err := loadConfigFromFile(userConfigPath)
		if err != nil {
			return DialerConfig{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
		}
		config = mergeConfigs(config, userConfig)
	}

	return config, nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir() // Use mockable variable
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

// loadConfigFromFile loads a DialerConfig from a YAML file.
func loadConfigFromFile(filePath string) (DialerConfig, error) {
	var config DialerConfig
	data, err := os.ReadFile(filePath)
	if err != nil {
		return DialerConfig{}, err
	}
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return DialerConfig{}, err
	}
	return config, nil
}

// mergeConfigs merges 'overlay' config into 'base' config.
func mergeConfigs(base, overlay DialerConfig) DialerConfig {
	merged := base

	if overlay.Manager.Host != "" {
		merged.Manager.Host = overlay.Manager.Host
	}
	if overlay.Manager.Port != 0 {
		merged.Manager.Port = overlay.Manager.Port
	}
	if overlay.Manager.Username != "" {
		merged.Manager.Username = overlay.Manager.Username
	}

	if overlay.Lines.PeerPrefix != "" {
		merged.Lines.PeerPrefix = overlay.Lines.PeerPrefix
	}
	if overlay.Lines.PlarCode != "" {
		merged.Lines.PlarCode = overlay.Lines.PlarCode
	}
	if overlay.Lines.Context != "" {
		merged.Lines.Context = overlay.Lines.Context
	}
	if overlay.Lines.Extension != "" {
		merged.Lines.Extension = overlay.Lines.Extension
	}

	return merged
}
