package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "fireremote"
	configFile = "config.yaml"
)

var (
	// Global registry instance (loaded lazily)
	globalRegistry     *Registry
	globalRegistryOnce sync.Once
	globalRegistryErr  error

	// Mutex for thread-safe file operations
	fileMutex sync.Mutex
)

// GetConfigDir returns the OS-appropriate configuration directory for the
// application:
//   - Linux: $XDG_CONFIG_HOME/fireremote or $HOME/.config/fireremote
//   - macOS: $HOME/.config/fireremote
//   - Windows: %LOCALAPPDATA%\fireremote
func GetConfigDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
			}
			baseDir = filepath.Join(userProfile, "AppData", "Local", appName)
		} else {
			baseDir = filepath.Join(localAppData, appName)
		}

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		baseDir = filepath.Join(homeDir, ".config", appName)

	default:
		// Linux and other Unix-like systems
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome != "" {
			baseDir = filepath.Join(xdgConfigHome, appName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".config", appName)
		}
	}

	return baseDir, nil
}

// GetConfigPath returns the full path to the configuration file.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// ensureConfigDir creates the configuration directory if needed.
// User-only permissions: the file under it holds the pairing token.
func ensureConfigDir() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// LoadRegistry loads the configuration registry from disk.
// If the file doesn't exist, returns a new default registry.
// Thread-safe - multiple calls will return the same instance.
func LoadRegistry() (*Registry, error) {
	globalRegistryOnce.Do(func() {
		globalRegistry, globalRegistryErr = loadRegistryFromDisk()
	})
	return globalRegistry, globalRegistryErr
}

// loadRegistryFromDisk performs the actual file loading.
func loadRegistryFromDisk() (*Registry, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return NewRegistry(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var registry Registry
	if err := yaml.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if registry.Version != 1 {
		return nil, fmt.Errorf("unsupported config version: %d (expected 1)", registry.Version)
	}

	// Ensure maps and defaults are initialized
	if registry.Devices == nil {
		registry.Devices = make(map[string]*KnownDevice)
	}
	if registry.Preferences == nil {
		registry.Preferences = NewRegistry().Preferences
	}

	return &registry, nil
}

// Save saves the registry to disk.
// Performs an atomic write to prevent corruption on crash.
func (r *Registry) Save() error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	if err := ensureConfigDir(); err != nil {
		return fmt.Errorf("failed to ensure config directory exists: %w", err)
	}

	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# Fireremote Configuration File
# Stores the paired Fire TV target, its pairing token, and preferences.
#
# Security Note: the pairing token grants remote control of the device.
# This file is written with user-only permissions (0600); treat it like
# a credential.
#
# Location: ` + configPath + `

`)
	data = append(header, data...)

	// Write to temporary file first (atomic write)
	tmpPath := configPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}

	// Atomic rename (this is atomic on all platforms)
	if err := os.Rename(tmpPath, configPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}

	return nil
}

// ReloadRegistry reloads the registry from disk, discarding any in-memory
// changes. Useful for reading changes made by another process.
func ReloadRegistry() (*Registry, error) {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	globalRegistryOnce = sync.Once{}
	return LoadRegistry()
}
