// Package dirs resolves the on-disk locations of application files.
package dirs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	appDirName       = "clashkit"
	configFileName   = "config.yaml"
	settingsFileName = "settings.yaml"

	// EnvHome overrides the application directory, mainly for tests and
	// portable installs.
	EnvHome = "CLASHKIT_HOME"
)

// AppHome returns the directory that holds all application files.
func AppHome() (string, error) {
	if v := strings.TrimSpace(os.Getenv(EnvHome)); v != "" {
		return v, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, appDirName), nil
}

// ConfigPath returns the location of the core config document.
func ConfigPath() (string, error) {
	home, err := AppHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configFileName), nil
}

// SettingsPath returns the location of the application settings file.
func SettingsPath() (string, error) {
	home, err := AppHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, settingsFileName), nil
}
