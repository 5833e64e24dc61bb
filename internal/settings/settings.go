// Package settings holds user-level application preferences, including the
// controller port conflict strategy consumed by the config guard.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/clashkit/clashkit/internal/portpicker"
)

type Strategy string

const (
	StrategyFixed         Strategy = portpicker.StrategyFixed
	StrategyAllowFallback Strategy = portpicker.StrategyAllowFallback
	StrategyRandom        Strategy = portpicker.StrategyRandom
)

type Settings struct {
	ExternalControllerPortStrategy Strategy `yaml:"external-controller-port-strategy"`
	EnableAutoLaunch               bool     `yaml:"enable-auto-launch"`
	EnableSilentStart              bool     `yaml:"enable-silent-start"`
}

// Default returns settings with every field at its default.
func Default() *Settings {
	s := &Settings{}
	applyDefaults(s)
	return s
}

// Load reads settings from path, applying defaults and validating.
func Load(path string) (*Settings, error) {
	// #nosec G304 -- path comes from trusted app dir resolution.
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Settings
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyDefaults(&s)
	if err := validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save writes settings to path, creating parent directories as needed.
func Save(path string, s *Settings) error {
	b, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

func applyDefaults(s *Settings) {
	if strings.TrimSpace(string(s.ExternalControllerPortStrategy)) == "" {
		s.ExternalControllerPortStrategy = StrategyAllowFallback
	}
}

func validate(s *Settings) error {
	_, err := ParseStrategy(string(s.ExternalControllerPortStrategy))
	return err
}

// ParseStrategy validates a strategy token.
func ParseStrategy(v string) (Strategy, error) {
	s := Strategy(strings.ToLower(strings.TrimSpace(v)))
	switch s {
	case StrategyFixed, StrategyAllowFallback, StrategyRandom:
		return s, nil
	default:
		return "", fmt.Errorf("port strategy must be one of fixed, allow-fallback, random (got %q)", v)
	}
}

// ControllerPortStrategy implements the guard's settings collaborator.
func (s *Settings) ControllerPortStrategy() string {
	return string(s.ExternalControllerPortStrategy)
}

// ResolvePort implements the guard's settings collaborator by probing local
// port availability under the given strategy.
func (s *Settings) ResolvePort(strategy string, requested uint16) (uint16, error) {
	return portpicker.Resolve(strategy, requested)
}
