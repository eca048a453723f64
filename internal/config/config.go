// Package config defines the reactor's runtime configuration: layout
// tuning, gaps, app rules, and the knobs the drag, stack, and scroll
// subsystems read on every layout pass. Loading accepts either YAML or
// JSON, chosen by the file's extension; a file that fails to parse in
// that format is not retried in the other.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ryanthedev/reactor/internal/logging"
)

// GetConfigPath returns the default config file path,
// ~/.config/reactor/config.yaml. It does not look for a config.json.
func GetConfigPath() string {
	dir := filepath.Join(os.Getenv("HOME"), ".config", "reactor")
	return filepath.Join(dir, "config.yaml")
}

// LoadConfig reads and parses the config file at path. A missing file is
// not an error: Default() is returned instead, so first-run has no
// required setup step. The format is inferred from the path's extension,
// defaulting to YAML.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Info().Str("path", path).Msg("no config file found, using defaults")
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	format := "yaml"
	if filepath.Ext(path) == ".json" {
		format = "json"
	}

	cfg, err := LoadConfigFromBytes(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// LoadConfigFromBytes parses data as either "yaml" or "json" and
// validates the result against the invariants the layout systems and
// drag manager assume hold.
func LoadConfigFromBytes(data []byte, format string) (*Config, error) {
	cfg := Default()

	var err error
	switch format {
	case "json":
		err = json.Unmarshal(data, cfg)
	default:
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// MatchAppRule returns the first app rule matching the given app name,
// window title, and accessibility role/subrole, in the order the rules
// appear in the config (first-match-wins). The second return value is
// false if no rule matches.
func MatchAppRule(rules []AppRule, appId, appName, title, axRole, axSubrole string) (AppRule, bool) {
	for _, rule := range rules {
		if matchesAppRule(rule, appId, appName, title, axRole, axSubrole) {
			return rule, true
		}
	}
	return AppRule{}, false
}

func matchesAppRule(rule AppRule, appId, appName, title, axRole, axSubrole string) bool {
	if rule.AppId != "" && rule.AppId == appId {
		return true
	}
	if rule.AppName != "" && rule.AppName == appName {
		return true
	}
	if rule.TitleSubstring != "" && containsFold(title, rule.TitleSubstring) {
		return true
	}
	if rule.TitleRegex != "" && matchesRegex(rule.TitleRegex, title) {
		return true
	}
	if rule.AXRole != "" && rule.AXRole == axRole {
		return true
	}
	if rule.AXSubrole != "" && rule.AXSubrole == axSubrole {
		return true
	}
	return false
}
