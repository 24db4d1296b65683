/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	applog "layoutbounds/internal/log"
	"layoutbounds/internal/manip"
)

// AppConfig is the user configuration persisted as YAML in the user config
// directory. Environment variables override it at runtime and are never
// written back.
//
// config_version: bump when the structure changes incompatibly.

type HandlesConfig struct {
	HoverRadius  float64 `yaml:"hover_radius"`  // pixels
	CornerRadius float64 `yaml:"corner_radius"` // pixels
}

type SnappingConfig struct {
	Enabled            bool    `yaml:"enabled"`
	Threshold          float64 `yaml:"threshold"`           // pixels
	DirectionTolerance float64 `yaml:"direction_tolerance"` // degrees
	Reach              float64 `yaml:"reach"`               // world units
}

type AspectConfig struct {
	Locked bool `yaml:"locked"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int            `yaml:"config_version"`
	Handles       HandlesConfig  `yaml:"handles"`
	Snapping      SnappingConfig `yaml:"snapping"`
	Aspect        AspectConfig   `yaml:"aspect"`
	Logging       LoggingConfig  `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	pick := manip.DefaultPickOptions()
	tool := manip.DefaultOptions()
	return AppConfig{
		ConfigVersion: 1,
		Handles:       HandlesConfig{HoverRadius: pick.HoverRadius, CornerRadius: pick.CornerRadius},
		Snapping: SnappingConfig{
			Enabled:            tool.SnapEnabled,
			Threshold:          tool.SnapThreshold,
			DirectionTolerance: tool.DirectionTolerance,
		},
		Aspect:  AspectConfig{Locked: tool.AspectLocked},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvConfig             = "LBH_CONFIG"
	EnvHoverRadius        = "LBH_HOVER_RADIUS"
	EnvCornerRadius       = "LBH_CORNER_RADIUS"
	EnvSnapEnabled        = "LBH_SNAP_ENABLED"
	EnvSnapThreshold      = "LBH_SNAP_THRESHOLD"
	EnvSnapReach          = "LBH_SNAP_REACH"
	EnvDirectionTolerance = "LBH_DIRECTION_TOLERANCE"
	EnvAspectLocked       = "LBH_ASPECT_LOCKED"
	// logging envs are shared with the log package
	EnvLogLevel  = applog.EnvLevel
	EnvLogFormat = applog.EnvFormat
	EnvLogSource = applog.EnvSource
	EnvLogFile   = applog.EnvFile
)

// ConfigPath returns the config file path: $LBH_CONFIG if set, otherwise
// layoutbounds/config.yaml under the user config directory.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfig)); p != "" {
		return p, nil
	}
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "layoutbounds", "config.yaml"), nil
}

// Load reads the user config file, if any, and applies environment overrides.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Defaults()
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	return LoadFrom(path)
}

// LoadFrom reads path on top of the defaults and applies environment
// overrides. A missing file is not an error; a malformed one is.
func LoadFrom(path string) (AppConfig, error) {
	cfg, err := LoadStored(path)
	if err != nil {
		return cfg, err
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// LoadStored reads path on top of the defaults without environment overrides.
func LoadStored(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		// unset keys keep their defaults
		fileCfg := Defaults()
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return Defaults(), fmt.Errorf("parse config %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	}
	return cfg, nil
}

// Save writes cfg to ConfigPath.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo writes cfg as YAML to path, creating the directory.
func SaveTo(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg AppConfig) ([]byte, error) { return yaml.Marshal(cfg) }

// mergeInto copies the usable values of src over dst. Negative distances and
// out-of-range tolerances are ignored.
func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.Handles.HoverRadius >= 0 {
		dst.Handles.HoverRadius = src.Handles.HoverRadius
	}
	if src.Handles.CornerRadius >= 0 {
		dst.Handles.CornerRadius = src.Handles.CornerRadius
	}
	dst.Snapping.Enabled = src.Snapping.Enabled
	if src.Snapping.Threshold >= 0 {
		dst.Snapping.Threshold = src.Snapping.Threshold
	}
	if src.Snapping.DirectionTolerance >= 0 && src.Snapping.DirectionTolerance <= 90 {
		dst.Snapping.DirectionTolerance = src.Snapping.DirectionTolerance
	}
	if src.Snapping.Reach >= 0 {
		dst.Snapping.Reach = src.Snapping.Reach
	}
	dst.Aspect.Locked = src.Aspect.Locked
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	envFloat(EnvHoverRadius, &cfg.Handles.HoverRadius)
	envFloat(EnvCornerRadius, &cfg.Handles.CornerRadius)
	envBool(EnvSnapEnabled, &cfg.Snapping.Enabled)
	envFloat(EnvSnapThreshold, &cfg.Snapping.Threshold)
	envFloat(EnvSnapReach, &cfg.Snapping.Reach)
	var tol float64
	if envFloat(EnvDirectionTolerance, &tol) && tol <= 90 {
		cfg.Snapping.DirectionTolerance = tol
	}
	envBool(EnvAspectLocked, &cfg.Aspect.Locked)

	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	envBool(EnvLogSource, &cfg.Logging.Source)
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// envFloat sets *dst from a non-negative number in key.
func envFloat(key string, dst *float64) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return false
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || n < 0 {
		return false
	}
	*dst = n
	return true
}

func envBool(key string, dst *bool) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		lv := strings.ToLower(v)
		*dst = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
}

var envKeys = map[string]string{
	"handles.hover_radius":         EnvHoverRadius,
	"handles.corner_radius":        EnvCornerRadius,
	"snapping.enabled":             EnvSnapEnabled,
	"snapping.threshold":           EnvSnapThreshold,
	"snapping.direction_tolerance": EnvDirectionTolerance,
	"snapping.reach":               EnvSnapReach,
	"aspect.locked":                EnvAspectLocked,
	"logging.level":                EnvLogLevel,
	"logging.format":               EnvLogFormat,
	"logging.source":               EnvLogSource,
	"logging.file":                 EnvLogFile,
}

// Keys returns the dotted config keys that have an environment override, sorted.
func Keys() []string {
	out := make([]string, 0, len(envKeys))
	for k := range envKeys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// EnvOverrideFor returns the env var name if the field is overridden by the environment.
func EnvOverrideFor(key string) (string, bool) {
	env, ok := envKeys[key]
	if !ok || os.Getenv(env) == "" {
		return "", false
	}
	return env, true
}

// ToolOptions maps the configuration onto the manipulation tool options.
func (c AppConfig) ToolOptions() manip.Options {
	o := manip.DefaultOptions()
	o.Pick.HoverRadius = c.Handles.HoverRadius
	o.Pick.CornerRadius = c.Handles.CornerRadius
	o.Pick.CursorTolerance = c.Snapping.DirectionTolerance
	o.SnapEnabled = c.Snapping.Enabled
	o.SnapThreshold = c.Snapping.Threshold
	o.DirectionTolerance = c.Snapping.DirectionTolerance
	o.AspectLocked = c.Aspect.Locked
	return o
}

// LogOptions maps the logging section onto the logger options.
func (c AppConfig) LogOptions() applog.Options {
	return applog.Options{
		Level:     c.Logging.Level,
		Format:    c.Logging.Format,
		AddSource: c.Logging.Source,
		File:      c.Logging.File,
	}
}
