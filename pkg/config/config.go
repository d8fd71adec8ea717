//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

// Package config loads, validates and saves the editor settings.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/timburks/notopad/pkg/types"
)

// Font sizes, in points.
const (
	MinFontSize     = 8
	MaxFontSize     = 72
	DefaultFontSize = 12
)

// Themes
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Settings holds everything the user can configure.
type Settings struct {
	FontName         string        `mapstructure:"font_name" yaml:"font_name" json:"font_name"`
	FontSize         int           `mapstructure:"font_size" yaml:"font_size" json:"font_size"`
	Theme            string        `mapstructure:"theme" yaml:"theme" json:"theme"`
	LineNumbers      bool          `mapstructure:"line_numbers" yaml:"line_numbers" json:"line_numbers"`
	Highlighting     bool          `mapstructure:"highlighting" yaml:"highlighting" json:"highlighting"`
	TabWidth         int           `mapstructure:"tab_width" yaml:"tab_width" json:"tab_width"`
	AutoSave         bool          `mapstructure:"auto_save" yaml:"auto_save" json:"auto_save"`
	AutoSaveInterval time.Duration `mapstructure:"auto_save_interval" yaml:"auto_save_interval" json:"auto_save_interval"`
	SpellCheck       bool          `mapstructure:"spell_check" yaml:"spell_check" json:"spell_check"`
	Dictionary       string        `mapstructure:"dictionary" yaml:"dictionary" json:"dictionary"`
	DropDir          string        `mapstructure:"drop_dir" yaml:"drop_dir" json:"drop_dir"`
	WatchFile        bool          `mapstructure:"watch_file" yaml:"watch_file" json:"watch_file"`
	RecentFile       string        `mapstructure:"recent_file" yaml:"recent_file" json:"recent_file"`
	LogFile          string        `mapstructure:"log_file" yaml:"log_file" json:"log_file"`
	LogLevel         string        `mapstructure:"log_level" yaml:"log_level" json:"log_level"`

	path string // file the settings were read from and are saved to
}

// Dir returns the directory that holds the settings, the recent list and the log.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".notopad"), nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("font_name", "Courier")
	v.SetDefault("font_size", DefaultFontSize)
	v.SetDefault("theme", ThemeLight)
	v.SetDefault("line_numbers", true)
	v.SetDefault("highlighting", true)
	v.SetDefault("tab_width", 8)
	v.SetDefault("auto_save", true)
	v.SetDefault("auto_save_interval", 30*time.Second)
	v.SetDefault("spell_check", true)
	v.SetDefault("dictionary", "/usr/share/dict/words")
	v.SetDefault("drop_dir", "")
	v.SetDefault("watch_file", true)
	v.SetDefault("recent_file", filepath.Join(dir, "recent.yaml"))
	v.SetDefault("log_file", filepath.Join(dir, "notopad.log"))
	v.SetDefault("log_level", "info")
}

// Load reads settings from defaults, the config file and the environment.
// Precedence: env > config file > defaults. An empty cfgFile means
// ~/.notopad/config.yaml, which need not exist.
func Load(cfgFile string) (*Settings, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	v := viper.New()
	v.SetEnvPrefix("NOTOPAD")
	v.AutomaticEnv()
	setDefaults(v, dir)

	path := cfgFile
	if path == "" {
		path = filepath.Join(dir, "config.yaml")
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		// a missing file means defaults; it is created on save
		if _, statErr := os.Stat(path); statErr == nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	s.path = path
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &s, nil
}

// Default returns the default settings, saved nowhere.
func Default() *Settings {
	dir, err := Dir()
	if err != nil {
		dir = ".notopad"
	}
	v := viper.New()
	setDefaults(v, dir)
	var s Settings
	_ = v.Unmarshal(&s)
	return &s
}

func (s *Settings) Path() string {
	return s.path
}

// Validate checks that every setting has a usable value.
func (s *Settings) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.FontName, validation.Required, validation.In("Courier", "Helvetica", "Times", "Arial")),
		validation.Field(&s.FontSize, validation.Required, validation.Min(MinFontSize), validation.Max(MaxFontSize)),
		validation.Field(&s.Theme, validation.Required, validation.In(ThemeLight, ThemeDark)),
		validation.Field(&s.TabWidth, validation.Required, validation.Min(1), validation.Max(16)),
		validation.Field(&s.AutoSaveInterval, validation.Required, validation.Min(time.Second)),
		validation.Field(&s.LogLevel, validation.Required, validation.In("debug", "info", "warn", "error")),
	)
}

// Save writes the settings to the file they were loaded from.
func (s *Settings) Save() error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return &types.FileError{Op: "save", Path: s.path, Err: err}
	}
	b, err := yaml.Marshal(s)
	if err != nil {
		return &types.FileError{Op: "save", Path: s.path, Err: fmt.Errorf("marshal yaml: %w", err)}
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return &types.FileError{Op: "save", Path: s.path, Err: err}
	}
	return nil
}

// Set changes one setting by name, using the same conversions as the
// config file. The settings are unchanged if the result is invalid.
func (s *Settings) Set(key string, value string) error {
	b, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	current := make(map[string]any)
	if err := yaml.Unmarshal(b, &current); err != nil {
		return err
	}
	if _, ok := current[key]; !ok {
		return &types.InputError{Field: key, Reason: "unknown setting"}
	}
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(b)); err != nil {
		return err
	}
	v.Set(key, value)
	var updated Settings
	if err := v.Unmarshal(&updated); err != nil {
		return &types.InputError{Field: key, Reason: err.Error()}
	}
	if err := updated.Validate(); err != nil {
		return &types.InputError{Field: key, Reason: err.Error()}
	}
	updated.path = s.path
	*s = updated
	return nil
}

// Zoom changes the font size by delta points, within the allowed range.
// A zero delta restores the default size.
func (s *Settings) Zoom(delta int) int {
	if delta == 0 {
		s.FontSize = DefaultFontSize
	} else {
		s.FontSize = min(max(s.FontSize+delta, MinFontSize), MaxFontSize)
	}
	return s.FontSize
}
