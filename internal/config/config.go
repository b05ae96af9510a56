package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Color modes accepted by display.color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// API contains connection settings for the statistics backend.
type API struct {
	BaseURL        string `toml:"base_url"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Refresh contains the periodic timer intervals, in seconds.
type Refresh struct {
	ClockInterval int `toml:"clock_interval"`
	DataInterval  int `toml:"data_interval"`
}

// Display contains rendering and animation settings.
type Display struct {
	Locale          string `toml:"locale"`
	FrameRate       int    `toml:"frame_rate"`
	AnimationMillis int    `toml:"animation_ms"`
	BannerSeconds   int    `toml:"banner_seconds"`
	Color           string `toml:"color"`
}

// Export contains configuration for SVG chart snapshots.
type Export struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Dir    string `toml:"dir"`
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for epidash.
//
// Configuration sections by subsystem:
//   - API: statistics backend location and request timeout
//   - Refresh: clock and dataset reload intervals
//   - Display: locale, frame rate, counter animation, error banners, colour
//   - Export: SVG chart snapshots written after each refresh
//   - Logging: log directory, format, and level
type Config struct {
	API     API     `toml:"api"`
	Refresh Refresh `toml:"refresh"`
	Display Display `toml:"display"`
	Export  Export  `toml:"export"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/epidash/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("epidash.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log directory and, when exports are enabled,
// the chart export directory.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Logging.Dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Logging.Dir, err)
	}
	if c.Export.Enabled {
		if err := os.MkdirAll(c.Export.Dir, 0o755); err != nil {
			return fmt.Errorf("create export directory %q: %w", c.Export.Dir, err)
		}
	}
	return nil
}

// RequestTimeout returns the per-request HTTP timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.API.RequestTimeout) * time.Second
}

// ClockInterval returns the period between clock display updates.
func (c *Config) ClockInterval() time.Duration {
	return time.Duration(c.Refresh.ClockInterval) * time.Second
}

// DataInterval returns the period between full dataset reloads.
func (c *Config) DataInterval() time.Duration {
	return time.Duration(c.Refresh.DataInterval) * time.Second
}

// AnimationDuration returns how long counters and chart transitions animate.
func (c *Config) AnimationDuration() time.Duration {
	return time.Duration(c.Display.AnimationMillis) * time.Millisecond
}

// BannerTTL returns how long an error banner stays on screen.
func (c *Config) BannerTTL() time.Duration {
	return time.Duration(c.Display.BannerSeconds) * time.Second
}

// FrameInterval returns the period of one rendering frame.
func (c *Config) FrameInterval() time.Duration {
	if c.Display.FrameRate <= 0 {
		return time.Second / defaultFrameRate
	}
	return time.Second / time.Duration(c.Display.FrameRate)
}

// LogPath returns the dashboard log file location.
func (c *Config) LogPath() string {
	return filepath.Join(c.Logging.Dir, "epidash.log")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
