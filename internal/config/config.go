package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

type ParticleMode string

const (
	ParticleModeOff   ParticleMode = "off"
	ParticleModeRain  ParticleMode = "rain"
	ParticleModeStars ParticleMode = "stars"
)

type Config struct {
	API      APIConfig      `toml:"api"`
	Timeline TimelineConfig `toml:"timeline"`
	UI       UIConfig       `toml:"ui"`
	Logging  LoggingConfig  `toml:"logging"`
}

type APIConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	PageSize       int    `toml:"page_size"`
}

type TimelineConfig struct {
	ZoomMin     int `toml:"zoom_min"`
	ZoomMax     int `toml:"zoom_max"`
	DefaultZoom int `toml:"default_zoom"`
	TickSpacing int `toml:"tick_spacing"`
}

type UIConfig struct {
	Particles ParticleMode `toml:"particles"`
	Theme     string       `toml:"theme"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL:        "http://localhost:5094",
			TimeoutSeconds: 30,
			PageSize:       100,
		},
		Timeline: TimelineConfig{
			ZoomMin:     1,
			ZoomMax:     30,
			DefaultZoom: 1,
			TickSpacing: 8,
		},
		UI: UIConfig{
			Particles: ParticleModeRain,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("api.base_url is required")
	}
	if c.API.TimeoutSeconds < 1 || c.API.TimeoutSeconds > 600 {
		return fmt.Errorf("api.timeout_seconds must be between 1 and 600, got %d", c.API.TimeoutSeconds)
	}
	if c.API.PageSize < 1 || c.API.PageSize > 500 {
		return fmt.Errorf("api.page_size must be between 1 and 500, got %d", c.API.PageSize)
	}

	if c.Timeline.ZoomMin < 1 {
		return fmt.Errorf("timeline.zoom_min must be >= 1, got %d", c.Timeline.ZoomMin)
	}
	if c.Timeline.ZoomMax > 365 {
		return fmt.Errorf("timeline.zoom_max must be <= 365, got %d", c.Timeline.ZoomMax)
	}
	if c.Timeline.ZoomMin > c.Timeline.ZoomMax {
		return fmt.Errorf("timeline.zoom_min %d exceeds timeline.zoom_max %d", c.Timeline.ZoomMin, c.Timeline.ZoomMax)
	}
	if c.Timeline.DefaultZoom < c.Timeline.ZoomMin || c.Timeline.DefaultZoom > c.Timeline.ZoomMax {
		return fmt.Errorf("timeline.default_zoom must be between %d and %d, got %d",
			c.Timeline.ZoomMin, c.Timeline.ZoomMax, c.Timeline.DefaultZoom)
	}
	if c.Timeline.TickSpacing < 4 || c.Timeline.TickSpacing > 40 {
		return fmt.Errorf("timeline.tick_spacing must be between 4 and 40, got %d", c.Timeline.TickSpacing)
	}

	switch ParticleMode(strings.TrimSpace(strings.ToLower(string(c.UI.Particles)))) {
	case "", ParticleModeOff, ParticleModeRain, ParticleModeStars:
	default:
		return fmt.Errorf("invalid ui.particles: %q", c.UI.Particles)
	}

	switch strings.TrimSpace(strings.ToLower(c.Logging.Level)) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}

	return nil
}

// Timeout returns the API timeout as a duration.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
