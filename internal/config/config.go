package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultModel  = "gemini-2.5-flash-image"
	DefaultPrompt = "Remove all watermarks, logos, timestamps, and text overlays from this image. " +
		"Reconstruct the background behind them seamlessly to look natural. " +
		"Do not alter the main subject or the overall style of the image. Output only the modified image."
)

type Config struct {
	Editor   EditorConfig   `mapstructure:"editor"`
	Window   WindowConfig   `mapstructure:"window"`
	Download DownloadConfig `mapstructure:"download"`
	Log      LogConfig      `mapstructure:"log"`
}

type EditorConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	Model          string        `mapstructure:"model"`
	Prompt         string        `mapstructure:"prompt"`
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type WindowConfig struct {
	Width  float32 `mapstructure:"width"`
	Height float32 `mapstructure:"height"`
}

type DownloadConfig struct {
	MatchSourceSize bool `mapstructure:"match_source_size"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads the optional YAML file at path, overlays environment variables
// and returns the validated Config. An empty path searches for
// clearview.yaml in the working directory and $HOME/.config/clearview; a
// missing file there is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// CLEARVIEW_EDITOR_MODEL -> editor.model
	v.SetEnvPrefix("clearview")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("editor.api_key", "CLEARVIEW_EDITOR_API_KEY", "GEMINI_API_KEY", "API_KEY"); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("clearview")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/clearview")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("editor.api_key", "")
	v.SetDefault("editor.model", DefaultModel)
	v.SetDefault("editor.prompt", DefaultPrompt)
	v.SetDefault("editor.base_url", "")
	v.SetDefault("editor.request_timeout", 2*time.Minute)
	v.SetDefault("window.width", 1100)
	v.SetDefault("window.height", 800)
	v.SetDefault("download.match_source_size", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Validate rejects values the application cannot run with. A missing API
// key is allowed here; the editor reports it when a request is made.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Editor.Model) == "" {
		return errors.New("editor.model must not be empty")
	}
	if c.Editor.RequestTimeout <= 0 {
		return fmt.Errorf("editor.request_timeout must be positive, got %s", c.Editor.RequestTimeout)
	}
	if c.Window.Width < 400 || c.Window.Height < 300 {
		return fmt.Errorf("window size %.0fx%.0f is below the 400x300 minimum", c.Window.Width, c.Window.Height)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}
