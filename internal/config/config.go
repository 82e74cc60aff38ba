// Package config loads settings from embedded defaults, an optional config
// file, TOAST_* environment variables and flag overrides, in that order.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/idilsaglam/toast/internal/model"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

const envPrefix = "TOAST_"

// Config is the decoded configuration.
type Config struct {
	Timing Timing `koanf:"timing"`
	UI     UI     `koanf:"ui"`
	Server Server `koanf:"server"`
	Client Client `koanf:"client"`
	Log    Log    `koanf:"log"`
}

// Timing holds auto-dismiss durations used when a front-end creates a toast
// without an explicit duration. Zero means sticky.
type Timing struct {
	Default time.Duration `koanf:"default"`
	Info    time.Duration `koanf:"info"`
	Success time.Duration `koanf:"success"`
	Warning time.Duration `koanf:"warning"`
	Error   time.Duration `koanf:"error"`
}

type UI struct {
	Theme   string `koanf:"theme"`
	Visible int    `koanf:"visible"`
}

type Server struct {
	Listen string `koanf:"listen"`
	Token  string `koanf:"token"`
}

type Client struct {
	Addr string `koanf:"addr"`
}

type Log struct {
	File string `koanf:"file"`
}

// For returns the configured duration for a variant, falling back to Default.
func (t Timing) For(v model.Variant) time.Duration {
	var d time.Duration
	switch v {
	case model.VariantInfo:
		d = t.Info
	case model.VariantSuccess:
		d = t.Success
	case model.VariantWarning:
		d = t.Warning
	case model.VariantError:
		d = t.Error
	}
	if d <= 0 {
		return t.Default
	}
	return d
}

// Load builds the configuration. path may be empty, in which case the first
// of config.toml, config.yaml or config.yml under $XDG_CONFIG_HOME/toast is
// used if present. overrides are flat dotted keys (e.g. "server.listen")
// applied last; empty values are skipped.
func Load(path string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flat := nonEmpty(overrides); len(flat) > 0 {
		if err := k.Load(confmap.Provider(flat, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load overrides: %w", err)
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	for name, d := range map[string]time.Duration{
		"timing.default": c.Timing.Default,
		"timing.info":    c.Timing.Info,
		"timing.success": c.Timing.Success,
		"timing.warning": c.Timing.Warning,
		"timing.error":   c.Timing.Error,
	} {
		if d < 0 {
			return fmt.Errorf("invalid configuration: %s must not be negative, got %s", name, d)
		}
	}
	if c.UI.Visible < 1 {
		return fmt.Errorf("invalid configuration: ui.visible must be at least 1, got %d", c.UI.Visible)
	}
	return nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	}
	return nil, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
}

func findConfigFile() string {
	for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
		p, err := xdg.SearchConfigFile(filepath.Join("toast", name))
		if err == nil {
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}
	return ""
}

func nonEmpty(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		switch x := v.(type) {
		case nil:
			continue
		case string:
			if x == "" {
				continue
			}
		}
		out[k] = v
	}
	return out
}

// rawBytesProvider implements koanf.Provider for the embedded defaults.
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}
