// Package config loads evinspect settings: the embedded defaults merged with
// an optional user file.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/mabhi256/evinspect/internal/host"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// DefaultFile is picked up from the working directory when no --config is given
const DefaultFile = "evinspect.yaml"

// MaxFileSize bounds user config files
const MaxFileSize = 1 << 20

type Config struct {
	// Output is the default report format; empty means auto-detect
	Output string `yaml:"output" validate:"omitempty,oneof=cli tui html dot json"`

	NodeClick string `yaml:"node_click" validate:"required,oneof=ignore component gameobject"`

	LogLevel string `yaml:"log_level" validate:"required,oneof=debug info warn error"`

	Watch WatchConfig `yaml:"watch"`

	// Scripts maps MonoBehaviour script GUIDs to component kinds
	Scripts map[string]string `yaml:"scripts" validate:"required,dive,keys,guid32,endkeys,kind"`

	// EventHandlerScripts are user scripts treated as opaque event handlers
	EventHandlerScripts []string `yaml:"event_handler_scripts" validate:"dive,guid32"`
}

type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" validate:"gte=0,lte=10s"`
}

// Load returns the defaults merged with the user file at path. An empty path
// falls back to DefaultFile, which may be absent.
func Load(path string) (*Config, error) {
	cfg, err := Parse(defaultsYAML, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load built-in config: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
	case !explicit && errors.Is(err, fs.ErrNotExist):
		return cfg, nil
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("config %s exceeds maximum size (%d > %d)", path, len(data), MaxFileSize)
	}

	cfg, err = Parse(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	slog.Debug("config loaded",
		slog.String("path", path),
		slog.Int("scripts", len(cfg.Scripts)),
		slog.Int("event_handler_scripts", len(cfg.EventHandlerScripts)),
	)
	return cfg, nil
}

// Parse decodes data over base (or an empty config) and validates the result.
// Script maps are merged key by key; every other field is replaced when set.
func Parse(data []byte, base *Config) (*Config, error) {
	cfg := &Config{}
	if base != nil {
		*cfg = *base
		cfg.Scripts = maps.Clone(base.Scripts)
		cfg.EventHandlerScripts = append([]string(nil), base.EventHandlerScripts...)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	scripts := make(map[string]string, len(cfg.Scripts))
	for guid, kind := range cfg.Scripts {
		scripts[strings.ToLower(guid)] = kind
	}
	cfg.Scripts = scripts
	for i, guid := range cfg.EventHandlerScripts {
		cfg.EventHandlerScripts[i] = strings.ToLower(guid)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("guid32", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) != 32 {
			return false
		}
		for _, r := range s {
			if !strings.ContainsRune("0123456789abcdef", r) {
				return false
			}
		}
		return true
	})
	_ = v.RegisterValidation("kind", func(fl validator.FieldLevel) bool {
		k, err := host.ParseKind(fl.Field().String())
		return err == nil && k.Valid()
	})
	return v
}

// Validate checks field constraints and reports every failing field
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validation: %w", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("validation: %s", strings.Join(msgs, "; "))
}

// ScriptKinds resolves the script GUID table. Event handler scripts override
// built-in mappings.
func (c *Config) ScriptKinds() map[string]host.Kind {
	out := make(map[string]host.Kind, len(c.Scripts)+len(c.EventHandlerScripts))
	for guid, name := range c.Scripts {
		if k, err := host.ParseKind(name); err == nil {
			out[guid] = k
		}
	}
	for _, guid := range c.EventHandlerScripts {
		out[guid] = host.KindEventHandler
	}
	return out
}

// SlogLevel maps the configured level name onto slog
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
