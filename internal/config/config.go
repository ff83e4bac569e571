// Package config loads palmdrive's YAML configuration.
//
// Defaults reproduce the plain controller: camera 0, a mirrored debug window,
// right/left arrow keys and 'q' to quit. A config file and command-line flags
// are layered on top, in that order, and the result is validated once.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/palmdrive/internal/actuator"
	"github.com/ayusman/palmdrive/internal/detector"
	"github.com/ayusman/palmdrive/internal/display"
)

// Config is the top-level YAML configuration.
type Config struct {
	Camera   CameraConfig   `yaml:"camera"`
	Detector DetectorConfig `yaml:"detector"`
	Keys     KeysConfig     `yaml:"keys"`
	Actuator ActuatorConfig `yaml:"actuator"`
	Display  DisplayConfig  `yaml:"display"`
	Journal  JournalConfig  `yaml:"journal"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type CameraConfig struct {
	Device int  `yaml:"device"`
	Width  int  `yaml:"width"`  // 0 keeps the native resolution
	Height int  `yaml:"height"` // 0 keeps the native resolution
	Mirror bool `yaml:"mirror"`
}

type DetectorConfig struct {
	MaxHands               int     `yaml:"max_hands"`
	MinDetectionConfidence float64 `yaml:"min_detection_confidence"`
	MinTrackingConfidence  float64 `yaml:"min_tracking_confidence"`
	Python                 string  `yaml:"python"`
	Script                 string  `yaml:"script"`
}

type KeysConfig struct {
	Gas   string `yaml:"gas"`
	Brake string `yaml:"brake"`
	Quit  string `yaml:"quit"`
}

type ActuatorConfig struct {
	Backend   string `yaml:"backend"`
	PluginDir string `yaml:"plugin_dir"`
	Plugin    string `yaml:"plugin"`
	TimeoutMS int    `yaml:"timeout_ms"`
}

type DisplayConfig struct {
	Window bool   `yaml:"window"`
	Title  string `yaml:"title"`
}

type JournalConfig struct {
	Path string `yaml:"path"` // empty disables the journal
}

type ServerConfig struct {
	Listen string `yaml:"listen"` // empty disables the status server
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a fully-populated Config with defaults.
func DefaultConfig() Config {
	det := detector.DefaultConfig()
	keys := actuator.DefaultKeys()

	return Config{
		Camera: CameraConfig{
			Device: 0,
			Mirror: true,
		},
		Detector: DetectorConfig{
			MaxHands:               det.MaxHands,
			MinDetectionConfidence: det.MinConfidence,
			MinTrackingConfidence:  det.MinTrackingConf,
		},
		Keys: KeysConfig{
			Gas:   keys.Gas,
			Brake: keys.Brake,
			Quit:  "q",
		},
		Actuator: ActuatorConfig{
			Backend:   actuator.BackendRobotgo,
			PluginDir: "~/.palmdrive/plugins",
			Plugin:    "keyboard",
			TimeoutMS: 2000,
		},
		Display: DisplayConfig{
			Window: true,
			Title:  display.DefaultTitle,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFile reads and parses a YAML config file on top of DefaultConfig.
// Unknown fields are rejected.
func LoadFile(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config path is empty")
	}
	b, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML on top of DefaultConfig.
func Parse(b []byte) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("decode config yaml: %w", err)
	}

	// Only whitespace and comments may follow the document.
	if err := dec.Decode(&struct{}{}); err == nil {
		return Config{}, errors.New("decode config yaml: unexpected trailing document")
	}

	return cfg, nil
}

// FlagOverrides holds values from command-line flags. A nil pointer means the
// flag was not given; a non-nil pointer is applied even if it is a zero value.
type FlagOverrides struct {
	Camera   *int
	GasKey   *string
	BrakeKey *string
	QuitKey  *string
	Actuator *string
	Headless *bool
	Journal  *string
	Listen   *string
	LogLevel *string
}

// Apply merges the overrides into cfg.
func (o FlagOverrides) Apply(cfg *Config) {
	if cfg == nil {
		return
	}
	if o.Camera != nil {
		cfg.Camera.Device = *o.Camera
	}
	if o.GasKey != nil {
		cfg.Keys.Gas = *o.GasKey
	}
	if o.BrakeKey != nil {
		cfg.Keys.Brake = *o.BrakeKey
	}
	if o.QuitKey != nil {
		cfg.Keys.Quit = *o.QuitKey
	}
	if o.Actuator != nil {
		cfg.Actuator.Backend = *o.Actuator
	}
	if o.Headless != nil {
		cfg.Display.Window = !*o.Headless
	}
	if o.Journal != nil {
		cfg.Journal.Path = *o.Journal
	}
	if o.Listen != nil {
		cfg.Server.Listen = *o.Listen
	}
	if o.LogLevel != nil {
		cfg.Logging.Level = *o.LogLevel
	}
}

// Validate checks config invariants and returns a user-friendly error.
// Call it after defaults, file and overrides are applied.
func (c *Config) Validate() error {
	if c.Camera.Device < 0 {
		return errors.New("camera.device must be >= 0")
	}
	if c.Camera.Width < 0 || c.Camera.Height < 0 {
		return errors.New("camera.width and camera.height must be >= 0")
	}
	if (c.Camera.Width == 0) != (c.Camera.Height == 0) {
		return errors.New("camera.width and camera.height must be set together")
	}

	if c.Detector.MaxHands < 1 {
		return errors.New("detector.max_hands must be >= 1")
	}
	if !unit(c.Detector.MinDetectionConfidence) {
		return errors.New("detector.min_detection_confidence must be between 0 and 1")
	}
	if !unit(c.Detector.MinTrackingConfidence) {
		return errors.New("detector.min_tracking_confidence must be between 0 and 1")
	}

	if c.Keys.Gas == "" {
		return errors.New("keys.gas must not be empty")
	}
	if c.Keys.Brake == "" {
		return errors.New("keys.brake must not be empty")
	}
	if c.Keys.Gas == c.Keys.Brake {
		return fmt.Errorf("keys.gas and keys.brake must differ (both %q)", c.Keys.Gas)
	}
	if len(c.Keys.Quit) != 1 {
		return fmt.Errorf("keys.quit must be a single character, got %q", c.Keys.Quit)
	}

	switch c.Actuator.Backend {
	case actuator.BackendRobotgo, actuator.BackendLog:
	case actuator.BackendUinput:
		for _, k := range []string{c.Keys.Gas, c.Keys.Brake} {
			if _, ok := actuator.KeyCode(k); !ok {
				return fmt.Errorf("key %q is not supported by the uinput backend", k)
			}
		}
	case actuator.BackendPlugin:
		if c.Actuator.PluginDir == "" {
			return errors.New("actuator.plugin_dir must not be empty for the plugin backend")
		}
		if c.Actuator.Plugin == "" {
			return errors.New("actuator.plugin must not be empty for the plugin backend")
		}
	default:
		return fmt.Errorf("actuator.backend must be one of %v, got %q", actuator.Backends, c.Actuator.Backend)
	}
	if c.Actuator.TimeoutMS <= 0 {
		return errors.New("actuator.timeout_ms must be > 0")
	}

	if c.Logging.Level == "" {
		return errors.New("logging.level must not be empty")
	}

	return nil
}

// QuitKey returns the quit key as a byte. Validate guarantees it is one character.
func (c *Config) QuitKey() byte {
	if c.Keys.Quit == "" {
		return 'q'
	}
	return c.Keys.Quit[0]
}

// ActuatorKeys returns the gas and brake bindings.
func (c *Config) ActuatorKeys() actuator.Keys {
	return actuator.Keys{Gas: c.Keys.Gas, Brake: c.Keys.Brake}
}

// DetectorConfig converts the detector section.
func (c *Config) DetectorConfig() detector.Config {
	return detector.Config{
		MaxHands:        c.Detector.MaxHands,
		MinConfidence:   c.Detector.MinDetectionConfidence,
		MinTrackingConf: c.Detector.MinTrackingConfidence,
		Python:          ExpandPath(c.Detector.Python),
		Script:          ExpandPath(c.Detector.Script),
	}
}

// ActuatorOptions converts the actuator section.
func (c *Config) ActuatorOptions() actuator.Options {
	return actuator.Options{
		Backend:   c.Actuator.Backend,
		PluginDir: ExpandPath(c.Actuator.PluginDir),
		Plugin:    c.Actuator.Plugin,
		Timeout:   time.Duration(c.Actuator.TimeoutMS) * time.Millisecond,
	}
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}

// ExpandPath expands a leading "~" in a path using $HOME.
func ExpandPath(p string) string {
	if p == "" {
		return p
	}
	if p[0] != '~' {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	if len(p) >= 2 && (p[1] == '/' || p[1] == '\\') {
		return filepath.Join(home, p[2:])
	}
	return p
}
