// Package config loads pager settings from YAML with environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/headroom-pager/internal/gpio"
	"github.com/sweeney/headroom-pager/internal/logic"
)

// Sink names accepted in events.sink.
const (
	SinkMQTT = "mqtt"
	SinkNATS = "nats"
	SinkNone = "none"
)

type Config struct {
	Headroom HeadroomConfig `yaml:"headroom"`
	Pager    PagerConfig    `yaml:"pager"`
	GPIO     GPIOConfig     `yaml:"gpio"`
	Events   EventsConfig   `yaml:"events"`
	HTTP     HTTPConfig     `yaml:"http"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type HeadroomConfig struct {
	AlwaysPinned  bool    `yaml:"always_pinned"`
	DownTolerance float64 `yaml:"down_tolerance"`
	UpTolerance   float64 `yaml:"up_tolerance"`
	PinStart      float64 `yaml:"pin_start"`
	Footer        bool    `yaml:"footer"`
	Disable       bool    `yaml:"disable"`
}

type PagerConfig struct {
	FrameMs    int    `yaml:"frame_ms"`
	ScrollStep int    `yaml:"scroll_step"`
	Title      string `yaml:"title"`
}

type GPIOConfig struct {
	Enabled bool   `yaml:"enabled"`
	Chip    string `yaml:"chip"`
	PinUp   int    `yaml:"pin_up"`
	PinDown int    `yaml:"pin_down"`
	PollMs  int    `yaml:"poll_ms"`
}

type EventsConfig struct {
	Sink        string `yaml:"sink"`
	Broker      string `yaml:"broker"`
	NATSURL     string `yaml:"nats_url"`
	HeartbeatMs int    `yaml:"heartbeat_ms"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Decision returns the engine thresholds.
func (c *Config) Decision() logic.Config {
	return logic.Config{
		UpTolerance:   c.Headroom.UpTolerance,
		DownTolerance: c.Headroom.DownTolerance,
		PinStart:      c.Headroom.PinStart,
		AlwaysPinned:  c.Headroom.AlwaysPinned,
		Footer:        c.Headroom.Footer,
	}
}

func (c *Config) Frame() time.Duration {
	return time.Duration(c.Pager.FrameMs) * time.Millisecond
}

func (c *Config) ButtonPoll() time.Duration {
	return time.Duration(c.GPIO.PollMs) * time.Millisecond
}

func (c *Config) Heartbeat() time.Duration {
	return time.Duration(c.Events.HeartbeatMs) * time.Millisecond
}

// BrokerURL returns the address of the configured sink, or "" for none.
func (c *Config) BrokerURL() string {
	switch c.Events.Sink {
	case SinkMQTT:
		return c.Events.Broker
	case SinkNATS:
		return c.Events.NATSURL
	default:
		return ""
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	d := logic.DefaultConfig()
	return &Config{
		Headroom: HeadroomConfig{
			AlwaysPinned:  d.AlwaysPinned,
			DownTolerance: d.DownTolerance,
			UpTolerance:   d.UpTolerance,
			PinStart:      d.PinStart,
			Footer:        d.Footer,
		},
		Pager: PagerConfig{
			FrameMs:    16,
			ScrollStep: 3,
		},
		GPIO: GPIOConfig{
			Chip:    gpio.DefaultChip,
			PinUp:   gpio.DefaultPinUp,
			PinDown: gpio.DefaultPinDown,
			PollMs:  20,
		},
		Events: EventsConfig{
			Sink:        SinkNone,
			Broker:      "tcp://localhost:1883",
			NATSURL:     "nats://localhost:4222",
			HeartbeatMs: 15 * 60 * 1000,
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			File:   "headroom-pager.log",
		},
	}
}

// Load reads path (if non-empty) over the defaults, applies HEADROOM_*
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks thresholds and host settings.
func (c *Config) Validate() error {
	if err := c.Decision().Validate(); err != nil {
		return fmt.Errorf("headroom: %w", err)
	}
	if c.Pager.FrameMs <= 0 {
		return fmt.Errorf("pager.frame_ms must be > 0, got %d", c.Pager.FrameMs)
	}
	if c.Pager.ScrollStep <= 0 {
		return fmt.Errorf("pager.scroll_step must be > 0, got %d", c.Pager.ScrollStep)
	}
	if c.GPIO.Enabled && c.GPIO.PollMs <= 0 {
		return fmt.Errorf("gpio.poll_ms must be > 0, got %d", c.GPIO.PollMs)
	}
	switch c.Events.Sink {
	case SinkMQTT, SinkNATS, SinkNone:
	default:
		return fmt.Errorf("events.sink must be one of mqtt, nats, none; got %q", c.Events.Sink)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format must be json or text, got %q", c.Logging.Format)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	floats := map[string]*float64{
		"HEADROOM_UP_TOLERANCE":   &cfg.Headroom.UpTolerance,
		"HEADROOM_DOWN_TOLERANCE": &cfg.Headroom.DownTolerance,
		"HEADROOM_PIN_START":      &cfg.Headroom.PinStart,
	}
	for key, dst := range floats {
		if v := os.Getenv(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = f
		}
	}

	bools := map[string]*bool{
		"HEADROOM_ALWAYS_PINNED": &cfg.Headroom.AlwaysPinned,
		"HEADROOM_FOOTER":        &cfg.Headroom.Footer,
		"HEADROOM_DISABLE":       &cfg.Headroom.Disable,
		"HEADROOM_GPIO_ENABLED":  &cfg.GPIO.Enabled,
	}
	for key, dst := range bools {
		if v := os.Getenv(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = b
		}
	}

	if v := os.Getenv("HEADROOM_SINK"); v != "" {
		cfg.Events.Sink = v
	}
	if v := os.Getenv("HEADROOM_MQTT_BROKER"); v != "" {
		cfg.Events.Broker = v
	}
	if v := os.Getenv("HEADROOM_NATS_URL"); v != "" {
		cfg.Events.NATSURL = v
	}
	if v := os.Getenv("HEADROOM_HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("HEADROOM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	return nil
}
