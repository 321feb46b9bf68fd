// Package config loads the kblayout TOML configuration.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/pelletier/go-toml"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"kblayout/notify"
	"kblayout/scancodes"
	"kblayout/xkb"
)

//go:embed default.toml
var defaultToml []byte

const (
	SourceCommand = "command"
	SourceFile    = "file"

	BusSession = "session"
	BusSystem  = "system"
	BusNone    = "none"
)

var knownSignals = map[string]notify.Signal{
	"gnome": notify.GNOMEInputSources,
	"kde":   notify.KDELayouts,
}

type Config struct {
	Keys   []string     `toml:"keys"`
	Source SourceConfig `toml:"source"`
	Notify NotifyConfig `toml:"notify"`
	Log    LogConfig    `toml:"log"`
}

type SourceConfig struct {
	Kind          string `toml:"kind"`
	KeymapCommand string `toml:"keymap_command"`
	GroupCommand  string `toml:"group_command"`
	File          string `toml:"file"`
	Group         int    `toml:"group"`
	AnyGroup      bool   `toml:"any_group"`
	Shell         bool   `toml:"shell"`
	Timeout       string `toml:"timeout"`
}

type NotifyConfig struct {
	Window  string   `toml:"window"`
	Files   []string `toml:"files"`
	DBus    string   `toml:"dbus"`
	Signals []string `toml:"signals"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the embedded configuration.
func Default() *Config {
	c, err := parse(defaultToml)
	if err != nil {
		panic(fmt.Errorf("embedded config: %w", err))
	}
	return c
}

// Load reads path. A missing or unreadable file falls back to the defaults;
// a file that does not parse or validate is an error.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Config error: unable to read config file")
		log.Warn().Msg("* Using defaults!")
		return Default(), nil
	}
	c, err := parse(data)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unable to parse config file %s", path)).
			WithCause(err)
	}
	return c, nil
}

func parse(data []byte) (*Config, error) {
	c := &Config{}
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Source.Kind == "" {
		c.Source.Kind = SourceCommand
	}
	if c.Source.KeymapCommand == "" {
		c.Source.KeymapCommand = xkb.DefaultKeymapCommand
	}
	if c.Source.Timeout == "" {
		c.Source.Timeout = xkb.DefaultTimeout.String()
	}
	if c.Notify.Window == "" {
		c.Notify.Window = notify.DefaultWindow.String()
	}
	if c.Notify.DBus == "" {
		c.Notify.DBus = BusSession
	}
	if c.Notify.Signals == nil {
		c.Notify.Signals = []string{"gnome", "kde"}
	}
	if c.Log.Level == "" {
		c.Log.Level = zerolog.WarnLevel.String()
	}
}

func invalid(msg string, cause error) error {
	b := errbuilder.New().WithCode(errbuilder.CodeInvalidArgument).WithMsg(msg)
	if cause != nil {
		b = b.WithCause(cause)
	}
	return b
}

// Validate checks every value a component will later interpret.
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case SourceCommand:
	case SourceFile:
		if c.Source.File == "" {
			return invalid("source.file is required when source.kind is \"file\"", nil)
		}
	default:
		return invalid(fmt.Sprintf("source.kind %q: want %q or %q", c.Source.Kind, SourceCommand, SourceFile), nil)
	}
	if c.Source.Group < 0 {
		return invalid(fmt.Sprintf("source.group %d is negative", c.Source.Group), nil)
	}
	if d, err := time.ParseDuration(c.Source.Timeout); err != nil || d <= 0 {
		return invalid(fmt.Sprintf("source.timeout %q", c.Source.Timeout), err)
	}
	if d, err := time.ParseDuration(c.Notify.Window); err != nil || d < 0 {
		return invalid(fmt.Sprintf("notify.window %q", c.Notify.Window), err)
	}
	if !slices.Contains([]string{BusSession, BusSystem, BusNone}, c.Notify.DBus) {
		return invalid(fmt.Sprintf("notify.dbus %q: want session, system or none", c.Notify.DBus), nil)
	}
	if c.Notify.DBus != BusNone && len(c.Notify.Signals) == 0 {
		return invalid("notify.signals is empty; set notify.dbus = \"none\" to ignore D-Bus", nil)
	}
	for _, name := range c.Notify.Signals {
		if _, ok := knownSignals[name]; !ok {
			return invalid(fmt.Sprintf("notify.signals: unknown signal %q", name), nil)
		}
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return invalid(fmt.Sprintf("log.level %q", c.Log.Level), err)
	}
	if _, err := scancodes.Default().Select(c.Keys...); err != nil {
		return invalid("keys", err)
	}
	return nil
}

// TimeoutDuration is the limit for one run of the source commands.
func (s SourceConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(s.Timeout)
	return d
}

func (n NotifyConfig) WindowDuration() time.Duration {
	d, _ := time.ParseDuration(n.Window)
	return d
}

// DBusSignals returns the configured signal matchers.
func (n NotifyConfig) DBusSignals() []notify.Signal {
	out := make([]notify.Signal, 0, len(n.Signals))
	for _, name := range n.Signals {
		out = append(out, knownSignals[name])
	}
	return out
}

// ParsedLevel returns the configured log level, warn if unset.
func (l LogConfig) ParsedLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(l.Level)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.WarnLevel
	}
	return lvl
}

// Table returns the key table to resolve.
func (c *Config) Table() scancodes.Table {
	if len(c.Keys) == 0 {
		return scancodes.Default()
	}
	t, _ := scancodes.Default().Select(c.Keys...)
	return t
}
