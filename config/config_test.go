package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kblayout/notify"
	"kblayout/scancodes"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kblayout.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	want := &Config{
		Source: SourceConfig{
			Kind:          SourceCommand,
			KeymapCommand: "xkbcomp -xkb $DISPLAY -",
			Timeout:       "2s",
		},
		Notify: NotifyConfig{
			Window:  "50ms",
			DBus:    BusSession,
			Signals: []string{"gnome", "kde"},
		},
		Log: LogConfig{Level: "warn"},
	}
	if diff := cmp.Diff(want, c, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Default() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2*time.Second, c.Source.TimeoutDuration())
	assert.Equal(t, notify.DefaultWindow, c.Notify.WindowDuration())
	assert.Equal(t, []notify.Signal{notify.GNOMEInputSources, notify.KDELayouts}, c.Notify.DBusSignals())
	assert.Equal(t, zerolog.WarnLevel, c.Log.ParsedLevel())
	assert.Len(t, c.Table(), len(scancodes.Default()))
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	c, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoad(t *testing.T) {
	c, err := Load(writeConfig(t, `
keys = ["KeyA", "Escape", "KeyQ"]

[source]
kind = "file"
file = "/etc/kblayout/keymap.xkb"
group = 1
any_group = true
shell = true

[notify]
window = "0s"
files = ["/etc/kblayout/keymap.xkb"]
dbus = "none"
signals = []

[log]
level = "debug"
`))
	require.NoError(t, err)
	assert.Equal(t, SourceFile, c.Source.Kind)
	assert.Equal(t, 1, c.Source.Group)
	assert.True(t, c.Source.AnyGroup)
	assert.True(t, c.Source.Shell)
	assert.Equal(t, "2s", c.Source.Timeout)
	assert.Zero(t, c.Notify.WindowDuration())
	assert.Equal(t, []string{"/etc/kblayout/keymap.xkb"}, c.Notify.Files)
	assert.Equal(t, BusNone, c.Notify.DBus)
	assert.Equal(t, zerolog.DebugLevel, c.Log.ParsedLevel())

	names := make([]string, 0, 3)
	for _, e := range c.Table() {
		names = append(names, e.Physical)
	}
	assert.Equal(t, []string{"Escape", "KeyQ", "KeyA"}, names)
}

func TestLoadInvalid(t *testing.T) {
	for name, body := range map[string]string{
		"syntax":       "[source\nkind=",
		"kind":         "[source]\nkind = \"registry\"",
		"file missing": "[source]\nkind = \"file\"",
		"group":        "[source]\ngroup = -1",
		"timeout":      "[source]\ntimeout = \"soon\"",
		"zero timeout": "[source]\ntimeout = \"0s\"",
		"window":       "[notify]\nwindow = \"-1s\"",
		"bus":          "[notify]\ndbus = \"user\"",
		"signal":       "[notify]\nsignals = [\"xfce\"]",
		"no signals":   "[notify]\nsignals = []",
		"level":        "[log]\nlevel = \"loud\"",
		"keys":         "keys = [\"KeyA\", \"Food\"]",
	} {
		_, err := Load(writeConfig(t, body))
		require.Error(t, err, name)
		assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err), name)
	}
}
