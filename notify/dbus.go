package notify

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"
)

// Signal selects D-Bus signals that announce a layout change. Filter, when
// set, must prefix one of the string arguments; dconf paths are rebuilt
// from the prefix and change list of Notify before matching.
type Signal struct {
	Interface string
	Member    string
	Path      dbus.ObjectPath
	Filter    string
}

var (
	// GNOMEInputSources fires when GNOME Shell switches input sources.
	GNOMEInputSources = Signal{
		Interface: "ca.desrt.dconf.Writer",
		Member:    "Notify",
		Path:      "/ca/desrt/dconf/Writer/user",
		Filter:    "/org/gnome/desktop/input-sources/",
	}
	KDELayouts = Signal{
		Interface: "org.kde.KeyboardLayouts",
		Member:    "layoutChanged",
		Path:      "/Layouts",
	}
)

func (s Signal) options() []dbus.MatchOption {
	opts := []dbus.MatchOption{
		dbus.WithMatchInterface(s.Interface),
		dbus.WithMatchMember(s.Member),
	}
	if s.Path != "" {
		opts = append(opts, dbus.WithMatchObjectPath(s.Path))
	}
	return opts
}

func (s Signal) matches(sig *dbus.Signal) bool {
	if sig.Name != s.Interface+"."+s.Member {
		return false
	}
	if s.Path != "" && sig.Path != s.Path {
		return false
	}
	if s.Filter == "" {
		return true
	}
	for _, arg := range signalPaths(sig.Body) {
		if strings.HasPrefix(arg, s.Filter) {
			return true
		}
	}
	return false
}

// signalPaths returns the string arguments of a signal, with list
// arguments joined to the first string as dconf's Notify(prefix, changes,
// tag) expects.
func signalPaths(body []any) []string {
	var (
		prefix string
		seen   bool
		paths  []string
	)
	for _, arg := range body {
		switch v := arg.(type) {
		case string:
			if !seen {
				prefix, seen = v, true
			}
			paths = append(paths, v)
		case []string:
			for _, change := range v {
				paths = append(paths, prefix+change)
			}
		}
	}
	return paths
}

type dbusListener struct {
	conn    *dbus.Conn
	ch      chan *dbus.Signal
	signals []Signal
	done    chan struct{}
	once    sync.Once
}

// ListenDBus posts event for every signal received on conn that matches one
// of signals.
func ListenDBus(c *Center, conn *dbus.Conn, event string, signals ...Signal) (io.Closer, error) {
	if len(signals) == 0 {
		signals = []Signal{GNOMEInputSources, KDELayouts}
	}
	l := &dbusListener{
		conn: conn,
		ch:   make(chan *dbus.Signal, 16),
		done: make(chan struct{}),
	}
	for _, s := range signals {
		if err := conn.AddMatchSignal(s.options()...); err != nil {
			l.removeMatches()
			return nil, fmt.Errorf("dbus match %s.%s: %w", s.Interface, s.Member, err)
		}
		l.signals = append(l.signals, s)
	}
	conn.Signal(l.ch)

	go func() {
		for {
			select {
			case sig := <-l.ch:
				if sig != nil && l.handle(sig) {
					c.log.Debug().Str("signal", sig.Name).Str("path", string(sig.Path)).Msg("layout signal")
					c.Post(event)
				}
			case <-l.done:
				return
			}
		}
	}()
	return l, nil
}

func (l *dbusListener) handle(sig *dbus.Signal) bool {
	for _, s := range l.signals {
		if s.matches(sig) {
			return true
		}
	}
	return false
}

func (l *dbusListener) removeMatches() {
	for _, s := range l.signals {
		_ = l.conn.RemoveMatchSignal(s.options()...)
	}
}

func (l *dbusListener) Close() error {
	l.once.Do(func() {
		l.conn.RemoveSignal(l.ch)
		l.removeMatches()
		close(l.done)
	})
	return nil
}
