package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"kblayout/config"
	"kblayout/layout"
	"kblayout/notify"
)

func newWatchCommand(g *globals) *cobra.Command {
	var o printOptions
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the layout and again after every change",
		Long: "Print the layout and again after every change. Changes are reported by the\n" +
			"configured keymap files and D-Bus signals; SIGHUP forces a re-read.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := o.validate(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			hup := make(chan os.Signal, 1)
			signal.Notify(hup, syscall.SIGHUP)
			defer signal.Stop(hup)
			return watch(ctx, g, cmd.OutOrStdout(), o, hup)
		},
	}
	o.addFlags(cmd)
	return cmd
}

// watch prints the layout on start and on every delegate call until ctx
// ends. A value on reread posts a change by hand.
func watch(ctx context.Context, g *globals, out io.Writer, o printOptions, reread <-chan os.Signal) error {
	center := notify.NewCenter(notify.WithWindow(g.cfg.Notify.WindowDuration()))
	defer center.Close()
	for _, c := range listen(center, g.cfg.Notify) {
		defer c.Close()
	}

	changed := make(chan struct{}, 1)
	engine, err := layout.New(g.newResolver(), center, layout.DelegateFunc(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}))
	if err != nil {
		return layoutError(err)
	}
	defer engine.Close()

	show := func() error {
		snap, err := engine.CurrentLayout()
		if err != nil {
			// The source may come back; keep waiting for changes.
			log.Warn().Err(err).Msg("layout unavailable")
			return nil
		}
		return writeSnapshot(out, snap, o)
	}
	if err := show(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-reread:
			log.Info().Msg("re-reading layout")
			center.Post(layout.InputSourceChanged)
		case <-changed:
			fmt.Fprintf(out, "\n# changed at %s\n", time.Now().Format(time.TimeOnly))
			if err := show(); err != nil {
				return err
			}
		}
	}
}

// listen attaches the configured change sources to center. Sources that
// cannot be opened are logged and skipped.
func listen(center *notify.Center, cfg config.NotifyConfig) []io.Closer {
	var closers []io.Closer
	if len(cfg.Files) > 0 {
		w, err := notify.WatchFiles(center, layout.InputSourceChanged, cfg.Files...)
		if err != nil {
			log.Warn().Err(err).Strs("files", cfg.Files).Msg("keymap files not watched")
		} else {
			closers = append(closers, w)
		}
	}
	if cfg.DBus == config.BusNone {
		return closers
	}
	conn, err := connectBus(cfg.DBus)
	if err != nil {
		log.Warn().Err(err).Str("bus", cfg.DBus).Msg("no D-Bus, layout switches are not followed")
		return closers
	}
	l, err := notify.ListenDBus(center, conn, layout.InputSourceChanged, cfg.DBusSignals()...)
	if err != nil {
		log.Warn().Err(err).Str("bus", cfg.DBus).Msg("D-Bus signals not followed")
		conn.Close()
		return closers
	}
	// Closers run in reverse: the listener goes before its connection.
	return append(closers, conn, l)
}

func connectBus(kind string) (*dbus.Conn, error) {
	if kind == config.BusSystem {
		return dbus.ConnectSystemBus()
	}
	return dbus.ConnectSessionBus()
}
