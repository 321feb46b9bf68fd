package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"

	"kblayout/config"
	"kblayout/layout"
	"kblayout/xkb"
)

// version is set at build time via ldflags.
var version = "dev"

// globals are the persistent flags and what PersistentPreRunE derives
// from them.
type globals struct {
	configPath string
	debug      bool
	verbose    bool

	cfg *config.Config
}

func Execute() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "kblayout:", err)
		os.Exit(exitCodeForError(err))
	}
}

func newRootCommand() *cobra.Command {
	g := &globals{}
	cmd := &cobra.Command{
		Use:           "kblayout",
		Short:         "Map physical keys to the characters of the active keyboard layout",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(g.configPath)
			if err != nil {
				return err
			}
			g.cfg = cfg
			setupLogging(cmd.ErrOrStderr(), g.level())
			log.Debug().Str("conf", g.configPath).Str("source", cfg.Source.Kind).Msg("config loaded")
			return nil
		},
	}
	addGlobalFlags(cmd.PersistentFlags(), g)

	cmd.AddCommand(newShowCommand(g))
	cmd.AddCommand(newWatchCommand(g))
	cmd.AddCommand(newTypeCommand(g))
	cmd.AddCommand(newVersionCommand())
	return cmd
}

// addGlobalFlags seeds flag defaults from $CONFIG, $DEBUG and $VERBOSE.
func addGlobalFlags(fs *flag.FlagSet, g *globals) {
	configPath := defaultConfigPath()
	if env, ok := os.LookupEnv("CONFIG"); ok {
		configPath = env
	}
	_, debug := os.LookupEnv("DEBUG")
	_, verbose := os.LookupEnv("VERBOSE")

	fs.StringVarP(&g.configPath, "conf", "c", configPath, "Non-default config location")
	fs.BoolVarP(&g.debug, "debug", "d", debug, "Debug log level")
	fs.BoolVarP(&g.verbose, "verbose", "v", verbose, "Increase log level to INFO")
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "kblayout", "kblayout.toml")
}

func (g *globals) level() zerolog.Level {
	lvl := g.cfg.Log.ParsedLevel()
	switch {
	case g.debug:
		return min(lvl, zerolog.DebugLevel)
	case g.verbose:
		return min(lvl, zerolog.InfoLevel)
	}
	return lvl
}

func setupLogging(w io.Writer, level zerolog.Level) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"})
	zerolog.SetGlobalLevel(level)
}

// newResolver wires the configured key table, XKB source and translator.
func (g *globals) newResolver() *layout.Resolver {
	return &layout.Resolver{
		Table:      g.cfg.Table(),
		Sources:    g.newProvider(),
		Translator: xkb.Translator{},
	}
}

func (g *globals) newProvider() layout.InputSourceProvider {
	src := g.cfg.Source
	if src.Kind == config.SourceFile {
		return &xkb.FileProvider{Path: src.File, Group: src.Group, AnyGroup: src.AnyGroup}
	}
	return &xkb.CommandProvider{
		Keymap:   src.KeymapCommand,
		Group:    src.GroupCommand,
		AnyGroup: src.AnyGroup,
		Shell:    src.Shell,
		Timeout:  src.TimeoutDuration(),
	}
}

// currentLayout resolves once, without a change subscription.
func (g *globals) currentLayout() (*layout.Snapshot, error) {
	engine, err := layout.New(g.newResolver(), nil, nil)
	if err != nil {
		return nil, err
	}
	defer engine.Close()
	snap, err := engine.CurrentLayout()
	if err != nil {
		return nil, layoutError(err)
	}
	return snap, nil
}

func layoutError(err error) error {
	if errors.Is(err, layout.ErrInputSourceUnavailable) {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("keyboard layout unavailable").
			WithCause(err)
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("layout resolution failed").
		WithCause(err)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "kblayout", version)
			return err
		},
	}
}

func exitCodeForError(err error) int {
	switch errbuilder.CodeOf(err) {
	case errbuilder.CodeInvalidArgument:
		return 2
	case errbuilder.CodeFailedPrecondition:
		return 3
	case errbuilder.CodeInternal:
		return 4
	default:
		if strings.HasPrefix(err.Error(), "unknown command") {
			return 2
		}
		return 1
	}
}
