package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.design/x/clipboard"
	"golang.org/x/text/unicode/runenames"
	"gopkg.in/yaml.v3"

	"kblayout/layout"
)

const (
	formatText = "text"
	formatYAML = "yaml"
)

type printOptions struct {
	format string
	names  bool // Unicode name of the unmodified character
	all    bool // include layout-independent keys
}

func (o *printOptions) addFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&o.format, "format", "f", formatText, "Output format: text or yaml")
	flags.BoolVarP(&o.names, "names", "n", false, "Add the Unicode character name")
	flags.BoolVarP(&o.all, "all", "a", false, "Include keys whose meaning does not depend on the layout")
}

func (o *printOptions) validate() error {
	if o.format != formatText && o.format != formatYAML {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown format %q, want text or yaml", o.format))
	}
	return nil
}

func newShowCommand(g *globals) *cobra.Command {
	var (
		o           printOptions
		toClipboard bool
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := o.validate(); err != nil {
				return err
			}
			snap, err := g.currentLayout()
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := writeSnapshot(&buf, snap, o); err != nil {
				return err
			}
			if toClipboard {
				copyText(buf.Bytes())
			}
			_, err = cmd.OutOrStdout().Write(buf.Bytes())
			return err
		},
	}
	o.addFlags(cmd)
	cmd.Flags().BoolVar(&toClipboard, "copy", false, "Also copy the output to the clipboard")
	return cmd
}

// copyText puts text on the clipboard. A missing display is only logged.
func copyText(text []byte) {
	if err := clipboard.Init(); err != nil {
		log.Warn().Err(err).Msg("clipboard unavailable")
		return
	}
	<-clipboard.Write(clipboard.FmtText, text)
}

// fixed reports keys whose value comes from the key table, not the layout.
func fixed(k layout.Key) bool {
	if k.Logical == nil {
		return false
	}
	_, ok := k.Logical.Rune()
	return !ok
}

func writeSnapshot(w io.Writer, snap *layout.Snapshot, o printOptions) error {
	if o.format == formatYAML {
		return writeYAML(w, snap, o)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "# %s\n", snap.Source)
	header := []string{"KEY", "CODE"}
	for _, m := range layout.Combinations {
		header = append(header, strings.ToUpper(m.String()))
	}
	if o.names {
		header = append(header, "NAME")
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, k := range snap.Keys {
		if fixed(k) && !o.all {
			continue
		}
		row := []string{k.Physical, fmt.Sprint(k.Platform)}
		for _, m := range layout.Combinations {
			row = append(row, cell(k.Get(m)))
		}
		if o.names {
			row = append(row, name(k.Logical))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func cell(v *layout.Value) string {
	switch {
	case v == nil:
		return "-"
	case *v == ' ':
		return "␣"
	}
	return v.String()
}

func name(v *layout.Value) string {
	if v == nil {
		return ""
	}
	if r, ok := v.Rune(); ok {
		return runenames.Name(r)
	}
	return ""
}

type yamlKey struct {
	Physical string `yaml:"physical"`
	Code     uint32 `yaml:"code"`
	Logical  string `yaml:"logical,omitempty"`
	Shift    string `yaml:"shift,omitempty"`
	Alt      string `yaml:"alt,omitempty"`
	AltShift string `yaml:"alt_shift,omitempty"`
	Meta     string `yaml:"meta,omitempty"`
	Name     string `yaml:"name,omitempty"`
}

type yamlSnapshot struct {
	Source string    `yaml:"source"`
	Keys   []yamlKey `yaml:"keys"`
}

func str(v *layout.Value) string {
	if v == nil {
		return ""
	}
	return v.String()
}

func writeYAML(w io.Writer, snap *layout.Snapshot, o printOptions) error {
	out := yamlSnapshot{Source: snap.Source, Keys: make([]yamlKey, 0, snap.Len())}
	for _, k := range snap.Keys {
		if fixed(k) && !o.all {
			continue
		}
		yk := yamlKey{
			Physical: k.Physical,
			Code:     k.Platform,
			Logical:  str(k.Logical),
			Shift:    str(k.LogicalShift),
			Alt:      str(k.LogicalAlt),
			AltShift: str(k.LogicalAltShift),
			Meta:     str(k.LogicalMeta),
		}
		if o.names {
			yk.Name = name(k.Logical)
		}
		out.Keys = append(out.Keys, yk)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}
