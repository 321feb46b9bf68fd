package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"

	"kblayout/layout"
	"kblayout/scancodes"
)

func newTypeCommand(g *globals) *cobra.Command {
	var codes bool
	cmd := &cobra.Command{
		Use:   "type TEXT...",
		Short: "Print the key chords that type TEXT under the current layout",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := g.currentLayout()
			if err != nil {
				return err
			}
			seq, err := layout.SequenceForString(snap, strings.Join(args, " "))
			if err != nil {
				code := errbuilder.CodeInternal
				if errors.Is(err, layout.ErrUntypeable) {
					code = errbuilder.CodeInvalidArgument
				}
				return errbuilder.New().WithCode(code).WithMsg("cannot type text").WithCause(err)
			}
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintln(out, seq); err != nil {
				return err
			}
			if !codes {
				return nil
			}
			strokes, err := scancodes.Default().ForSequence(seq)
			if err != nil {
				return errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("key codes").WithCause(err)
			}
			parts := make([]string, 0, len(strokes))
			for _, s := range strokes {
				parts = append(parts, fmt.Sprintf("%d:%d", uint16(s.Code), s.Value))
			}
			_, err = fmt.Fprintln(out, strings.Join(parts, " "))
			return err
		},
	}
	cmd.Flags().BoolVar(&codes, "codes", false, "Also print evdev key code:value strokes")
	return cmd
}
