package xkb

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"kblayout/exec"
	"kblayout/layout"
)

const (
	DefaultKeymapCommand = "xkbcomp -xkb $DISPLAY -"
	DefaultTimeout       = 2 * time.Second
)

// Source is a parsed keymap with one group selected.
type Source struct {
	name   string
	layout *Layout
}

var _ layout.InputSource = (*Source)(nil)

// NewSource selects a group of km. Out of range groups wrap.
func NewSource(km *Keymap, group int) *Source {
	if n := km.NumGroups(); n > 0 {
		group = ((group % n) + n) % n
	}
	return &Source{
		name:   km.GroupName(group),
		layout: &Layout{Keymap: km, Group: group},
	}
}

func (s *Source) Name() string { return s.name }

// LayoutData returns the *Layout, or nil once closed.
func (s *Source) LayoutData() any {
	if s.layout == nil {
		return nil
	}
	return s.layout
}

// Close drops the keymap.
func (s *Source) Close() error {
	s.layout = nil
	return nil
}

// CommandProvider obtains the keymap from an external command, by default
// xkbcomp reading the X server's keymap, and the active group from an
// optional second command printing a group index or name.
type CommandProvider struct {
	Keymap   string
	Group    string
	AnyGroup bool // do not replace a non-ASCII active group
	Shell    bool // run both commands through /bin/sh
	Timeout  time.Duration
	Run      func(ctx context.Context, c *exec.Command) ([]byte, error)
}

var _ layout.InputSourceProvider = (*CommandProvider)(nil)

func (p *CommandProvider) Current() (layout.InputSource, error) {
	line := p.Keymap
	if line == "" {
		line = DefaultKeymapCommand
	}
	out, err := p.output(line)
	if err != nil {
		return nil, fmt.Errorf("%w: keymap command: %w", layout.ErrInputSourceUnavailable, err)
	}
	km, err := Parse(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", layout.ErrInputSourceUnavailable, err)
	}

	active := 0
	if p.Group != "" {
		out, err := p.output(p.Group)
		if err == nil {
			active, err = findGroup(km, string(out))
		}
		if err != nil {
			log.Warn().Err(err).Str("command", p.Group).Msg("active group unknown, using the first")
			active = 0
		}
	}
	return NewSource(km, selectGroup(km, active, p.AnyGroup)), nil
}

// output runs one command line, limited to Timeout.
func (p *CommandProvider) output(line string) ([]byte, error) {
	parse := exec.Parse
	if p.Shell {
		parse = exec.Shell
	}
	c, err := parse(line)
	if err != nil {
		return nil, err
	}
	c.Timeout = p.Timeout
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	run := p.Run
	if run == nil {
		run = exec.Output
	}
	return run(context.Background(), c)
}

// FileProvider reads a keymap saved with `xkbcomp -xkb $DISPLAY file`.
type FileProvider struct {
	Path     string
	Group    int
	AnyGroup bool
}

var _ layout.InputSourceProvider = (*FileProvider)(nil)

func (p *FileProvider) Current() (layout.InputSource, error) {
	f, err := os.Open(p.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", layout.ErrInputSourceUnavailable, err)
	}
	defer f.Close()
	km, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", layout.ErrInputSourceUnavailable, p.Path, err)
	}
	return NewSource(km, selectGroup(km, p.Group, p.AnyGroup)), nil
}

// findGroup interprets group command output: a zero-based index or a group
// name such as "Russian".
func findGroup(km *Keymap, out string) (int, error) {
	s := strings.TrimSpace(out)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n >= max(km.NumGroups(), 1) {
			return 0, fmt.Errorf("group %d out of range", n)
		}
		return n, nil
	}
	for g := 0; g < km.NumGroups(); g++ {
		if strings.EqualFold(km.GroupName(g), s) {
			return g, nil
		}
	}
	return 0, fmt.Errorf("no group named %q", s)
}

// selectGroup keeps the active group when it types Latin letters. Otherwise
// the first group that does is used, unless any group is acceptable.
func selectGroup(km *Keymap, active int, anyGroup bool) int {
	n := km.NumGroups()
	if n == 0 {
		return 0
	}
	active = ((active % n) + n) % n
	if anyGroup || km.ASCIICapable(active) {
		return active
	}
	for g := 0; g < n; g++ {
		if km.ASCIICapable(g) {
			return g
		}
	}
	return active
}
