package exec

/*
  External command execution for the keymap and group probes.
*/

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/kballard/go-shellquote"
)

const (
	DefaultTimeout = 5 * time.Second
	MaxReply       = 4 << 20 // per stream; xkbcomp -xkb output is ~100KB
)

var (
	ErrEmptyCommand = errors.New("empty command")
	ErrFailed       = errors.New("command failed")
)

type Command struct {
	Command  string
	Args     []string
	UseShell bool          // run Command through /bin/sh -c
	Timeout  time.Duration // 0 means DefaultTimeout, <0 waits forever
}

type Result struct {
	Command string
	Args    []string
	Status  int
	StdOut  []byte
	StdErr  []byte
	Err     error
}

// Parse splits a configured command line the way a shell would, after
// expanding $VARS from the environment.
func Parse(line string) (*Command, error) {
	words, err := shellquote.Split(os.ExpandEnv(line))
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", line, err)
	}
	if len(words) == 0 {
		return nil, ErrEmptyCommand
	}
	return &Command{Command: words[0], Args: words[1:]}, nil
}

// Shell returns a command running line through /bin/sh, so pipes and
// redirections work.
func Shell(line string) (*Command, error) {
	if strings.TrimSpace(line) == "" {
		return nil, ErrEmptyCommand
	}
	return &Command{Command: line, UseShell: true}, nil
}

// Run executes c and collects its output. Status is the exit code, -1 when
// the command could not be started and -2 when it was killed by ctx or the
// timeout.
func Run(ctx context.Context, c *Command) *Result {
	r := &Result{Command: c.Command, Args: c.Args}
	if c.Command == "" {
		r.Status, r.Err = -1, ErrEmptyCommand
		return r
	}

	timeout := c.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var cmd *exec.Cmd
	if c.UseShell {
		cmd = exec.CommandContext(ctx, "/bin/sh", append([]string{"-c", c.Command, c.Command}, c.Args...)...)
	} else {
		cmd = exec.CommandContext(ctx, c.Command, c.Args...)
	}
	// Kill the whole process group, not just the leader: shell pipelines leave orphans otherwise.
	setProcessGroup(cmd)
	stdout := &cappedBuffer{limit: MaxReply}
	stderr := &cappedBuffer{limit: MaxReply}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	r.StdOut = stdout.Bytes()
	r.StdErr = stderr.Bytes()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case ctx.Err() != nil:
		r.Status, r.Err = -2, fmt.Errorf("%s: %w", c.Command, ctx.Err())
	case errors.As(err, &exitErr):
		r.Status = exitErr.ExitCode()
		r.Err = fmt.Errorf("%w: %s exited with status %d", ErrFailed, c.Command, r.Status)
	default:
		r.Status, r.Err = -1, err // No such command at all?
	}
	return r
}

// Output runs c and returns its stdout. A non-zero exit is an error
// carrying the first line of stderr.
func Output(ctx context.Context, c *Command) ([]byte, error) {
	r := Run(ctx, c)
	if r.Err != nil {
		if msg, _, _ := strings.Cut(strings.TrimSpace(string(r.StdErr)), "\n"); msg != "" {
			return r.StdOut, fmt.Errorf("%w: %s", r.Err, msg)
		}
		return r.StdOut, r.Err
	}
	return r.StdOut, nil
}

// cappedBuffer keeps the first limit bytes and discards the rest, so a
// chatty child never blocks on a full pipe.
type cappedBuffer struct {
	mu    sync.Mutex
	buf   bytes.Buffer
	limit int64
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if room := b.limit - int64(b.buf.Len()); room > 0 {
		b.buf.Write(p[:min(int64(len(p)), room)])
	}
	return len(p), nil
}

func (b *cappedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Clone(b.buf.Bytes())
}

var _ io.Writer = (*cappedBuffer)(nil)
