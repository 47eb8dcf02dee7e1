// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package command runs external programs synchronously with a bounded
// running time. Adapters that shell out (office suite, PDF rasterizer) go
// through a Runner so tests can substitute a fake.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout applies when a Cmd does not set its own.
const DefaultTimeout = 2 * time.Minute

// waitDelay bounds the output drain after a timed-out process is killed.
const waitDelay = time.Second

// ErrTimeout is returned when a command exceeds its timeout and is killed.
var ErrTimeout = errors.New("command timed out")

// Cmd describes one invocation.
type Cmd struct {
	Name    string
	Args    []string
	Timeout time.Duration
}

// String renders the command line the way a shell user would type it.
func (c Cmd) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Output is the captured result of a finished command.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Message returns stderr when present, otherwise stdout, trimmed.
func (o Output) Message() string {
	if s := strings.TrimSpace(o.Stderr); s != "" {
		return s
	}
	return strings.TrimSpace(o.Stdout)
}

// Runner executes commands and resolves executables on PATH.
type Runner interface {
	// LookPath resolves file against PATH.
	LookPath(file string) (string, error)

	// Run executes cmd and waits for it to finish. A non-zero exit returns
	// the captured Output together with an error.
	Run(ctx context.Context, cmd Cmd) (Output, error)
}

// OSRunner is the production Runner backed by os/exec.
type OSRunner struct {
	Log zerolog.Logger
}

// NewOSRunner returns a Runner that logs each command line at debug level.
func NewOSRunner(log zerolog.Logger) *OSRunner {
	return &OSRunner{Log: log}
}

func (r *OSRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (r *OSRunner) Run(ctx context.Context, cmd Cmd) (Output, error) {
	timeout := cmd.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	r.Log.Debug().Str("timeout", timeout.String()).Msg("$ " + cmd.String())

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	// Children that inherit the pipes must not hold Wait past the kill.
	c.WaitDelay = waitDelay
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if c.ProcessState != nil {
		out.ExitCode = c.ProcessState.ExitCode()
	}
	if err == nil {
		return out, nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return out, fmt.Errorf("%s after %s: %w", cmd.Name, timeout, ErrTimeout)
	}
	return out, fmt.Errorf("running %s: %w", cmd.Name, err)
}

// FindFirst returns the resolved path and name of the first candidate found
// on PATH.
func FindFirst(r Runner, candidates ...string) (name, path string, err error) {
	for _, c := range candidates {
		if p, err := r.LookPath(c); err == nil {
			return c, p, nil
		}
	}
	return "", "", fmt.Errorf("none of %s found on PATH", strings.Join(candidates, ", "))
}
