package sidecar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

// Command describes one subprocess invocation.
type Command struct {
	Path string
	Args []string
	Dir  string
	Env  []string
}

// Argv returns the full argument vector including the executable.
func (c Command) Argv() []string {
	return append([]string{c.Path}, c.Args...)
}

// Process is an owned handle to a running child started by SpawnDetached.
type Process interface {
	// PID returns the operating system process id.
	PID() int
	// Done is closed once the process has exited and been reaped.
	Done() <-chan struct{}
	// Err returns the wait error; only meaningful after Done is closed.
	Err() error
	// Kill terminates the process (and its process group where supported)
	// immediately. Killing an exited process is a no-op.
	Kill() error
}

// Runner starts sidecar subprocesses. The two operations are deliberately
// separate: RunToCompletion blocks until exit, SpawnDetached never waits.
type Runner interface {
	RunToCompletion(ctx context.Context, cmd Command) error
	SpawnDetached(ctx context.Context, cmd Command) (Process, error)
}

// reapTimeout bounds how long Kill waits for the killed child to be reaped.
const reapTimeout = 5 * time.Second

// ExecRunner implements Runner with os/exec. Children inherit Stdout/Stderr.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns a runner wired to the host's stdout and stderr.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
}

// RunToCompletion runs cmd and waits for it. Cancelling ctx kills the child
// process group.
func (r *ExecRunner) RunToCompletion(ctx context.Context, c Command) error {
	// #nosec G204 -- executables come from LookPath or the sidecar's node_modules/.bin
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	r.prepare(cmd, c)
	cmd.Cancel = func() error { return killProcessGroup(cmd.Process) }
	return cmd.Run()
}

// SpawnDetached starts cmd in its own process group and returns without
// waiting. The child is not bound to ctx; only Kill stops it.
func (r *ExecRunner) SpawnDetached(ctx context.Context, c Command) (Process, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// #nosec G204 -- executables come from the sidecar's node_modules/.bin
	cmd := exec.Command(c.Path, c.Args...) //nolint:noctx // outlives the spawning hook by design of watch mode
	r.prepare(cmd, c)
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	p := &execProcess{cmd: cmd, done: make(chan struct{})}
	go p.wait()
	return p, nil
}

func (r *ExecRunner) prepare(cmd *exec.Cmd, c Command) {
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	// Output copying must not keep Wait blocked after the group is killed.
	cmd.WaitDelay = 2 * time.Second
	setProcessGroup(cmd)
}

// execProcess is the Process returned by ExecRunner.SpawnDetached.
type execProcess struct {
	cmd  *exec.Cmd
	done chan struct{}
	err  error
}

func (p *execProcess) wait() {
	p.err = p.cmd.Wait()
	close(p.done)
}

func (p *execProcess) PID() int {
	return p.cmd.Process.Pid
}

func (p *execProcess) Done() <-chan struct{} {
	return p.done
}

func (p *execProcess) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

func (p *execProcess) Kill() error {
	select {
	case <-p.done:
		return nil
	default:
	}

	if err := killProcessGroup(p.cmd.Process); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill pid %d: %w", p.PID(), err)
	}

	select {
	case <-p.done:
		return nil
	case <-time.After(reapTimeout):
		return fmt.Errorf("pid %d not reaped %s after kill", p.PID(), reapTimeout)
	}
}
