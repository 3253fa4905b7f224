package sidecar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// fakeProcess is a controllable Process.
type fakeProcess struct {
	pid    int
	done   chan struct{}
	once   sync.Once
	err    error
	mu     sync.Mutex
	killed int
}

func newFakeProcess(pid int) *fakeProcess {
	return &fakeProcess{pid: pid, done: make(chan struct{})}
}

func (p *fakeProcess) PID() int              { return p.pid }
func (p *fakeProcess) Done() <-chan struct{} { return p.done }

func (p *fakeProcess) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

func (p *fakeProcess) Kill() error {
	p.mu.Lock()
	p.killed++
	p.mu.Unlock()
	p.exit(errors.New("signal: killed"))
	return nil
}

func (p *fakeProcess) exit(err error) {
	p.once.Do(func() {
		p.err = err
		close(p.done)
	})
}

func (p *fakeProcess) killCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.killed
}

// fakeRunner records invocations instead of starting processes.
type fakeRunner struct {
	mu       sync.Mutex
	calls    []string
	runs     []Command
	spawns   []Command
	procs    []*fakeProcess
	runErr   func(Command) error
	spawnErr error
}

func (r *fakeRunner) RunToCompletion(_ context.Context, cmd Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, cmd)
	r.calls = append(r.calls, "run:"+cmd.Path+fmt.Sprint(cmd.Args))
	if r.runErr != nil {
		return r.runErr(cmd)
	}
	return nil
}

func (r *fakeRunner) SpawnDetached(_ context.Context, cmd Command) (Process, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spawns = append(r.spawns, cmd)
	r.calls = append(r.calls, "spawn:"+cmd.Path+fmt.Sprint(cmd.Args))
	if r.spawnErr != nil {
		return nil, r.spawnErr
	}
	p := newFakeProcess(1000 + len(r.procs))
	r.procs = append(r.procs, p)
	return p, nil
}

func (r *fakeRunner) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// lookPathFrom resolves only the names present in bins.
func lookPathFrom(bins map[string]string) func(string) (string, error) {
	return func(name string) (string, error) {
		if p, ok := bins[name]; ok {
			return p, nil
		}
		return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
	}
}

// reportEntry is one message captured by recordingReporter.
type reportEntry struct {
	msg string
	err error
}

type recordingReporter struct {
	mu      sync.Mutex
	entries []reportEntry
}

func (r *recordingReporter) ReportGeneric(msg string, _ ...slog.Attr) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, reportEntry{msg: msg})
}

func (r *recordingReporter) ReportError(msg string, err error, _ ...slog.Attr) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, reportEntry{msg: msg, err: err})
}

func (r *recordingReporter) errorEntries() []reportEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []reportEntry
	for _, e := range r.entries {
		if e.err != nil {
			out = append(out, e)
		}
	}
	return out
}

func (r *recordingReporter) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.msg)
	}
	return out
}
