package plugin

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/sitepack/internal/logfields"
)

// Dispatcher delivers host lifecycle events to registered plugins.
//
// Spawn and build events stop at the first failing plugin so a failure aborts
// the triggering host action. Stop events are delivered to every plugin so
// teardown is never skipped; their errors are joined.
type Dispatcher struct {
	registry *Registry
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher over registry.
func NewDispatcher(registry *Registry, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{registry: registry, logger: logger}
}

// SessionSpawn dispatches EventSessionSpawn.
func (d *Dispatcher) SessionSpawn(ctx context.Context, hc *HookContext) error {
	return d.Dispatch(ctx, EventSessionSpawn, hc)
}

// SessionStop dispatches EventSessionStop.
func (d *Dispatcher) SessionStop(ctx context.Context, hc *HookContext) error {
	return d.Dispatch(ctx, EventSessionStop, hc)
}

// BeforeBuildAll dispatches EventBeforeBuildAll.
func (d *Dispatcher) BeforeBuildAll(ctx context.Context, hc *HookContext) error {
	return d.Dispatch(ctx, EventBeforeBuildAll, hc)
}

// Dispatch calls the handler for ev on every plugin implementing it, in registration order.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event, hc *HookContext) error {
	var errs []error
	for _, p := range d.registry.ListHandling(ev) {
		name := p.Metadata().Name
		start := time.Now()
		err := invoke(ctx, p, ev, hc)
		d.logger.Debug("Plugin hook finished",
			logfields.Plugin(name),
			logfields.Event(ev.String()),
			logfields.DurationMS(float64(time.Since(start).Microseconds())/1000),
			logfields.Error(err))
		if err == nil {
			continue
		}
		perr := NewPluginError(name, ev, err)
		if ev != EventSessionStop {
			return perr
		}
		errs = append(errs, perr)
	}
	return errors.Join(errs...)
}

func invoke(ctx context.Context, p Plugin, ev Event, hc *HookContext) error {
	switch ev {
	case EventSessionSpawn:
		return p.(SessionSpawnHandler).OnSessionSpawn(ctx, hc)
	case EventSessionStop:
		return p.(SessionStopHandler).OnSessionStop(ctx, hc)
	case EventBeforeBuildAll:
		return p.(BeforeBuildAllHandler).OnBeforeBuildAll(ctx, hc)
	default:
		return nil
	}
}
