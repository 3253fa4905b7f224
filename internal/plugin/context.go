package plugin

import (
	"log/slog"

	"git.home.luguber.info/inful/sitepack/internal/config"
)

// HookContext carries what the host knows about the current lifecycle event.
// It is created by the host for each dispatch.
type HookContext struct {
	// Logger provides structured logging for plugin operations.
	Logger *slog.Logger

	// Reporter is the host's generic reporting channel.
	Reporter Reporter

	// Config is the sitepack configuration.
	Config *config.Config

	// Flags is the extra-flag mapping for this call.
	Flags Flags

	// SessionID identifies the dev server session (empty for plain builds).
	SessionID string

	// BuildID identifies the build (empty for session events).
	BuildID string
}

// NewHookContext creates a hook context with a logger fallback and slog reporter.
func NewHookContext(logger *slog.Logger, cfg *config.Config, flags Flags) *HookContext {
	if logger == nil {
		logger = slog.Default()
	}
	if flags == nil {
		flags = Flags{}
	}
	return &HookContext{
		Logger:   logger,
		Reporter: NewSlogReporter(logger),
		Config:   cfg,
		Flags:    flags,
	}
}
