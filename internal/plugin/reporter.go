package plugin

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/sitepack/internal/logfields"
)

// Reporter is the host's generic progress and error reporting channel.
// Plugins use it for user-facing messages, including failures that happen
// outside a synchronous hook return path.
type Reporter interface {
	ReportGeneric(msg string, attrs ...slog.Attr)
	ReportError(msg string, err error, attrs ...slog.Attr)
}

// SlogReporter implements Reporter on top of slog.
type SlogReporter struct {
	logger *slog.Logger
}

// NewSlogReporter creates a reporter writing to logger (slog.Default when nil).
func NewSlogReporter(logger *slog.Logger) *SlogReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogReporter{logger: logger}
}

func (r *SlogReporter) ReportGeneric(msg string, attrs ...slog.Attr) {
	r.logger.LogAttrs(context.Background(), slog.LevelInfo, msg, attrs...)
}

func (r *SlogReporter) ReportError(msg string, err error, attrs ...slog.Attr) {
	r.logger.LogAttrs(context.Background(), slog.LevelError, msg, append(attrs, logfields.Error(err))...)
}
