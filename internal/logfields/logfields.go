package logfields

import (
	"log/slog"
	"strings"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeySidecarDir = "sidecar_dir"
	KeyPkgManager = "package_manager"
	KeyCommand    = "command"
	KeyPID        = "pid"
	KeyExitCode   = "exit_code"
	KeySessionID  = "session_id"
	KeyBuildID    = "build_id"
	KeyState      = "state"
	KeyPlugin     = "plugin"
	KeyEvent      = "event"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyAddr       = "addr"
	KeyPages      = "pages"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func SidecarDir(dir string) slog.Attr { return slog.String(KeySidecarDir, dir) }
func PkgManager(bin string) slog.Attr { return slog.String(KeyPkgManager, bin) }
func PID(pid int) slog.Attr           { return slog.Int(KeyPID, pid) }
func ExitCode(code int) slog.Attr     { return slog.Int(KeyExitCode, code) }
func SessionID(id string) slog.Attr   { return slog.String(KeySessionID, id) }
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func State(s string) slog.Attr        { return slog.String(KeyState, s) }
func Plugin(name string) slog.Attr    { return slog.String(KeyPlugin, name) }
func Event(name string) slog.Attr     { return slog.String(KeyEvent, name) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Addr(a string) slog.Attr         { return slog.String(KeyAddr, a) }
func Pages(n int) slog.Attr           { return slog.Int(KeyPages, n) }

// Command joins argv into a single space separated value.
func Command(argv ...string) slog.Attr { return slog.String(KeyCommand, strings.Join(argv, " ")) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
