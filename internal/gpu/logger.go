package gpu

import (
	"log/slog"

	"github.com/gogpu/paint"
)

// slogger returns the current package logger.
// All logging in internal/gpu goes through this function; it follows the
// root package's logger so paint.SetLogger configures the whole module.
func slogger() *slog.Logger { return paint.Logger() }
