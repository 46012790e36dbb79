package gpu

import (
	"log/slog"

	"github.com/gogpu/kit2d"
)

// slogger returns the module logger. All logging in internal/gpu goes
// through this function so that kit2d.SetLogger takes effect immediately.
func slogger() *slog.Logger { return kit2d.Logger() }
