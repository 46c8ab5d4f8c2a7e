package logging

import (
	"io"
	"log/slog"
	"os"

	"gitlab.com/nestpass/twofa-backend/pkg/env"
)

// Setup builds the process-wide slog logger for the given mode and returns it
// with a cleanup function. Prod logs JSON; everything else logs human-readable
// text. If path is non-empty the log output is mirrored to that file.
func Setup(mode env.Mode, path string) (*slog.Logger, func()) {
	out := io.Writer(os.Stdout)
	cleanup := func() {}

	if path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err == nil {
			out = io.MultiWriter(os.Stdout, f)
			cleanup = func() { _ = f.Close() }
		} else {
			slog.Error("failed to open log file, falling back to stdout", "path", path, "error", err)
		}
	}

	opts := &slog.HandlerOptions{Level: mode.SlogLevel()}

	var handler slog.Handler
	if mode == env.Prod {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler), cleanup
}
