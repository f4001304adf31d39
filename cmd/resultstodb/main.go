// Command resultstodb loads traffic analysis logs into the results database.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/resultstodb/internal/core"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	app := New()
	err := app.Run(ctx)
	stop()

	if err == nil {
		return
	}

	// Usage has already been printed by cobra.
	if app.UsageError() {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	slog.Error("import failed", "code", core.MapError(err).Code, "error", err)
	fmt.Fprintln(os.Stderr, core.FormatUserError(err))
	os.Exit(1)
}
