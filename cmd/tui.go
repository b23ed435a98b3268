package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/artx/internal/shared"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive field picker over a dataset file.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	logPath := filepath.Join("tmp", "artx-tui.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err == nil {
		if logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			defer logFile.Close()
			r.SetLogger(shared.NewLogger(logFile))
		}
	} else {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	return r.runFieldPicker(ctx, cmd.String("input"), cmd.String("output"))
}
