package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/movienite/nite/internal/shared"
	"github.com/movienite/nite/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for browsing the watchlist.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.api == nil {
		return fmt.Errorf("%w: API service not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/nite-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	prefStore, db, err := r.openPrefs()
	if err != nil {
		fileLogger.Warn("preference database unavailable, preferences will not persist", "error", err)
	} else {
		defer db.Close()
	}

	model := ui.NewModel(ctx, ui.Opts{
		API:    r.api,
		Movies: r.movies,
		Auth:   r.auth,
		Events: r.events,
		Prefs:  prefStore,
		Logger: fileLogger,
	})
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
