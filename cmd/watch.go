package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/movienite/nite/internal/models"
	"github.com/movienite/nite/internal/services"
	"github.com/movienite/nite/internal/shared"
	"github.com/movienite/nite/internal/store"
	"github.com/urfave/cli/v3"
)

// Watch follows the server's event stream and prints a summary line per
// change until interrupted.
func (r *Runner) Watch(ctx context.Context, cmd *cli.Command) error {
	if r.events == nil {
		return fmt.Errorf("%w: event service not initialized", shared.ErrServiceUnavailable)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// prime the collection so the first event prints a meaningful delta
	if _, err := r.movies.Refresh(ctx); err != nil {
		r.logger.Warn("initial fetch failed, watching anyway", "error", err)
	}

	burst := time.Duration(r.config.Events.RefreshBurstSeconds) * time.Second
	watcher := store.NewWatcher(r.events, r.movies, r.logger, burst)
	watcher.SetOnRefresh(func(ev services.Event, movies []models.Movie) {
		counts := map[models.Status]int{}
		for _, m := range movies {
			counts[m.Status]++
		}
		r.writePlain("[%s] %s — %d streaming, %d watched, %d upcoming\n",
			time.Now().Format("15:04:05"), ev.Name,
			counts[models.StatusStreaming], counts[models.StatusWatched], counts[models.StatusUpcoming])
	})

	r.writePlain("Watching for watchlist changes (ctrl+c to stop)...\n")

	watcher.Start(ctx)
	<-ctx.Done()
	watcher.Close()

	r.writePlain("Stopped\n")
	return nil
}
