package store

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/movienite/nite/internal/models"
	"github.com/movienite/nite/internal/services"
	"github.com/movienite/nite/internal/shared"
	"golang.org/x/time/rate"
)

// Watcher wires the server's event stream to the movie collection: every
// movie-change event triggers a full Refresh. There is no incremental merge.
//
// Refreshes are paced with a rate limiter so an event burst (a batch import,
// an admin re-statusing several movies) collapses into few fetches; the
// singleflight guard inside [Movies] absorbs whatever overlap remains.
type Watcher struct {
	events    *services.EventService
	movies    *Movies
	logger    *log.Logger
	limiter   *rate.Limiter
	onRefresh func(services.Event, []models.Movie)
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewWatcher creates a watcher pacing refreshes to one per burst interval.
func NewWatcher(events *services.EventService, movies *Movies, logger *log.Logger, burst time.Duration) *Watcher {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if burst <= 0 {
		burst = 2 * time.Second
	}
	return &Watcher{
		events:  events,
		movies:  movies,
		logger:  shared.WithLogger(logger, "component", "watcher"),
		limiter: rate.NewLimiter(rate.Every(burst), 1),
	}
}

// SetOnRefresh registers a callback invoked with the triggering event and the
// refreshed collection after each successful event-driven refresh. Must be set
// before Start.
func (w *Watcher) SetOnRefresh(fn func(services.Event, []models.Movie)) {
	w.onRefresh = fn
}

// Start subscribes and refreshes until Close is called or ctx is cancelled.
// Calling Start on a running watcher is a no-op.
func (w *Watcher) Start(ctx context.Context) {
	if w.cancel != nil {
		return
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	ch := w.events.Subscribe(ctx)

	go func() {
		defer close(w.done)
		for ev := range ch {
			if !ev.IsMovieChange() {
				continue
			}
			if err := w.limiter.Wait(ctx); err != nil {
				return
			}
			w.logger.Debug("server pushed a change, refreshing", "event", ev.Name)
			movies, err := w.movies.Refresh(ctx)
			if err != nil {
				w.logger.Warn("refresh after event failed", "error", err)
				continue
			}
			if w.onRefresh != nil {
				w.onRefresh(ev, movies)
			}
		}
	}()
}

// Close tears the subscription down. Must be called when the owning scope
// ends so remounts do not accumulate open connections.
func (w *Watcher) Close() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
	w.cancel = nil
}
