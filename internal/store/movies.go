// package store holds the shared application state containers
package store

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/movienite/nite/internal/models"
	"github.com/movienite/nite/internal/services"
	"github.com/movienite/nite/internal/shared"
	"golang.org/x/sync/singleflight"
)

// Movies is the shared movie collection state: the current list in server
// order, a loading flag, and the last refresh error.
//
// Instances are created explicitly and passed to consumers rather than looked
// up globally, so tests can inject isolated ones. A Refresh issued while one
// is already in flight does not start a second request; it waits on and
// receives the in-flight result.
type Movies struct {
	api    services.API
	logger *log.Logger

	group singleflight.Group

	mu      sync.Mutex
	movies  []models.Movie
	loading bool
	err     string
}

// NewMovies creates an empty collection container backed by the given API.
func NewMovies(api services.API, logger *log.Logger) *Movies {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Movies{
		api:    api,
		logger: shared.WithLogger(logger, "store", "movies"),
		movies: []models.Movie{},
	}
}

// Refresh refetches the full collection, replacing it wholesale on success.
// On failure the previous movies stay in place and the error is stored for
// display. Concurrent callers share a single network call and its result.
func (s *Movies) Refresh(ctx context.Context) ([]models.Movie, error) {
	v, err, joined := s.group.Do("refresh", func() (any, error) {
		s.mu.Lock()
		s.loading = true
		s.err = ""
		s.mu.Unlock()

		movies, err := s.api.ListMovies(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()
		s.loading = false
		if err != nil {
			s.err = err.Error()
			return nil, err
		}
		s.movies = movies
		return movies, nil
	})
	if joined {
		s.logger.Debug("refresh joined in-flight request")
	}
	if err != nil {
		s.logger.Warn("refresh failed", "error", err)
		return nil, err
	}
	return v.([]models.Movie), nil
}

// Movies returns the current collection snapshot in server order.
func (s *Movies) Movies() []models.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.movies
}

// Loading reports whether a refresh is in flight.
func (s *Movies) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last refresh error message, or "" when the last refresh
// succeeded.
func (s *Movies) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
