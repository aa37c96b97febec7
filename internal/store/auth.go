package store

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/movienite/nite/internal/models"
	"github.com/movienite/nite/internal/services"
	"github.com/movienite/nite/internal/shared"
	"golang.org/x/sync/singleflight"
)

// OpenURL navigates to an external URL; swapped in tests. Defaults to the
// system browser.
type OpenURL func(url string) error

// Auth is the shared authentication state: the session user, a loading flag,
// and the last fetch error. Mirrors the [Movies] container pattern.
type Auth struct {
	api     services.API
	logger  *log.Logger
	openURL OpenURL

	group singleflight.Group

	mu      sync.Mutex
	user    *models.User
	loading bool
	err     string
}

// NewAuth creates an auth container backed by the given API.
func NewAuth(api services.API, logger *log.Logger) *Auth {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Auth{
		api:     api,
		logger:  shared.WithLogger(logger, "store", "auth"),
		openURL: shared.OpenBrowser,
	}
}

// SetOpenURL overrides how login redirect URLs are navigated to.
func (s *Auth) SetOpenURL(fn OpenURL) {
	if fn != nil {
		s.openURL = fn
	}
}

// FetchUser loads the current session user. An API-level failure means "no
// session": the user is cleared and only logged, not stored as a display
// error. Transport failures are stored. Concurrent callers share one call.
func (s *Auth) FetchUser(ctx context.Context) (*models.User, error) {
	v, err, _ := s.group.Do("user", func() (any, error) {
		s.mu.Lock()
		s.loading = true
		s.err = ""
		s.mu.Unlock()

		user, err := s.api.CurrentUser(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()
		s.loading = false

		var fetchErr *services.FetchError
		if errors.As(err, &fetchErr) {
			s.user = nil
			s.logger.Debug("no active session", "status", fetchErr.StatusCode)
			return (*models.User)(nil), nil
		}
		if err != nil {
			s.user = nil
			s.err = err.Error()
			return nil, err
		}

		s.user = user
		return user, nil
	})
	if err != nil {
		s.logger.Warn("failed to fetch user", "error", err)
		return nil, err
	}
	return v.(*models.User), nil
}

// Login asks the server for the auth provider redirect URL and opens it in
// the system browser. The provider redirects back to the web app; the CLI
// session is then imported with `nite auth token` or `nite auth import`.
func (s *Auth) Login(ctx context.Context) (string, error) {
	url, err := s.api.LoginURL(ctx)
	if err != nil {
		s.mu.Lock()
		s.err = "failed to initiate login"
		s.mu.Unlock()
		s.logger.Warn("failed to get login URL", "error", err)
		return "", err
	}

	if err := s.openURL(url); err != nil {
		s.logger.Warn("failed to open browser, use the URL directly", "url", url, "error", err)
	}
	return url, nil
}

// Logout calls the remote logout endpoint and clears the local user
// unconditionally, even when the remote call fails.
func (s *Auth) Logout(ctx context.Context) error {
	err := s.api.Logout(ctx)

	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("logout request failed, local session cleared anyway", "error", err)
	}
	return err
}

// User returns the current session user, nil when logged out.
func (s *Auth) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Loading reports whether a user fetch is in flight.
func (s *Auth) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last auth error message, or "".
func (s *Auth) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
