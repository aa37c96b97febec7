// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync/atomic"
	"testing"

	"github.com/movienite/nite/internal/models"
)

// MockAPI is a configurable test double for [services.API]. Unset hooks
// return zero values.
type MockAPI struct {
	ListMoviesFn  func(ctx context.Context) ([]models.Movie, error)
	AddMovieFn    func(ctx context.Context, movieURL string) error
	SetStatusFn   func(ctx context.Context, id string, status models.Status) error
	DiscardFn     func(ctx context.Context, id string) error
	ToggleFlagFn  func(ctx context.Context, id string) error
	CurrentUserFn func(ctx context.Context) (*models.User, error)
	LoginURLFn    func(ctx context.Context) (string, error)
	LogoutFn      func(ctx context.Context) error

	ListCalls atomic.Int64
}

func (m *MockAPI) ListMovies(ctx context.Context) ([]models.Movie, error) {
	m.ListCalls.Add(1)
	if m.ListMoviesFn != nil {
		return m.ListMoviesFn(ctx)
	}
	return []models.Movie{}, nil
}

func (m *MockAPI) AddMovie(ctx context.Context, movieURL string) error {
	if m.AddMovieFn != nil {
		return m.AddMovieFn(ctx, movieURL)
	}
	return nil
}

func (m *MockAPI) SetMovieStatus(ctx context.Context, id string, status models.Status) error {
	if m.SetStatusFn != nil {
		return m.SetStatusFn(ctx, id, status)
	}
	return nil
}

func (m *MockAPI) DiscardMovie(ctx context.Context, id string) error {
	if m.DiscardFn != nil {
		return m.DiscardFn(ctx, id)
	}
	return nil
}

func (m *MockAPI) ToggleContentFlag(ctx context.Context, id string) error {
	if m.ToggleFlagFn != nil {
		return m.ToggleFlagFn(ctx, id)
	}
	return nil
}

func (m *MockAPI) CurrentUser(ctx context.Context) (*models.User, error) {
	if m.CurrentUserFn != nil {
		return m.CurrentUserFn(ctx)
	}
	return nil, nil
}

func (m *MockAPI) LoginURL(ctx context.Context) (string, error) {
	if m.LoginURLFn != nil {
		return m.LoginURLFn(ctx)
	}
	return "", nil
}

func (m *MockAPI) Logout(ctx context.Context) error {
	if m.LogoutFn != nil {
		return m.LogoutFn(ctx)
	}
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter succeeds for the first Successes writes, then fails
type LimitedWriter struct {
	Successes int
	count     int
}

func (w *LimitedWriter) Write(p []byte) (n int, err error) {
	w.count++
	if w.count > w.Successes {
		return 0, errors.New("write limit reached")
	}
	return len(p), nil
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// CountingRoundTripper counts requests while delegating to an inner transport
type CountingRoundTripper struct {
	Inner http.RoundTripper
	Count atomic.Int64
}

func (c *CountingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	c.Count.Add(1)
	inner := c.Inner
	if inner == nil {
		inner = http.DefaultTransport
	}
	return inner.RoundTrip(req)
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
