package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/movienite/nite/internal/models"
	"github.com/movienite/nite/internal/services"
	tu "github.com/movienite/nite/internal/testing"
)

func TestMoviesRefresh(t *testing.T) {
	t.Run("Success Replaces Collection", func(t *testing.T) {
		api := &tu.MockAPI{
			ListMoviesFn: func(ctx context.Context) ([]models.Movie, error) {
				return []models.Movie{{ID: "1", Title: "Alien", Status: models.StatusUpcoming}}, nil
			},
		}
		s := NewMovies(api, nil)

		movies, err := s.Refresh(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(movies) != 1 || movies[0].ID != "1" {
			t.Errorf("expected the fetched movie, got %v", movies)
		}
		if len(s.Movies()) != 1 {
			t.Errorf("expected collection to hold 1 movie, got %d", len(s.Movies()))
		}
		if s.Err() != "" {
			t.Errorf("expected no stored error, got %q", s.Err())
		}
		if s.Loading() {
			t.Error("loading should be cleared after completion")
		}
	})

	t.Run("Failure Keeps Prior Collection", func(t *testing.T) {
		calls := 0
		api := &tu.MockAPI{
			ListMoviesFn: func(ctx context.Context) ([]models.Movie, error) {
				calls++
				if calls == 1 {
					return []models.Movie{{ID: "1", Title: "Alien", Status: models.StatusWatched}}, nil
				}
				return nil, &services.FetchError{StatusCode: 500, Message: "Internal Server Error"}
			},
		}
		s := NewMovies(api, nil)

		if _, err := s.Refresh(context.Background()); err != nil {
			t.Fatalf("first refresh should succeed: %v", err)
		}
		if _, err := s.Refresh(context.Background()); err == nil {
			t.Fatal("second refresh should fail")
		}

		if len(s.Movies()) != 1 {
			t.Errorf("stale collection should survive a failed refresh, got %d movies", len(s.Movies()))
		}
		if s.Err() == "" {
			t.Error("expected stored error message after failure")
		}
		if s.Loading() {
			t.Error("loading should be cleared after failure")
		}
	})

	t.Run("Error Clears On Next Success", func(t *testing.T) {
		fail := true
		api := &tu.MockAPI{
			ListMoviesFn: func(ctx context.Context) ([]models.Movie, error) {
				if fail {
					return nil, errors.New("connection refused")
				}
				return []models.Movie{}, nil
			},
		}
		s := NewMovies(api, nil)

		s.Refresh(context.Background())
		if s.Err() == "" {
			t.Fatal("expected stored error")
		}

		fail = false
		if _, err := s.Refresh(context.Background()); err != nil {
			t.Fatalf("refresh should succeed: %v", err)
		}
		if s.Err() != "" {
			t.Errorf("error should clear on success, got %q", s.Err())
		}
	})

	t.Run("Concurrent Refreshes Share One Network Call", func(t *testing.T) {
		release := make(chan struct{})
		api := &tu.MockAPI{
			ListMoviesFn: func(ctx context.Context) ([]models.Movie, error) {
				<-release
				return []models.Movie{{ID: "1", Title: "Alien", Status: models.StatusUpcoming}}, nil
			},
		}
		s := NewMovies(api, nil)

		const callers = 5
		results := make([][]models.Movie, callers)
		var wg sync.WaitGroup
		for i := range callers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i], _ = s.Refresh(context.Background())
			}()
		}

		// Give every caller time to reach the in-flight guard, then release
		// the single underlying request.
		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()

		if got := api.ListCalls.Load(); got != 1 {
			t.Errorf("expected exactly 1 network call, got %d", got)
		}
		for i, r := range results {
			if len(r) != 1 {
				t.Errorf("caller %d should receive the shared result, got %v", i, r)
			}
		}
	})
}

func TestAuth(t *testing.T) {
	t.Run("FetchUser Success", func(t *testing.T) {
		api := &tu.MockAPI{
			CurrentUserFn: func(ctx context.Context) (*models.User, error) {
				return &models.User{ID: "u1", Username: "alice", IsAdmin: true}, nil
			},
		}
		s := NewAuth(api, nil)

		user, err := s.FetchUser(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user == nil || user.Username != "alice" {
			t.Errorf("expected alice, got %+v", user)
		}
		if s.User() == nil {
			t.Error("user should be stored")
		}
	})

	t.Run("API Failure Means No Session", func(t *testing.T) {
		api := &tu.MockAPI{
			CurrentUserFn: func(ctx context.Context) (*models.User, error) {
				return nil, &services.FetchError{StatusCode: 401, Message: "Not authenticated"}
			},
		}
		s := NewAuth(api, nil)

		user, err := s.FetchUser(context.Background())
		if err != nil {
			t.Fatalf("a 401 should not surface as an error, got %v", err)
		}
		if user != nil {
			t.Errorf("expected nil user, got %+v", user)
		}
		if s.Err() != "" {
			t.Errorf("no-session should not store a display error, got %q", s.Err())
		}
	})

	t.Run("Transport Failure Stores Error", func(t *testing.T) {
		api := &tu.MockAPI{
			CurrentUserFn: func(ctx context.Context) (*models.User, error) {
				return nil, errors.New("connection refused")
			},
		}
		s := NewAuth(api, nil)

		if _, err := s.FetchUser(context.Background()); err == nil {
			t.Fatal("expected error")
		}
		if s.Err() == "" {
			t.Error("transport failure should store a display error")
		}
	})

	t.Run("Login Opens The Redirect URL", func(t *testing.T) {
		api := &tu.MockAPI{
			LoginURLFn: func(ctx context.Context) (string, error) {
				return "https://discord.example.com/oauth", nil
			},
		}
		s := NewAuth(api, nil)

		var opened string
		s.SetOpenURL(func(url string) error {
			opened = url
			return nil
		})

		url, err := s.Login(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if url != "https://discord.example.com/oauth" || opened != url {
			t.Errorf("expected browser opened at redirect URL, got %q / %q", url, opened)
		}
	})

	t.Run("Login Failure Stores Error", func(t *testing.T) {
		api := &tu.MockAPI{
			LoginURLFn: func(ctx context.Context) (string, error) {
				return "", errors.New("boom")
			},
		}
		s := NewAuth(api, nil)
		s.SetOpenURL(func(string) error { return nil })

		if _, err := s.Login(context.Background()); err == nil {
			t.Fatal("expected error")
		}
		if s.Err() == "" {
			t.Error("expected stored error message")
		}
	})

	t.Run("Logout Clears User Even On Remote Failure", func(t *testing.T) {
		api := &tu.MockAPI{
			CurrentUserFn: func(ctx context.Context) (*models.User, error) {
				return &models.User{ID: "u1", Username: "alice"}, nil
			},
			LogoutFn: func(ctx context.Context) error {
				return fmt.Errorf("server on fire")
			},
		}
		s := NewAuth(api, nil)

		s.FetchUser(context.Background())
		if s.User() == nil {
			t.Fatal("precondition: user should be logged in")
		}

		if err := s.Logout(context.Background()); err == nil {
			t.Error("remote failure should still be reported")
		}
		if s.User() != nil {
			t.Error("local user should be cleared regardless of remote result")
		}
	})
}
