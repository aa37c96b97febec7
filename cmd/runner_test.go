package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/movienite/nite/internal/models"
	"github.com/movienite/nite/internal/shared"
	tu "github.com/movienite/nite/internal/testing"
	"github.com/urfave/cli/v3"
)

// newTestRunner builds a runner with a mock API, a buffered output and a
// config rooted in a temp directory.
func newTestRunner(t *testing.T, api *tu.MockAPI) (*Runner, *bytes.Buffer) {
	t.Helper()

	dir := t.TempDir()
	config := shared.DefaultConfig()
	config.Database.Path = filepath.Join(dir, "nite.db")

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: filepath.Join(dir, "config.toml"),
		API:        api,
		Output:     output,
	})
	return runner, output
}

// runCommand executes one CLI invocation against the runner's command tree.
func runCommand(t *testing.T, runner *Runner, args ...string) error {
	t.Helper()
	app := &cli.Command{Name: "nite", Commands: runner.register()}
	return app.Run(context.Background(), append([]string{"nite"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			api := &tu.MockAPI{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
				API:        api,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.api != api {
				t.Error("expected api to be set")
			}
			if runner.movies == nil || runner.auth == nil {
				t.Error("expected stores to be created")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.configPath != "config.toml" {
				t.Errorf("expected default config path, got %s", runner.configPath)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			// channels cannot be marshaled to JSON
			err := runner.writeJSON(make(chan int), false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.LimitedWriter{Successes: 1}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)

			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			}
		}
	})

	t.Run("saveSessionToken", func(t *testing.T) {
		runner, _ := newTestRunner(t, &tu.MockAPI{})

		if err := runner.saveSessionToken("tok123"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		loaded, err := shared.LoadConfig(runner.configPath)
		if err != nil {
			t.Fatalf("failed to reload config: %v", err)
		}
		if loaded.Session.Token != "tok123" {
			t.Errorf("expected token to be persisted, got %q", loaded.Session.Token)
		}
	})
}

func TestMovieCommands(t *testing.T) {
	t.Run("add submits the URL", func(t *testing.T) {
		var submitted string
		api := &tu.MockAPI{
			AddMovieFn: func(ctx context.Context, movieURL string) error {
				submitted = movieURL
				return nil
			},
		}
		runner, output := newTestRunner(t, api)

		err := runCommand(t, runner, "movies", "add", "https://letterboxd.com/film/paprika/")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if submitted != "https://letterboxd.com/film/paprika/" {
			t.Errorf("expected URL to reach the API, got %q", submitted)
		}
		if !strings.Contains(output.String(), "✓ Movie submitted") {
			t.Errorf("expected confirmation, got %q", output.String())
		}
	})

	t.Run("add without URL fails", func(t *testing.T) {
		runner, _ := newTestRunner(t, &tu.MockAPI{})

		if err := runCommand(t, runner, "movies", "add"); err == nil {
			t.Fatal("expected error for missing URL")
		}
	})

	t.Run("set-status parses and forwards the status", func(t *testing.T) {
		var gotID string
		var gotStatus models.Status
		api := &tu.MockAPI{
			SetStatusFn: func(ctx context.Context, id string, status models.Status) error {
				gotID, gotStatus = id, status
				return nil
			},
		}
		runner, _ := newTestRunner(t, api)

		err := runCommand(t, runner, "movies", "set-status", "--status", "Watched", "m1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if gotID != "m1" || gotStatus != models.StatusWatched {
			t.Errorf("expected (m1, watched), got (%s, %s)", gotID, gotStatus)
		}
	})

	t.Run("set-status rejects unknown status", func(t *testing.T) {
		runner, _ := newTestRunner(t, &tu.MockAPI{})

		err := runCommand(t, runner, "movies", "set-status", "--status", "binged", "m1")
		if err == nil {
			t.Fatal("expected error for invalid status")
		}
	})

	t.Run("users prints the distinct roster", func(t *testing.T) {
		api := &tu.MockAPI{
			ListMoviesFn: func(ctx context.Context) ([]models.Movie, error) {
				return []models.Movie{
					{ID: "1", Title: "A", Status: models.StatusWatched, User: &models.MovieUser{Username: "bob"}},
					{ID: "2", Title: "B", Status: models.StatusUpcoming, User: &models.MovieUser{Username: "alice"}},
					{ID: "3", Title: "C", Status: models.StatusUpcoming, User: &models.MovieUser{Username: "bob"}},
				}, nil
			},
		}
		runner, output := newTestRunner(t, api)

		if err := runCommand(t, runner, "movies", "users"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if output.String() != "alice\nbob\n" {
			t.Errorf("expected sorted deduped roster, got %q", output.String())
		}
	})

	t.Run("list groups by status", func(t *testing.T) {
		api := &tu.MockAPI{
			ListMoviesFn: func(ctx context.Context) ([]models.Movie, error) {
				return []models.Movie{
					{ID: "1", Title: "Now Showing", Status: models.StatusStreaming},
					{ID: "2", Title: "Old Favorite", Status: models.StatusWatched},
					{ID: "3", Title: "Next Week", Status: models.StatusUpcoming},
				}, nil
			},
		}
		runner, output := newTestRunner(t, api)

		if err := runCommand(t, runner, "movies", "list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		for _, want := range []string{"Streaming", "Now Showing", "Watched", "Old Favorite", "Upcoming", "Next Week"} {
			if !strings.Contains(result, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, result)
			}
		}
	})

	t.Run("list excludes blacklisted users", func(t *testing.T) {
		api := &tu.MockAPI{
			ListMoviesFn: func(ctx context.Context) ([]models.Movie, error) {
				return []models.Movie{
					{ID: "1", Title: "Heat", Status: models.StatusWatched, User: &models.MovieUser{Username: "alice"}},
					{ID: "2", Title: "Ronin", Status: models.StatusWatched, User: &models.MovieUser{Username: "bob"}},
				}, nil
			},
		}
		runner, output := newTestRunner(t, api)

		if err := runCommand(t, runner, "movies", "list", "--users", "bob", "--exclude"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		if !strings.Contains(result, "Heat") {
			t.Errorf("expected alice's movie in output, got:\n%s", result)
		}
		if strings.Contains(result, "Ronin") {
			t.Errorf("expected bob's movie to be excluded, got:\n%s", result)
		}
	})

	t.Run("list respects the search filter", func(t *testing.T) {
		api := &tu.MockAPI{
			ListMoviesFn: func(ctx context.Context) ([]models.Movie, error) {
				return []models.Movie{
					{ID: "1", Title: "Paprika", Status: models.StatusWatched},
					{ID: "2", Title: "Moon", Status: models.StatusWatched},
				}, nil
			},
		}
		runner, output := newTestRunner(t, api)

		if err := runCommand(t, runner, "movies", "list", "--search", "pap"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		if !strings.Contains(result, "Paprika") {
			t.Errorf("expected matching movie in output, got:\n%s", result)
		}
		if strings.Contains(result, "Moon") {
			t.Errorf("expected non-matching movie to be filtered out, got:\n%s", result)
		}
	})
}

func TestAuthCommands(t *testing.T) {
	t.Run("status reports missing session", func(t *testing.T) {
		runner, output := newTestRunner(t, &tu.MockAPI{})

		if err := runCommand(t, runner, "auth", "status"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "✗ Not authenticated") {
			t.Errorf("expected unauthenticated message, got %q", output.String())
		}
	})

	t.Run("status prints the session user", func(t *testing.T) {
		api := &tu.MockAPI{
			CurrentUserFn: func(ctx context.Context) (*models.User, error) {
				return &models.User{ID: "u1", Username: "alice", Email: "a@example.com", IsAdmin: true}, nil
			},
		}
		runner, output := newTestRunner(t, api)

		if err := runCommand(t, runner, "auth", "status"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		for _, want := range []string{"✓ Authenticated", "alice", "a@example.com", "admin"} {
			if !strings.Contains(result, want) {
				t.Errorf("expected output to contain %q, got %q", want, result)
			}
		}
	})

	t.Run("token persists the session", func(t *testing.T) {
		runner, output := newTestRunner(t, &tu.MockAPI{})

		if err := runCommand(t, runner, "auth", "token", "tok456"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "✓ Session token saved") {
			t.Errorf("expected confirmation, got %q", output.String())
		}

		loaded, err := shared.LoadConfig(runner.configPath)
		if err != nil {
			t.Fatalf("failed to reload config: %v", err)
		}
		if loaded.Session.Token != "tok456" {
			t.Errorf("expected token to be persisted, got %q", loaded.Session.Token)
		}
	})

	t.Run("import extracts the cookie from a cURL command", func(t *testing.T) {
		runner, _ := newTestRunner(t, &tu.MockAPI{})

		curl := `curl 'http://localhost:8000/api/movies' -H 'Cookie: session_token=abc123; theme=dark'`
		if err := runCommand(t, runner, "auth", "import", "--curl", curl); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		loaded, err := shared.LoadConfig(runner.configPath)
		if err != nil {
			t.Fatalf("failed to reload config: %v", err)
		}
		if loaded.Session.Token != "abc123" {
			t.Errorf("expected extracted token, got %q", loaded.Session.Token)
		}
	})

	t.Run("import without input fails", func(t *testing.T) {
		runner, _ := newTestRunner(t, &tu.MockAPI{})

		if err := runCommand(t, runner, "auth", "import"); err == nil {
			t.Fatal("expected error when neither --curl nor --curl-file is given")
		}
	})

	t.Run("logout clears the stored token", func(t *testing.T) {
		runner, output := newTestRunner(t, &tu.MockAPI{})
		if err := runner.saveSessionToken("stale"); err != nil {
			t.Fatalf("failed to seed token: %v", err)
		}

		if err := runCommand(t, runner, "auth", "logout"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "✓ Logged out") {
			t.Errorf("expected confirmation, got %q", output.String())
		}

		loaded, err := shared.LoadConfig(runner.configPath)
		if err != nil {
			t.Fatalf("failed to reload config: %v", err)
		}
		if loaded.Session.Token != "" {
			t.Errorf("expected token to be cleared, got %q", loaded.Session.Token)
		}
	})
}

func TestPrefsCommands(t *testing.T) {
	t.Run("set then show round-trips", func(t *testing.T) {
		runner, output := newTestRunner(t, &tu.MockAPI{})

		if err := runCommand(t, runner, "prefs", "set", "sort-field", "rating"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		output.Reset()
		if err := runCommand(t, runner, "prefs", "show"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "sort-field: rating") {
			t.Errorf("expected persisted preference, got %q", output.String())
		}
	})

	t.Run("set rejects invalid values", func(t *testing.T) {
		runner, _ := newTestRunner(t, &tu.MockAPI{})

		if err := runCommand(t, runner, "prefs", "set", "sort-field", "color"); err == nil {
			t.Fatal("expected error for invalid sort field")
		}
		if err := runCommand(t, runner, "prefs", "set", "shoe-size", "42"); err == nil {
			t.Fatal("expected error for unknown key")
		}
	})
}
