// MovieNite REST implementation of [API]
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/movienite/nite/internal/models"
	"github.com/movienite/nite/internal/shared"
)

const sessionCookie = "session_token"

var _ API = (*MovieService)(nil)

// FetchError represents a non-success HTTP response from the MovieNite API,
// carrying the status code and a human-readable message extracted from the body.
type FetchError struct {
	StatusCode int
	Message    string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
}

// NotAuthenticated reports whether the failure means "no session" rather than
// a server-side problem.
func (e *FetchError) NotAuthenticated() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// MovieService implements [API] against a MovieNite server.
type MovieService struct {
	baseURL      string
	httpClient   *http.Client
	sessionToken string
}

// NewMovieService creates a new MovieNite API client.
func NewMovieService(baseURL string, client *http.Client) *MovieService {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &MovieService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// SetSessionToken attaches a session cookie to every subsequent request.
// An empty token sends requests anonymously.
func (s *MovieService) SetSessionToken(token string) {
	s.sessionToken = token
}

// statusBody is the generic mutation response shape. The server reports some
// ingestion failures as 200s with an error field, so both are checked.
type statusBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Detail  string `json:"detail"`
}

func (s *MovieService) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.sessionToken != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: s.sessionToken})
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{StatusCode: resp.StatusCode, Message: extractMessage(data, resp.StatusCode)}
	}

	return data, nil
}

// extractMessage pulls a human-readable error out of a JSON body, falling
// back to the standard status text.
func extractMessage(body []byte, statusCode int) string {
	var sb statusBody
	if err := json.Unmarshal(body, &sb); err == nil {
		for _, msg := range []string{sb.Error, sb.Detail, sb.Message} {
			if msg != "" {
				return msg
			}
		}
	}
	return http.StatusText(statusCode)
}

// checkStatusBody rejects 200 responses that still carry an error field.
func checkStatusBody(data []byte) error {
	var sb statusBody
	if err := json.Unmarshal(data, &sb); err == nil && sb.Error != "" {
		return &FetchError{StatusCode: http.StatusOK, Message: sb.Error}
	}
	return nil
}

// ListMovies retrieves the shared watchlist. A missing movies key in the
// response yields an empty slice, not an error.
func (s *MovieService) ListMovies(ctx context.Context) ([]models.Movie, error) {
	data, err := s.do(ctx, http.MethodGet, "/api/movies", nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Movies []models.Movie `json:"movies"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode movie list: %w", err)
	}
	if payload.Movies == nil {
		return []models.Movie{}, nil
	}
	return payload.Movies, nil
}

// AddMovie submits a movie URL for ingestion.
func (s *MovieService) AddMovie(ctx context.Context, movieURL string) error {
	if strings.TrimSpace(movieURL) == "" {
		return fmt.Errorf("%w: movie URL must not be empty", shared.ErrInvalidInput)
	}

	data, err := s.do(ctx, http.MethodPost, "/api/movies", map[string]string{"movie_url": movieURL})
	if err != nil {
		return err
	}
	return checkStatusBody(data)
}

// SetMovieStatus moves a movie to the given lifecycle status.
func (s *MovieService) SetMovieStatus(ctx context.Context, id string, status models.Status) error {
	data, err := s.do(ctx, http.MethodPost, "/api/movies/"+id+"/set_status", map[string]string{"status": string(status)})
	if err != nil {
		return err
	}
	return checkStatusBody(data)
}

// DiscardMovie removes a movie from the watchlist.
func (s *MovieService) DiscardMovie(ctx context.Context, id string) error {
	data, err := s.do(ctx, http.MethodPost, "/api/movies/"+id+"/discard", nil)
	if err != nil {
		return err
	}
	return checkStatusBody(data)
}

// ToggleContentFlag flips the explicit-content flag on a movie.
func (s *MovieService) ToggleContentFlag(ctx context.Context, id string) error {
	data, err := s.do(ctx, http.MethodPost, "/api/movies/"+id+"/toggle_boobies", nil)
	if err != nil {
		return err
	}
	return checkStatusBody(data)
}

// CurrentUser returns the authenticated session user.
func (s *MovieService) CurrentUser(ctx context.Context) (*models.User, error) {
	data, err := s.do(ctx, http.MethodGet, "/api/user", nil)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	return &user, nil
}

// LoginURL asks the server where to send the browser for authentication.
func (s *MovieService) LoginURL(ctx context.Context) (string, error) {
	data, err := s.do(ctx, http.MethodGet, "/api/login", nil)
	if err != nil {
		return "", err
	}

	var payload struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("failed to decode login response: %w", err)
	}
	if payload.URL == "" {
		return "", fmt.Errorf("%w: server returned no login URL", shared.ErrAuthFailed)
	}
	return payload.URL, nil
}

// Logout terminates the server-side session.
func (s *MovieService) Logout(ctx context.Context) error {
	_, err := s.do(ctx, http.MethodPost, "/api/logout", nil)
	return err
}
