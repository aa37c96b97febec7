// package services defines interface API for talking to a MovieNite backend
package services

import (
	"context"

	"github.com/movienite/nite/internal/models"
)

// API is the REST contract exposed by a MovieNite server. Every method issues
// exactly one HTTP request, never retries, and surfaces non-2xx responses as
// a [*FetchError].
type API interface {
	// ListMovies retrieves the full shared watchlist in server order.
	ListMovies(ctx context.Context) ([]models.Movie, error)

	// AddMovie submits a movie URL for server-side ingestion. The server is
	// authoritative on URL parseability; the client only requires presence.
	AddMovie(ctx context.Context, movieURL string) error

	// SetMovieStatus moves a movie to the given lifecycle status (admin only).
	SetMovieStatus(ctx context.Context, id string, status models.Status) error

	// DiscardMovie removes a movie from the watchlist.
	DiscardMovie(ctx context.Context, id string) error

	// ToggleContentFlag flips the explicit-content flag on a movie.
	ToggleContentFlag(ctx context.Context, id string) error

	// CurrentUser returns the authenticated session user. A [*FetchError]
	// here means "no session", not a hard failure.
	CurrentUser(ctx context.Context) (*models.User, error)

	// LoginURL asks the server for the external auth provider redirect URL.
	LoginURL(ctx context.Context) (string, error)

	// Logout terminates the server-side session.
	Logout(ctx context.Context) error
}
