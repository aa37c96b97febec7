// package models defines the data model for the MovieNite watchlist client
package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Status is the lifecycle state of a movie on the shared watchlist.
type Status string

const (
	StatusWatched   Status = "watched"
	StatusUpcoming  Status = "upcoming"
	StatusStreaming Status = "streaming"
)

// ParseStatus validates a raw status string from user input or the API.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusWatched:
		return StatusWatched, nil
	case StatusUpcoming:
		return StatusUpcoming, nil
	case StatusStreaming:
		return StatusStreaming, nil
	default:
		return "", fmt.Errorf("invalid status %q (want watched, upcoming or streaming)", s)
	}
}

// MovieUser is the user a movie is attributed to, as embedded in the
// movie payload. Distinct from [User], which is the authenticated session user.
type MovieUser struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
	DiscordID string `json:"discord_id,omitempty"`
}

// Movie represents one entry on the shared watchlist.
//
// Movies are created and mutated server-side only; the client treats every
// instance as an immutable snapshot and replaces the whole collection on refresh.
type Movie struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	OriginalTitle string     `json:"original_title,omitempty"`
	Description   string     `json:"description,omitempty"`
	ImageLink     string     `json:"image_link,omitempty"`
	LetterboxdURL string     `json:"letterboxd_url,omitempty"`
	IMDbURL       string     `json:"imdb_url,omitempty"`
	Rating        string     `json:"rating,omitempty"`
	Votes         string     `json:"votes,omitempty"`
	NoReviews     string     `json:"no_reviews,omitempty"`
	Status        Status     `json:"status"`
	InsertedAt    string     `json:"inserted_at,omitempty"`
	Boobies       bool       `json:"boobies"`
	User          *MovieUser `json:"user,omitempty"`
}

// Username returns the attributed username, or "" when the movie has no user.
func (m Movie) Username() string {
	if m.User == nil {
		return ""
	}
	return m.User.Username
}

// RatingValue parses the rating string into a float, stripping an optional
// "/10" suffix. Missing or unparseable ratings are 0.
func (m Movie) RatingValue() float64 {
	if m.Rating == "" {
		return 0
	}
	raw := strings.TrimSpace(strings.TrimSuffix(m.Rating, "/10"))
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

// InsertedTime parses the insertion timestamp. Missing or unparseable
// timestamps are the Unix epoch so they sort first under the default order.
func (m Movie) InsertedTime() time.Time {
	if m.InsertedAt == "" {
		return time.Unix(0, 0).UTC()
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, m.InsertedAt); err == nil {
			return t
		}
	}
	return time.Unix(0, 0).UTC()
}

// ReviewCount returns the display value for the vote/review count, preferring
// the vote total when both are present.
func (m Movie) ReviewCount() string {
	if m.Votes != "" {
		return m.Votes
	}
	return m.NoReviews
}

// User represents the authenticated session user.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Email     string `json:"email"`
	DiscordID string `json:"discord_id,omitempty"`
	CreatedAt string `json:"created_at"`
	IsAdmin   bool   `json:"is_admin"`
}

// CanModify reports whether this user may discard or flag the given movie.
// Admins may modify anything; ordinary users only their own non-watched
// movies. The server enforces the same rule, this mirror is for affordance
// display only.
func (u *User) CanModify(m Movie) bool {
	if u == nil {
		return false
	}
	if u.IsAdmin {
		return true
	}
	if m.User == nil || m.User.ID != u.ID {
		return false
	}
	return m.Status != StatusWatched
}
