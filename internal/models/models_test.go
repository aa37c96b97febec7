package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseStatus(t *testing.T) {
	t.Run("Valid Values", func(t *testing.T) {
		cases := map[string]Status{
			"watched":   StatusWatched,
			"upcoming":  StatusUpcoming,
			"streaming": StatusStreaming,
			"Watched":   StatusWatched,
			" upcoming ": StatusUpcoming,
		}
		for raw, want := range cases {
			got, err := ParseStatus(raw)
			if err != nil {
				t.Errorf("ParseStatus(%q) returned error: %v", raw, err)
			}
			if got != want {
				t.Errorf("ParseStatus(%q) = %q, want %q", raw, got, want)
			}
		}
	})

	t.Run("Invalid Value", func(t *testing.T) {
		if _, err := ParseStatus("deleted"); err == nil {
			t.Error("expected error for invalid status")
		}
	})
}

func TestMovieRatingValue(t *testing.T) {
	t.Run("With Suffix", func(t *testing.T) {
		m := Movie{Rating: "8.1/10"}
		if got := m.RatingValue(); got != 8.1 {
			t.Errorf("expected 8.1, got %v", got)
		}
	})

	t.Run("Bare Number", func(t *testing.T) {
		m := Movie{Rating: "9"}
		if got := m.RatingValue(); got != 9 {
			t.Errorf("expected 9, got %v", got)
		}
	})

	t.Run("Missing", func(t *testing.T) {
		m := Movie{}
		if got := m.RatingValue(); got != 0 {
			t.Errorf("expected 0 for missing rating, got %v", got)
		}
	})

	t.Run("Unparseable", func(t *testing.T) {
		m := Movie{Rating: "N/A"}
		if got := m.RatingValue(); got != 0 {
			t.Errorf("expected 0 for unparseable rating, got %v", got)
		}
	})
}

func TestMovieInsertedTime(t *testing.T) {
	t.Run("RFC3339", func(t *testing.T) {
		m := Movie{InsertedAt: "2024-03-01T12:30:00Z"}
		want := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
		if got := m.InsertedTime(); !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("Missing Defaults To Epoch", func(t *testing.T) {
		m := Movie{}
		if got := m.InsertedTime(); got.Unix() != 0 {
			t.Errorf("expected epoch, got %v", got)
		}
	})

	t.Run("Unparseable Defaults To Epoch", func(t *testing.T) {
		m := Movie{InsertedAt: "yesterday"}
		if got := m.InsertedTime(); got.Unix() != 0 {
			t.Errorf("expected epoch, got %v", got)
		}
	})
}

func TestMovieUsername(t *testing.T) {
	with := Movie{User: &MovieUser{Username: "alice"}}
	without := Movie{}

	if with.Username() != "alice" {
		t.Errorf("expected 'alice', got %q", with.Username())
	}
	if without.Username() != "" {
		t.Errorf("expected empty username, got %q", without.Username())
	}
}

func TestUserCanModify(t *testing.T) {
	admin := &User{ID: "1", IsAdmin: true}
	owner := &User{ID: "2"}
	other := &User{ID: "3"}

	upcoming := Movie{Status: StatusUpcoming, User: &MovieUser{ID: "2"}}
	watched := Movie{Status: StatusWatched, User: &MovieUser{ID: "2"}}
	orphan := Movie{Status: StatusUpcoming}

	t.Run("Admin Modifies Anything", func(t *testing.T) {
		for _, m := range []Movie{upcoming, watched, orphan} {
			if !admin.CanModify(m) {
				t.Errorf("admin should be able to modify movie %+v", m)
			}
		}
	})

	t.Run("Owner Modifies Own Non-Watched", func(t *testing.T) {
		if !owner.CanModify(upcoming) {
			t.Error("owner should be able to modify own upcoming movie")
		}
		if owner.CanModify(watched) {
			t.Error("owner should not be able to modify own watched movie")
		}
	})

	t.Run("Others And Anonymous Denied", func(t *testing.T) {
		if other.CanModify(upcoming) {
			t.Error("non-owner should not be able to modify the movie")
		}
		if owner.CanModify(orphan) {
			t.Error("unattributed movies are admin-only")
		}
		var nobody *User
		if nobody.CanModify(upcoming) {
			t.Error("nil user should not be able to modify anything")
		}
	})
}

func TestMovieJSON(t *testing.T) {
	raw := `{
		"id": "m1",
		"title": "Paprika",
		"rating": "7.7/10",
		"status": "upcoming",
		"inserted_at": "2024-05-20T10:00:00Z",
		"boobies": false,
		"user": {"id": "u1", "username": "alice", "discord_id": "1234"}
	}`

	var m Movie
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("failed to unmarshal movie: %v", err)
	}
	if m.Title != "Paprika" {
		t.Errorf("expected title 'Paprika', got %q", m.Title)
	}
	if m.Status != StatusUpcoming {
		t.Errorf("expected upcoming status, got %q", m.Status)
	}
	if m.User == nil || m.User.DiscordID != "1234" {
		t.Errorf("expected attributed user with discord id, got %+v", m.User)
	}
}
