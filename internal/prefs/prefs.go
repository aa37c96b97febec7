// package prefs persists display preferences between sessions.
//
// Preferences are plain key/string-value pairs in the local sqlite database,
// mirroring what the browser frontend kept in localStorage. Search text, user
// filters and page indices are deliberately not stored here; they reset with
// every session.
package prefs

import (
	"database/sql"
	"fmt"
	"strconv"
)

// Persisted preference keys.
const (
	KeyViewType    = "view-type"    // list | grid
	KeySortField   = "sort-field"   // date | title | user | rating
	KeySortReverse = "sort-reverse" // true | false
	KeyPageSize    = "page-size"    // stringified int, 0 = unpaged
	KeyTheme       = "theme"        // system | light | dark
)

// Defaults applied when a key has never been written.
const (
	DefaultViewType    = "list"
	DefaultSortField   = "date"
	DefaultSortReverse = "true"
	DefaultPageSize    = "0"
	DefaultTheme       = "system"
)

// Store reads and writes preferences in the local database.
type Store struct {
	db *sql.DB
}

// NewStore creates a preference store on an already-migrated database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Get returns the stored value for key, or def when the key is absent.
func (s *Store) Get(key, def string) string {
	var value string
	err := s.db.QueryRow("SELECT value FROM preferences WHERE key = ?", key).Scan(&value)
	if err != nil {
		return def
	}
	return value
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to store preference %s: %w", key, err)
	}
	return nil
}

// Delete removes a stored preference, reverting it to its default.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM preferences WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete preference %s: %w", key, err)
	}
	return nil
}

// ViewType returns the persisted list/grid display mode.
func (s *Store) ViewType() string {
	v := s.Get(KeyViewType, DefaultViewType)
	if v != "list" && v != "grid" {
		return DefaultViewType
	}
	return v
}

func (s *Store) SetViewType(v string) error {
	if v != "list" && v != "grid" {
		return fmt.Errorf("invalid view type %q", v)
	}
	return s.Set(KeyViewType, v)
}

// SortField returns the persisted sort field name.
func (s *Store) SortField() string {
	v := s.Get(KeySortField, DefaultSortField)
	switch v {
	case "date", "title", "user", "rating":
		return v
	default:
		return DefaultSortField
	}
}

func (s *Store) SetSortField(v string) error {
	switch v {
	case "date", "title", "user", "rating":
		return s.Set(KeySortField, v)
	default:
		return fmt.Errorf("invalid sort field %q", v)
	}
}

// SortReverse returns the persisted sort direction, descending when true.
func (s *Store) SortReverse() bool {
	return s.Get(KeySortReverse, DefaultSortReverse) == "true"
}

func (s *Store) SetSortReverse(reverse bool) error {
	return s.Set(KeySortReverse, strconv.FormatBool(reverse))
}

// PageSize returns the persisted page size, 0 meaning unpaged. Malformed or
// negative stored values fall back to the default.
func (s *Store) PageSize() int {
	n, err := strconv.Atoi(s.Get(KeyPageSize, DefaultPageSize))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func (s *Store) SetPageSize(n int) error {
	if n < 0 {
		return fmt.Errorf("page size must not be negative, got %d", n)
	}
	return s.Set(KeyPageSize, strconv.Itoa(n))
}

// Theme returns the persisted theme selection.
func (s *Store) Theme() string {
	v := s.Get(KeyTheme, DefaultTheme)
	switch v {
	case "system", "light", "dark":
		return v
	default:
		return DefaultTheme
	}
}

func (s *Store) SetTheme(v string) error {
	switch v {
	case "system", "light", "dark":
		return s.Set(KeyTheme, v)
	default:
		return fmt.Errorf("invalid theme %q", v)
	}
}
