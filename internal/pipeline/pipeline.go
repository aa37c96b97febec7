// package pipeline derives the display lists shown in every frontend.
//
// Derive is a pure function from the full movie collection plus the
// user-controlled criteria to three display-ready buckets. It holds no state
// and is recomputed from scratch whenever either input changes, so the CLI,
// the TUI and the tests all share exactly one implementation.
package pipeline

import (
	"cmp"
	"slices"
	"strings"

	"github.com/movienite/nite/internal/models"
)

// SortField selects the comparator used on the watched and upcoming buckets.
type SortField string

const (
	SortDate   SortField = "date"
	SortTitle  SortField = "title"
	SortUser   SortField = "user"
	SortRating SortField = "rating"
)

// ParseSortField validates a raw sort field name.
func ParseSortField(s string) (SortField, bool) {
	switch SortField(strings.ToLower(strings.TrimSpace(s))) {
	case SortDate:
		return SortDate, true
	case SortTitle:
		return SortTitle, true
	case SortUser:
		return SortUser, true
	case SortRating:
		return SortRating, true
	default:
		return "", false
	}
}

// ContentFilter narrows the collection by the explicit-content flag.
type ContentFilter string

const (
	ContentAll       ContentFilter = "all"
	ContentFlagged   ContentFilter = "flagged"
	ContentUnflagged ContentFilter = "unflagged"
)

// FilterMode switches the user set filter between inclusion and exclusion.
type FilterMode string

const (
	ModeWhitelist FilterMode = "whitelist"
	ModeBlacklist FilterMode = "blacklist"
)

// UserFilter narrows the collection by attributed user. When Users is
// non-empty it acts as a whitelist or blacklist of exact usernames; otherwise
// a non-empty Query keeps movies whose username contains it. Movies without
// an attributed user survive only blacklist mode.
type UserFilter struct {
	Query string
	Users []string
	Mode  FilterMode
}

func (f UserFilter) keep(m models.Movie) bool {
	username := strings.ToLower(m.Username())

	if len(f.Users) > 0 {
		inSet := slices.ContainsFunc(f.Users, func(u string) bool {
			return strings.ToLower(u) == username && username != ""
		})
		if f.Mode == ModeBlacklist {
			return !inSet
		}
		return inSet
	}

	if query := strings.ToLower(strings.TrimSpace(f.Query)); query != "" {
		return username != "" && strings.Contains(username, query)
	}

	return true
}

// Criteria is the combined user-controlled filter/sort/page state.
type Criteria struct {
	Search  string
	User    UserFilter
	Content ContentFilter

	Sort    SortField
	Reverse bool

	// PageSize 0 means unpaged. Page indices are zero-based, per bucket, and
	// clamped on every derivation so a shrinking bucket can never strand the
	// cursor past the end.
	PageSize     int
	WatchedPage  int
	UpcomingPage int
}

// DefaultCriteria matches a fresh browser session: date sort, newest first,
// unpaged, nothing filtered.
func DefaultCriteria() Criteria {
	return Criteria{Content: ContentAll, Sort: SortDate, Reverse: true}
}

// Page is one display-ready slice of a bucket.
type Page struct {
	Movies []models.Movie
	Index  int // clamped page index actually shown
	Total  int // total page count, 0 when paging is off
}

// DisplayLists is the derived output: the streaming bucket in server order
// plus the sorted, paginated watched and upcoming buckets.
type DisplayLists struct {
	Streaming []models.Movie
	Watched   Page
	Upcoming  Page
}

// Filter retains movies matching all active criteria: the user filter, the
// content-flag filter, and a trimmed case-insensitive title substring query.
func Filter(movies []models.Movie, c Criteria) []models.Movie {
	query := strings.ToLower(strings.TrimSpace(c.Search))

	out := make([]models.Movie, 0, len(movies))
	for _, m := range movies {
		if !c.User.keep(m) {
			continue
		}
		if c.Content == ContentFlagged && !m.Boobies {
			continue
		}
		if c.Content == ContentUnflagged && m.Boobies {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(m.Title), query) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Comparator builds the movie ordering for a sort field. Missing values
// collate via the model accessors: epoch for dates, empty string for titles
// and usernames, zero for ratings. Reverse negates the result.
func Comparator(field SortField, reverse bool) func(a, b models.Movie) int {
	var compare func(a, b models.Movie) int

	switch field {
	case SortTitle:
		compare = func(a, b models.Movie) int {
			return cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		}
	case SortUser:
		compare = func(a, b models.Movie) int {
			return cmp.Compare(strings.ToLower(a.Username()), strings.ToLower(b.Username()))
		}
	case SortRating:
		compare = func(a, b models.Movie) int {
			return cmp.Compare(a.RatingValue(), b.RatingValue())
		}
	default: // SortDate
		compare = func(a, b models.Movie) int {
			return a.InsertedTime().Compare(b.InsertedTime())
		}
	}

	if !reverse {
		return compare
	}
	return func(a, b models.Movie) int { return -compare(a, b) }
}

// Paginate slices one bucket. Size 0 returns the whole bucket as a single
// unpaged view; otherwise the index is clamped to the valid range before
// slicing so a stale index still yields the last page.
func Paginate(movies []models.Movie, size, index int) Page {
	if size <= 0 {
		return Page{Movies: movies}
	}

	total := (len(movies) + size - 1) / size
	if total == 0 {
		return Page{Movies: []models.Movie{}, Total: 0}
	}

	index = min(max(index, 0), total-1)
	start := index * size
	end := min(start+size, len(movies))

	return Page{Movies: movies[start:end], Index: index, Total: total}
}

// Derive runs the full chain: filter, bucket by status, sort the watched and
// upcoming buckets with a stable sort, and paginate each independently. The
// streaming bucket stays in server order and is never paginated.
func Derive(movies []models.Movie, c Criteria) DisplayLists {
	filtered := Filter(movies, c)

	var streaming, watched, upcoming []models.Movie
	for _, m := range filtered {
		switch m.Status {
		case models.StatusStreaming:
			streaming = append(streaming, m)
		case models.StatusWatched:
			watched = append(watched, m)
		default:
			upcoming = append(upcoming, m)
		}
	}

	compare := Comparator(c.Sort, c.Reverse)
	slices.SortStableFunc(watched, compare)
	slices.SortStableFunc(upcoming, compare)

	return DisplayLists{
		Streaming: streaming,
		Watched:   Paginate(watched, c.PageSize, c.WatchedPage),
		Upcoming:  Paginate(upcoming, c.PageSize, c.UpcomingPage),
	}
}

// Usernames returns the distinct attributed usernames in the collection,
// sorted case-insensitively. Feeds the user filter roster.
func Usernames(movies []models.Movie) []string {
	seen := make(map[string]string)
	for _, m := range movies {
		if name := m.Username(); name != "" {
			key := strings.ToLower(name)
			if _, ok := seen[key]; !ok {
				seen[key] = name
			}
		}
	}

	out := make([]string, 0, len(seen))
	for _, name := range seen {
		out = append(out, name)
	}
	slices.SortFunc(out, func(a, b string) int {
		return cmp.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return out
}
