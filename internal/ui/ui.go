package ui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/movienite/nite/internal/models"
	"github.com/movienite/nite/internal/pipeline"
	"github.com/movienite/nite/internal/prefs"
	"github.com/movienite/nite/internal/services"
	"github.com/movienite/nite/internal/shared"
	"github.com/movienite/nite/internal/store"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	BrowseView ViewState = iota
	SearchView
	AddView
	ConfirmDiscardView
	UserFilterView
)

// section identifies one of the three status buckets on screen.
type section int

const (
	streamingSection section = iota
	watchedSection
	upcomingSection
)

// Opts contains the dependencies for creating a Model.
type Opts struct {
	API    services.API
	Movies *store.Movies
	Auth   *store.Auth
	Events *services.EventService
	Prefs  *prefs.Store
	Logger *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	view    ViewState
	api     services.API
	movies  *store.Movies
	auth    *store.Auth
	prefs   *prefs.Store
	logger  *log.Logger
	eventCh <-chan services.Event

	width  int
	height int

	collection []models.Movie
	lists      pipeline.DisplayLists
	criteria   pipeline.Criteria
	viewType   string
	theme      string

	hideWatched  bool
	hideUpcoming bool

	focus      section
	cursor     int
	userCursor int

	user    *models.User
	status  string
	errText string

	input   textinput.Model
	pending *models.Movie
	help    help.Model
	keys    keyMap
	styles  *Palette
}

type moviesRefreshedMsg struct {
	movies []models.Movie
	err    error
}

type userFetchedMsg struct {
	user *models.User
	err  error
}

type actionDoneMsg struct {
	action string
	err    error
}

type serverEventMsg struct {
	event services.Event
	ok    bool
}

type loginOpenedMsg struct {
	url string
	err error
}

// NewModel creates a new TUI model with the provided dependencies. Persisted
// preferences seed the initial sort, paging, view type and theme.
func NewModel(ctx context.Context, opts Opts) *Model {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	criteria := pipeline.DefaultCriteria()
	viewType := prefs.DefaultViewType
	theme := prefs.DefaultTheme
	if opts.Prefs != nil {
		if field, ok := pipeline.ParseSortField(opts.Prefs.SortField()); ok {
			criteria.Sort = field
		}
		criteria.Reverse = opts.Prefs.SortReverse()
		criteria.PageSize = opts.Prefs.PageSize()
		viewType = opts.Prefs.ViewType()
		theme = opts.Prefs.Theme()
	}

	input := textinput.New()
	input.CharLimit = 256

	m := &Model{
		ctx:      ctx,
		view:     BrowseView,
		api:      opts.API,
		movies:   opts.Movies,
		auth:     opts.Auth,
		prefs:    opts.Prefs,
		logger:   opts.Logger,
		criteria: criteria,
		viewType: viewType,
		theme:    theme,
		input:    input,
		help:     help.New(),
		keys:     newKeyMap(),
		styles:   ThemePalette(theme),
	}

	if opts.Events != nil {
		m.eventCh = opts.Events.Subscribe(ctx)
	}

	return m
}

// Init fetches the watchlist and the session user, and starts consuming
// server events.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.fetchMovies(), m.fetchUser()}
	if m.eventCh != nil {
		cmds = append(cmds, m.waitForEvent())
	}
	return tea.Batch(cmds...)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case BrowseView:
			return m.handleBrowseKeys(msg)
		case SearchView, AddView:
			return m.handleInputKeys(msg)
		case ConfirmDiscardView:
			return m.handleConfirmKeys(msg)
		case UserFilterView:
			return m.handleUserFilterKeys(msg)
		}

	case moviesRefreshedMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.errText = ""
		m.collection = msg.movies
		m.derive()
		return m, nil

	case userFetchedMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.user = msg.user
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.errText = ""
		m.status = "✓ " + msg.action
		return m, m.fetchMovies()

	case serverEventMsg:
		if !msg.ok {
			return m, nil
		}
		if msg.event.IsMovieChange() {
			return m, tea.Batch(m.fetchMovies(), m.waitForEvent())
		}
		return m, m.waitForEvent()

	case loginOpenedMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.status = "login page opened, import the session with 'nite auth import'"
		return m, nil
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case SearchView:
		return m.renderInput("Search titles")
	case AddView:
		return m.renderInput("Add a movie by IMDb or Letterboxd URL")
	case ConfirmDiscardView:
		return m.renderConfirm()
	case UserFilterView:
		return m.renderUserFilter()
	default:
		return m.renderBrowse()
	}
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// admin-only status moves on digit keys
	if m.user != nil && m.user.IsAdmin {
		if status, ok := statusForKey(msg.String()); ok {
			if sel := m.selected(); sel != nil {
				return m, m.doAction(fmt.Sprintf("moved %q to %s", sel.Title, status), func(ctx context.Context) error {
					return m.api.SetMovieStatus(ctx, sel.ID, status)
				})
			}
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.down):
		if m.cursor < len(m.focusedMovies())-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.section):
		m.focus = m.nextVisibleSection()
		m.cursor = 0
		return m, nil

	case key.Matches(msg, m.keys.users):
		m.view = UserFilterView
		m.userCursor = 0
		return m, nil

	case key.Matches(msg, m.keys.hideWatched):
		m.hideWatched = !m.hideWatched
		if m.hideWatched && m.focus == watchedSection {
			m.focus = streamingSection
			m.cursor = 0
		}
		return m, nil

	case key.Matches(msg, m.keys.hideUpcoming):
		m.hideUpcoming = !m.hideUpcoming
		if m.hideUpcoming && m.focus == upcomingSection {
			m.focus = streamingSection
			m.cursor = 0
		}
		return m, nil

	case key.Matches(msg, m.keys.search):
		m.view = SearchView
		m.input.Placeholder = "title contains..."
		m.input.SetValue(m.criteria.Search)
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.add):
		m.view = AddView
		m.input.Placeholder = "https://letterboxd.com/film/..."
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.refresh):
		return m, m.fetchMovies()

	case key.Matches(msg, m.keys.sort):
		m.criteria.Sort = nextSortField(m.criteria.Sort)
		m.persistSort()
		m.derive()
		return m, nil

	case key.Matches(msg, m.keys.reverse):
		m.criteria.Reverse = !m.criteria.Reverse
		m.persistSort()
		m.derive()
		return m, nil

	case key.Matches(msg, m.keys.content):
		m.criteria.Content = nextContentFilter(m.criteria.Content)
		m.derive()
		return m, nil

	case key.Matches(msg, m.keys.pageSize):
		m.criteria.PageSize = nextPageSize(m.criteria.PageSize)
		// a new size renumbers every page, so both cursors restart at the top
		m.criteria.WatchedPage = 0
		m.criteria.UpcomingPage = 0
		if m.prefs != nil {
			if err := m.prefs.SetPageSize(m.criteria.PageSize); err != nil {
				m.logger.Warn("failed to persist page size", "error", err)
			}
		}
		m.derive()
		return m, nil

	case key.Matches(msg, m.keys.nextPage):
		m.movePage(1)
		return m, nil

	case key.Matches(msg, m.keys.prevPage):
		m.movePage(-1)
		return m, nil

	case key.Matches(msg, m.keys.view):
		if m.viewType == "grid" {
			m.viewType = "list"
		} else {
			m.viewType = "grid"
		}
		if m.prefs != nil {
			if err := m.prefs.SetViewType(m.viewType); err != nil {
				m.logger.Warn("failed to persist view type", "error", err)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.theme):
		m.theme = nextTheme(m.theme)
		m.styles = ThemePalette(m.theme)
		if m.prefs != nil {
			if err := m.prefs.SetTheme(m.theme); err != nil {
				m.logger.Warn("failed to persist theme", "error", err)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.login):
		return m, m.openLogin()

	case key.Matches(msg, m.keys.logout):
		m.user = nil
		return m, m.doAction("logged out", func(ctx context.Context) error {
			return m.auth.Logout(ctx)
		})

	case key.Matches(msg, m.keys.discard):
		sel := m.selected()
		if sel == nil {
			return m, nil
		}
		if !m.user.CanModify(*sel) {
			m.errText = "you cannot discard this movie"
			return m, nil
		}
		m.pending = sel
		m.view = ConfirmDiscardView
		return m, nil

	case key.Matches(msg, m.keys.flag):
		sel := m.selected()
		if sel == nil {
			return m, nil
		}
		if !m.user.CanModify(*sel) {
			m.errText = "you cannot flag this movie"
			return m, nil
		}
		return m, m.doAction(fmt.Sprintf("toggled flag on %q", sel.Title), func(ctx context.Context) error {
			return m.api.ToggleContentFlag(ctx, sel.ID)
		})
	}

	return m, nil
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.view = BrowseView
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keys.enter):
		value := strings.TrimSpace(m.input.Value())
		view := m.view
		m.view = BrowseView
		m.input.Blur()

		if view == SearchView {
			m.criteria.Search = value
			m.derive()
			return m, nil
		}

		if value == "" {
			return m, nil
		}
		return m, m.doAction("movie submitted", func(ctx context.Context) error {
			return m.api.AddMovie(ctx, value)
		})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		pending := m.pending
		m.pending = nil
		m.view = BrowseView
		if pending == nil {
			return m, nil
		}
		return m, m.doAction(fmt.Sprintf("discarded %q", pending.Title), func(ctx context.Context) error {
			return m.api.DiscardMovie(ctx, pending.ID)
		})

	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.quit):
		m.pending = nil
		m.view = BrowseView
		return m, nil
	}
	return m, nil
}

func (m *Model) handleUserFilterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	roster := pipeline.Usernames(m.collection)

	switch {
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.users), key.Matches(msg, m.keys.quit):
		m.view = BrowseView

	case key.Matches(msg, m.keys.up):
		if m.userCursor > 0 {
			m.userCursor--
		}

	case key.Matches(msg, m.keys.down):
		if m.userCursor < len(roster)-1 {
			m.userCursor++
		}

	case key.Matches(msg, m.keys.enter):
		if m.userCursor < len(roster) {
			m.criteria.User.Users = toggleName(m.criteria.User.Users, roster[m.userCursor])
			m.derive()
		}

	case msg.String() == "m":
		if m.criteria.User.Mode == pipeline.ModeBlacklist {
			m.criteria.User.Mode = pipeline.ModeWhitelist
		} else {
			m.criteria.User.Mode = pipeline.ModeBlacklist
		}
		m.derive()

	case msg.String() == "c":
		m.criteria.User.Users = nil
		m.derive()
	}

	return m, nil
}

func toggleName(names []string, name string) []string {
	if i := slices.Index(names, name); i >= 0 {
		return slices.Delete(names, i, i+1)
	}
	return append(names, name)
}

// nextVisibleSection advances focus to the next section that is not hidden.
func (m *Model) nextVisibleSection() section {
	next := m.focus
	for range 3 {
		next = (next + 1) % 3
		if next == watchedSection && m.hideWatched {
			continue
		}
		if next == upcomingSection && m.hideUpcoming {
			continue
		}
		return next
	}
	return m.focus
}

// derive recomputes the display lists and syncs the page cursors with the
// clamped result so a shrinking bucket cannot strand them.
func (m *Model) derive() {
	m.lists = pipeline.Derive(m.collection, m.criteria)
	m.criteria.WatchedPage = m.lists.Watched.Index
	m.criteria.UpcomingPage = m.lists.Upcoming.Index

	if n := len(m.focusedMovies()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) focusedMovies() []models.Movie {
	switch m.focus {
	case watchedSection:
		return m.lists.Watched.Movies
	case upcomingSection:
		return m.lists.Upcoming.Movies
	default:
		return m.lists.Streaming
	}
}

// selected returns the movie under the cursor, nil when the focused bucket is empty.
func (m *Model) selected() *models.Movie {
	movies := m.focusedMovies()
	if m.cursor < 0 || m.cursor >= len(movies) {
		return nil
	}
	movie := movies[m.cursor]
	return &movie
}

func (m *Model) movePage(delta int) {
	switch m.focus {
	case watchedSection:
		m.criteria.WatchedPage += delta
	case upcomingSection:
		m.criteria.UpcomingPage += delta
	default:
		return
	}
	m.derive()
}

func (m *Model) persistSort() {
	if m.prefs == nil {
		return
	}
	if err := m.prefs.SetSortField(string(m.criteria.Sort)); err != nil {
		m.logger.Warn("failed to persist sort field", "error", err)
	}
	if err := m.prefs.SetSortReverse(m.criteria.Reverse); err != nil {
		m.logger.Warn("failed to persist sort direction", "error", err)
	}
}

func (m *Model) fetchMovies() tea.Cmd {
	return func() tea.Msg {
		movies, err := m.movies.Refresh(m.ctx)
		return moviesRefreshedMsg{movies: movies, err: err}
	}
}

func (m *Model) fetchUser() tea.Cmd {
	return func() tea.Msg {
		user, err := m.auth.FetchUser(m.ctx)
		return userFetchedMsg{user: user, err: err}
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.eventCh
		return serverEventMsg{event: ev, ok: ok}
	}
}

func (m *Model) doAction(action string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{action: action, err: fn(m.ctx)}
	}
}

func (m *Model) openLogin() tea.Cmd {
	return func() tea.Msg {
		url, err := m.auth.Login(m.ctx)
		return loginOpenedMsg{url: url, err: err}
	}
}

func statusForKey(k string) (models.Status, bool) {
	switch k {
	case "1":
		return models.StatusWatched, true
	case "2":
		return models.StatusUpcoming, true
	case "3":
		return models.StatusStreaming, true
	default:
		return "", false
	}
}

func nextSortField(f pipeline.SortField) pipeline.SortField {
	switch f {
	case pipeline.SortDate:
		return pipeline.SortTitle
	case pipeline.SortTitle:
		return pipeline.SortUser
	case pipeline.SortUser:
		return pipeline.SortRating
	default:
		return pipeline.SortDate
	}
}

func nextContentFilter(f pipeline.ContentFilter) pipeline.ContentFilter {
	switch f {
	case pipeline.ContentAll:
		return pipeline.ContentUnflagged
	case pipeline.ContentUnflagged:
		return pipeline.ContentFlagged
	default:
		return pipeline.ContentAll
	}
}

func nextPageSize(size int) int {
	switch size {
	case 0:
		return 10
	case 10:
		return 25
	case 25:
		return 50
	default:
		return 0
	}
}

func nextTheme(theme string) string {
	switch theme {
	case "system":
		return "light"
	case "light":
		return "dark"
	default:
		return "system"
	}
}
