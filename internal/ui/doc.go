// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI renders the shared watchlist as three status sections:
//  1. Streaming : movies currently on screen, in server order
//  2. Watched : past movies, sorted and paginated
//  3. Upcoming : the queue, sorted and paginated
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Server-sent events flow through a channel from the EventService; every movie
// change triggers a full refetch, keeping the screen live without an incremental
// merge path. Filter, sort and page controls mutate a pipeline.Criteria and
// re-derive the lists locally, so they cost no network round trips.
//
// Keyboard navigation uses vim-style bindings (j/k, tab, enter, esc, y/n, q)
// with contextual help displayed via charmbracelet/bubbles/help. Sort, paging,
// view type and theme changes persist through the prefs store, mirroring what
// the browser frontend kept in localStorage.
package ui
