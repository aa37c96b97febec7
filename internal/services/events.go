// Server-sent event subscription for realtime watchlist updates
package services

import (
	"bufio"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/movienite/nite/internal/shared"
)

// Event is one named server-sent event from the /api/events stream.
type Event struct {
	Name string
	Data string
}

// IsMovieChange reports whether the event signals that the watchlist changed
// and a full refetch is warranted. There is no incremental merge path, so the
// payload is irrelevant.
func (e Event) IsMovieChange() bool {
	switch e.Name {
	case "movie_update", "movie_added", "movie_deleted", "movie_status_set", "movie_boobies_toggled":
		return true
	default:
		return false
	}
}

// EventService maintains a long-lived SSE subscription to a MovieNite server.
//
// Connection loss is logged at warn level and followed by an automatic
// reconnect after a fixed delay, mirroring what a browser EventSource does.
// The subscription ends when the subscribing context is cancelled.
type EventService struct {
	baseURL        string
	httpClient     *http.Client
	logger         *log.Logger
	reconnectDelay time.Duration
	subscriberID   string
}

// NewEventService creates a subscriber for the server's event stream.
func NewEventService(baseURL string, client *http.Client, logger *log.Logger) *EventService {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	id := shared.GenerateID()
	return &EventService{
		baseURL:        strings.TrimRight(baseURL, "/"),
		httpClient:     client,
		logger:         shared.WithLogger(logger, "subscriber", id),
		reconnectDelay: 3 * time.Second,
		subscriberID:   id,
	}
}

// SetReconnectDelay overrides the pause between reconnect attempts.
func (s *EventService) SetReconnectDelay(d time.Duration) {
	if d > 0 {
		s.reconnectDelay = d
	}
}

// Subscribe opens the event stream and returns a channel of named events.
// The channel is closed once ctx is cancelled; the caller owns the context
// and must cancel it when the consuming scope ends so the connection is not
// leaked across remounts.
func (s *EventService) Subscribe(ctx context.Context) <-chan Event {
	events := make(chan Event)

	go func() {
		defer close(events)
		for {
			if err := s.stream(ctx, events); err != nil {
				if ctx.Err() != nil {
					return
				}
				s.logger.Warn("event stream lost, reconnecting", "error", err, "delay", s.reconnectDelay)
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(s.reconnectDelay):
			}
		}
	}()

	return events
}

// stream holds one connection open and forwards parsed events until the
// stream ends or ctx is cancelled.
func (s *EventService) stream(ctx context.Context, events chan<- Event) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/events", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &FetchError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	s.logger.Debug("event stream connected")

	scanner := bufio.NewScanner(resp.Body)
	// data lines can carry whole movie payloads; the scanner's default 64KB
	// token cap would drop the connection on an oversized line
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var name string
	var data []string

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if name != "" || len(data) > 0 {
				ev := Event{Name: name, Data: strings.Join(data, "\n")}
				if ev.Name == "" {
					ev.Name = "message"
				}
				select {
				case events <- ev:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			name, data = "", nil
		case strings.HasPrefix(line, ":"):
			// keep-alive comment
		case strings.HasPrefix(line, "event:"):
			name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		}
	}

	return scanner.Err()
}
