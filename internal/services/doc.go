// Package services contains the HTTP clients for the MovieNite backend.
//
// [MovieService] implements the [API] REST contract: one request per call, no
// automatic retries, failures surfaced as [*FetchError] values carrying the
// HTTP status and a message extracted from the response body.
//
// [EventService] subscribes to the server's /api/events SSE stream and
// forwards named events; it reconnects on its own after transport errors,
// standing in for the automatic reconnection a browser EventSource provides.
package services
