// Package models defines domain entities shared by every layer of the nite client.
//
// The package contains two categories of types:
//
// 1. Wire types mirroring the MovieNite API payloads:
//   - [Movie] : One watchlist entry with optional metadata fields
//   - [MovieUser] : The user a movie is attributed to
//   - [User] : The authenticated session user
//
// 2. Value helpers with documented default-on-absence behavior:
//   - [Movie.RatingValue] : "8.1/10" or "9" style ratings, missing/unparseable = 0
//   - [Movie.InsertedTime] : insertion timestamps, missing/unparseable = Unix epoch
//   - [Movie.Username] : attributed username, missing = ""
//
// Several movie fields are optional on the wire; the accessors above are the
// only sanctioned way to read them for sorting so that absent data always
// collates the same way.
package models
