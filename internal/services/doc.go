// Package services talks to the journey backend over HTTP.
//
// # Backend
//
// [Backend] implements [Gateway], the typed client used by the rest of the module:
//
//   - GET  /login          → authorization URL
//   - GET  /user-profile   → [models.Profile]
//   - GET  /top-artists    → []models.TopArtist
//   - GET  /top-tracks     → []models.TopTrack
//   - POST /create-journey → [journey.Result]
//   - GET  /               → [Health]
//
// Profile and top lists are relayed Spotify Web API objects, decoded with the
// github.com/zmb3/spotify types and flattened into the models package.
//
// The create-journey response is decided once into [journey.Success] or [journey.Failure].
// A 2xx body with an "error" field is a Failure; a non-2xx status is an [HTTPError].
//
// # Raw API
//
// [APIService] performs untyped GET/POST calls for the api command.
//
// # Error Handling
//
// Errors wrap sentinels from the shared package:
//   - [shared.ErrServiceUnavailable] : the backend could not be reached
//   - [shared.ErrAPIRequest] : non-2xx status, see [HTTPError]
//   - [shared.ErrPayload] : undecodable response body
//   - [shared.ErrNotAuthenticated] : a call needing a token was made without one
//
// Every request carries an X-Request-ID header. Nothing is retried.
package services
