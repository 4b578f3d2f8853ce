// Package services implements the HTTP client for the play queue service.
//
// # API Service
//
// [APIService] makes raw HTTP requests to the queue server and returns
// [APIResponse] values carrying the status, headers, and decoded JSON body.
// The CLI uses it directly for dump-style output.
//
// # Queue Client
//
// [QueueClient] wraps [APIService] with typed methods mirroring the server's
// endpoints. Responses decode into the shared models package types
// ([models.QueueView], [models.NowPlaying], [models.CountResult]).
//
// # Error Handling
//
// Non-2xx responses are surfaced as [shared.ErrAPIRequest] wrapped with the
// server's error message, matched via errors.Is.
package services
