// Package server provides HTTP routing, middleware and the JSON API for music preferences.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation registers "METHOD /path" patterns on an [http.ServeMux], which
// answers 405 for a known path requested with another method.
//
// # Middleware
//
//   - [RequestID] assigns a uuid per request unless the client sent one
//   - [Logging] writes one structured log line per request
//   - [Recover] converts panics into 500 responses
//   - [RateLimit] applies a token bucket and answers 429 when it is empty
//
// # Preference API
//
// [PreferenceHandler] exposes the preference operations under /api/preferences. Bodies and
// responses are JSON; records use the plain mapping keys (uid, name, favorites, musicPlatform, ...).
// Errors are returned as {"error": "..."} with the status chosen by [StatusFor].
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
//
// # Lifecycle
//
// [Serve] runs the server until its context is cancelled and then shuts down gracefully.
package server
