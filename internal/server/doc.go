// Package server provides HTTP routing, middleware, and the login redirect catcher for the CLI and TUI.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Redirect Catcher
//
// After login the backend redirects the browser to http://127.0.0.1:3000/#access_token=...
// A URL fragment never reaches the server, so [TokenHandler] serves a small page on "/" that reads
// location.hash, removes it from the address bar with history.replaceState, and posts the token to "/token".
// A token sent as a query parameter is accepted directly.
//
// Only the first token is accepted. The result is delivered once through [TokenHandler.Result]
// and the CLI shuts the server down after receiving it.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
