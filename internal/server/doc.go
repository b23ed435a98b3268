// Package server provides HTTP routing, middleware, and the OAuth callback
// flow used during YouTube authentication.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the OAuth2 authorization code callback flow.
//
// The handler validates the state parameter (CSRF protection), exchanges the authorization code for tokens,
// and sends the result through a channel.
//
// It only processes one callback to prevent replay attacks.
//
// # Current Usage
//
// When the user runs `artx auth youtube`, [WaitForToken] starts a temporary
// loopback HTTP server, opens the Google consent URL in the browser, handles
// the redirect, and shuts down after receiving the OAuth token. The token is
// persisted for later API calls by the caller.
package server
