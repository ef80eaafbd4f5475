package service

// TokenCarrier is the surface of the HTTP client the session layer
// drives. The session store pushes tokens into it after login/restore
// and registers the handler invoked when a request ultimately cannot be
// re-authenticated (401 after a failed refresh).
type TokenCarrier interface {
	// SetAuthTokens replaces both tokens. Empty strings clear them.
	SetAuthTokens(access, refresh string)

	// SetAuthExpiredHandler registers the zero-argument callback fired
	// when token refresh fails for good. A nil handler unregisters.
	SetAuthExpiredHandler(handler func())
}
