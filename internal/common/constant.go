package common

const (
	// AuthorizationHeaderName carries the bearer token on every protected request.
	AuthorizationHeaderName = "Authorization"

	// BearerScheme is the only accepted authorization scheme.
	BearerScheme = "Bearer"

	// RequestIDHeaderName is echoed back on every response.
	RequestIDHeaderName = "X-Request-ID"
)
