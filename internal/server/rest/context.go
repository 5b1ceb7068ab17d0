package rest

import "context"

type ctxKey string

const (
	vaultPrefixKey ctxKey = "vaultPrefix"
	requestIDKey   ctxKey = "requestID"
)

// VaultPrefixFromContext returns the vault prefix set by the auth middleware.
func VaultPrefixFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(vaultPrefixKey).(string)
	return v, ok && v != ""
}

func withVaultPrefix(ctx context.Context, prefix string) context.Context {
	return context.WithValue(ctx, vaultPrefixKey, prefix)
}

// RequestIDFromContext returns the id assigned to the current request.
func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}
