package auth

import "context"

type tokenKey struct{}

// WithAccessToken carries the caller's bearer token to the session provider.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// AccessTokenFrom returns the token stored by WithAccessToken, or "".
func AccessTokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}
