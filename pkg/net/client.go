package net

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
)

// GetOAuthClient returns an HTTP client that sends the given static token
// as a bearer credential. Used for direct (non-RapidAPI) listing API access.
func GetOAuthClient(ctx context.Context, token string) *http.Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{
			TokenType:   "Bearer",
			AccessToken: token,
		},
	)
	tc := oauth2.NewClient(ctx, ts)

	return tc
}
