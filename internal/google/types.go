package google

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// AuthError represents a failure to resolve an authorization grant.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("google: %s: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Grant is an authorization credential bound to a specific scope set.
// A grant is usable for an operation only if its scopes are a superset of
// the scopes that operation requires.
type Grant struct {
	Token  *oauth2.Token
	Scopes []string

	source oauth2.TokenSource
}

// Client returns an HTTP client that authenticates requests with the grant.
func (g *Grant) Client(ctx context.Context) *http.Client {
	return oauth2.NewClient(ctx, g.source)
}

// Covers reports whether the grant's scopes include every requested scope.
func (g *Grant) Covers(scopes []string) bool {
	return scopeSuperset(g.Scopes, scopes)
}
