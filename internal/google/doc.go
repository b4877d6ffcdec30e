// Package google handles OAuth2 authorization against Google for the Gmail
// API.
//
// The Manager resolves an authorization grant scoped to exactly the
// operations the current invocation needs: sending always, draft creation
// and label mutation only when requested. Grants are persisted as JSON with
// their scope set so a cached grant can be reused or refreshed without
// prompting the user again, and are replaced wholesale whenever the cached
// scopes do not cover the request.
package google
