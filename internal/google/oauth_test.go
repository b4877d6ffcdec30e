package google

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	gmail "google.golang.org/api/gmail/v1"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	dir := t.TempDir()
	return NewManager(
		filepath.Join(dir, "credentials.json"),
		filepath.Join(dir, "token.json"),
		false,
		nil,
	)
}

func TestGrantRoundTrip(t *testing.T) {
	m := testManager(t)

	grant := &Grant{
		Token: &oauth2.Token{
			AccessToken:  "ya29.access",
			RefreshToken: "1//refresh",
			TokenType:    "Bearer",
			Expiry:       time.Now().Add(time.Hour).UTC().Truncate(time.Second),
		},
		Scopes: []string{gmail.GmailSendScope, gmail.GmailComposeScope},
	}
	require.NoError(t, m.saveGrant(grant))

	loaded, ok := m.loadGrant()
	require.True(t, ok)
	assert.Equal(t, grant.Token.AccessToken, loaded.Token.AccessToken)
	assert.Equal(t, grant.Token.RefreshToken, loaded.Token.RefreshToken)
	assert.Equal(t, grant.Token.TokenType, loaded.Token.TokenType)
	assert.True(t, grant.Token.Expiry.Equal(loaded.Token.Expiry))
	assert.Equal(t, grant.Scopes, loaded.Scopes)
}

func TestLoadGrantMissingFile(t *testing.T) {
	m := testManager(t)

	_, ok := m.loadGrant()
	assert.False(t, ok)
}

func TestLoadGrantCorruptFile(t *testing.T) {
	m := testManager(t)
	require.NoError(t, os.WriteFile(m.tokenFile, []byte("not json"), 0600))

	_, ok := m.loadGrant()
	assert.False(t, ok)
}

func TestGrantCovers(t *testing.T) {
	grant := &Grant{Scopes: []string{gmail.GmailSendScope, gmail.GmailModifyScope}}

	assert.True(t, grant.Covers([]string{gmail.GmailSendScope}))
	assert.True(t, grant.Covers([]string{gmail.GmailSendScope, gmail.GmailModifyScope}))
	assert.False(t, grant.Covers([]string{gmail.GmailComposeScope}))
}

const testClientSecret = `{
  "installed": {
    "client_id": "test-client.apps.googleusercontent.com",
    "client_secret": "test-secret",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "redirect_uris": ["http://localhost"]
  }
}`

func TestResolveReusesValidCachedGrant(t *testing.T) {
	m := testManager(t)
	require.NoError(t, os.WriteFile(m.credentialsFile, []byte(testClientSecret), 0600))

	cached := &Grant{
		Token: &oauth2.Token{
			AccessToken: "ya29.valid",
			TokenType:   "Bearer",
			Expiry:      time.Now().Add(time.Hour),
		},
		Scopes: []string{gmail.GmailSendScope, gmail.GmailComposeScope},
	}
	require.NoError(t, m.saveGrant(cached))

	// Covered scopes and unexpired token: no flow, no network.
	grant, err := m.Resolve(context.Background(), RequiredScopes(true, false))
	require.NoError(t, err)
	assert.Equal(t, "ya29.valid", grant.Token.AccessToken)
	assert.Equal(t, cached.Scopes, grant.Scopes)
}

func TestResolveMissingClientSecret(t *testing.T) {
	m := testManager(t)

	_, err := m.Resolve(context.Background(), RequiredScopes(false, false))
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "load_client_secret", authErr.Op)
}
