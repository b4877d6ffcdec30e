package google

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/mailsmith/mailsmith/internal/logging"
)

// Manager resolves authorization grants for Gmail operations. It loads a
// persisted grant when one exists, refreshes it in place when possible, and
// falls back to a full interactive authorization otherwise.
type Manager struct {
	credentialsFile string
	tokenFile       string
	consoleAuth     bool
	logger          *slog.Logger
}

// NewManager creates a credential manager.
//
// credentialsFile is the path to the OAuth client-secret JSON downloaded from
// the Google Cloud console. tokenFile is where the resolved grant is
// persisted between runs. When consoleAuth is true the interactive flow
// prints an authorization URL and reads the code from stdin instead of
// listening on a loopback redirect.
func NewManager(credentialsFile, tokenFile string, consoleAuth bool, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		credentialsFile: credentialsFile,
		tokenFile:       tokenFile,
		consoleAuth:     consoleAuth,
		logger:          logging.WithComponent(logger, "google"),
	}
}

// storedGrant is the on-disk representation of a grant. Scopes are persisted
// alongside the token so a later invocation can tell whether the cached
// grant covers its required scope set without a network call.
type storedGrant struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
	Scopes       []string  `json:"scopes"`
}

// Resolve returns a grant whose scopes cover requiredScopes.
//
// A cached grant that is still valid and scope-sufficient is returned
// without any network call. An expired but refreshable grant with
// sufficient scopes is refreshed and re-persisted. Anything else, including
// scope insufficiency, triggers a full interactive authorization scoped to
// exactly requiredScopes; the OAuth protocol has no incremental scope
// upgrade for installed applications, so a partial grant is always replaced
// wholesale.
func (m *Manager) Resolve(ctx context.Context, requiredScopes []string) (*Grant, error) {
	conf, err := m.oauthConfig(requiredScopes)
	if err != nil {
		return nil, &AuthError{Op: "load_client_secret", Err: err}
	}

	if cached, ok := m.loadGrant(); ok {
		if cached.Covers(requiredScopes) {
			if cached.Token.Valid() {
				m.logger.Debug("using cached grant", logging.Operation("resolve_grant"))
				cached.source = conf.TokenSource(ctx, cached.Token)
				return cached, nil
			}
			if cached.Token.RefreshToken != "" {
				if refreshed, err := m.refresh(ctx, conf, cached); err == nil {
					return refreshed, nil
				} else {
					m.logger.Warn("grant refresh failed, re-authorizing",
						logging.Operation("refresh_grant"), logging.Err(err))
				}
			}
		} else {
			m.logger.Info("cached grant lacks required scopes, re-authorizing",
				logging.Operation("resolve_grant"))
		}
	}

	return m.authorize(ctx, conf, requiredScopes)
}

func (m *Manager) oauthConfig(scopes []string) (*oauth2.Config, error) {
	data, err := os.ReadFile(m.credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read client secret %s: %w", m.credentialsFile, err)
	}
	conf, err := google.ConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse client secret: %w", err)
	}
	return conf, nil
}

// refresh exchanges the refresh token for a new access token and persists
// the updated grant.
func (m *Manager) refresh(ctx context.Context, conf *oauth2.Config, cached *Grant) (*Grant, error) {
	ts := conf.TokenSource(ctx, cached.Token)
	tok, err := ts.Token()
	if err != nil {
		return nil, err
	}
	if tok.RefreshToken == "" {
		tok.RefreshToken = cached.Token.RefreshToken
	}
	grant := &Grant{Token: tok, Scopes: cached.Scopes, source: ts}
	if err := m.saveGrant(grant); err != nil {
		return nil, err
	}
	m.logger.Info("refreshed grant", logging.Operation("refresh_grant"), logging.Status(logging.StatusSuccess))
	return grant, nil
}

// authorize runs the full interactive authorization-code flow and persists
// the resulting grant, overwriting any prior one.
func (m *Manager) authorize(ctx context.Context, conf *oauth2.Config, scopes []string) (*Grant, error) {
	var (
		code string
		err  error
	)
	if m.consoleAuth {
		code, err = m.consoleFlow(conf)
	} else {
		code, err = m.loopbackFlow(ctx, conf)
	}
	if err != nil {
		return nil, &AuthError{Op: "authorize", Err: err}
	}

	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, &AuthError{Op: "exchange_code", Err: err}
	}

	grant := &Grant{Token: tok, Scopes: scopes, source: conf.TokenSource(ctx, tok)}
	if err := m.saveGrant(grant); err != nil {
		return nil, &AuthError{Op: "persist_grant", Err: err}
	}
	m.logger.Info("authorized", logging.Operation("authorize"), logging.Status(logging.StatusSuccess))
	return grant, nil
}

// consoleFlow prints the authorization URL and reads the code from stdin.
// Used on headless machines where no browser can reach a loopback redirect.
func (m *Manager) consoleFlow(conf *oauth2.Config) (string, error) {
	conf.RedirectURL = "urn:ietf:wg:oauth:2.0:oob"
	url := conf.AuthCodeURL(newState(), oauth2.AccessTypeOffline)
	fmt.Fprintf(os.Stderr, "Visit the URL below, authorize the application, and paste the code here:\n\n%s\n\nCode: ", url)

	reader := bufio.NewReader(os.Stdin)
	code, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read authorization code: %w", err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("empty authorization code")
	}
	return code, nil
}

// loopbackFlow listens on an ephemeral loopback port, opens the
// authorization URL in the user's browser, and waits for the provider to
// redirect back with the code.
func (m *Manager) loopbackFlow(ctx context.Context, conf *oauth2.Config) (string, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("listen on loopback: %w", err)
	}
	defer ln.Close()

	conf.RedirectURL = fmt.Sprintf("http://%s/", ln.Addr().String())
	state := newState()
	url := conf.AuthCodeURL(state, oauth2.AccessTypeOffline)

	type result struct {
		code string
		err  error
	}
	resultCh := make(chan result, 1)

	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			resultCh <- result{err: fmt.Errorf("state mismatch in redirect")}
			return
		}
		if errMsg := q.Get("error"); errMsg != "" {
			http.Error(w, "authorization denied", http.StatusForbidden)
			resultCh <- result{err: fmt.Errorf("authorization denied: %s", errMsg)}
			return
		}
		fmt.Fprintln(w, "Authorization complete. You can close this window.")
		resultCh <- result{code: q.Get("code")}
	})}
	go srv.Serve(ln)
	defer srv.Close()

	if err := openBrowser(url); err != nil {
		fmt.Fprintf(os.Stderr, "Open this URL in your browser to authorize:\n\n%s\n\n", url)
	}

	select {
	case res := <-resultCh:
		if res.err != nil {
			return "", res.err
		}
		if res.code == "" {
			return "", fmt.Errorf("redirect carried no authorization code")
		}
		return res.code, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (m *Manager) loadGrant() (*Grant, bool) {
	data, err := os.ReadFile(m.tokenFile)
	if err != nil {
		return nil, false
	}
	var stored storedGrant
	if err := json.Unmarshal(data, &stored); err != nil {
		m.logger.Warn("discarding unreadable grant file",
			logging.Operation("load_grant"), logging.Err(err))
		return nil, false
	}
	return &Grant{
		Token: &oauth2.Token{
			AccessToken:  stored.AccessToken,
			RefreshToken: stored.RefreshToken,
			TokenType:    stored.TokenType,
			Expiry:       stored.Expiry,
		},
		Scopes: stored.Scopes,
	}, true
}

// saveGrant persists the grant as a whole-file overwrite.
func (m *Manager) saveGrant(g *Grant) error {
	stored := storedGrant{
		AccessToken:  g.Token.AccessToken,
		RefreshToken: g.Token.RefreshToken,
		TokenType:    g.Token.TokenType,
		Expiry:       g.Token.Expiry,
		Scopes:       g.Scopes,
	}
	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("encode grant: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(m.tokenFile), 0700); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}
	if err := os.WriteFile(m.tokenFile, data, 0600); err != nil {
		return fmt.Errorf("write grant file: %w", err)
	}
	return nil
}

func newState() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("state-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
