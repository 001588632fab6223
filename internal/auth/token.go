package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"

	"golang.org/x/oauth2"

	"github.com/adamkorga/aweber-exporter/internal/logging"
)

// HasToken reports whether a cached credential file exists. It does not
// check validity; an expired credential still counts because Token can
// refresh it.
func (a *Authenticator) HasToken() bool {
	_, err := os.Stat(a.tokenFile)
	return err == nil
}

// Token returns a valid access token from the cache, refreshing and
// re-persisting the credential first if it is expired or near expiry.
// A still-valid cached token is returned without any network call.
func (a *Authenticator) Token(ctx context.Context) (*oauth2.Token, error) {
	tok, err := a.loadToken()
	if err != nil {
		return nil, &Error{Step: "cache", Err: err}
	}
	if tok.Valid() {
		a.logger.Debug("cached token still valid", "token", logging.SanitizeToken(tok.AccessToken))
		return tok, nil
	}

	fresh, err := a.conf.TokenSource(ctx, tok).Token()
	if err != nil {
		return nil, &Error{Step: "refresh", Err: fmt.Errorf("refresh failed (re-run 'auth' to authorize again): %w", err)}
	}
	if err := a.saveToken(fresh); err != nil {
		return nil, &Error{Step: "cache", Err: err}
	}
	a.logger.Info("credential refreshed", logging.Operation("refresh"), "token", logging.SanitizeToken(fresh.AccessToken))
	return fresh, nil
}

// HTTPClient returns an HTTP client that injects the access token into
// every request and persists any token the underlying source refreshes
// mid-run.
func (a *Authenticator) HTTPClient(ctx context.Context, tok *oauth2.Token) *http.Client {
	ts := &savingTokenSource{
		src:  a.conf.TokenSource(ctx, tok),
		auth: a,
		last: tok,
	}
	return oauth2.NewClient(ctx, ts)
}

func (a *Authenticator) loadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(a.tokenFile)
	if err != nil {
		return nil, fmt.Errorf("reading token cache: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("parsing token cache: %w", err)
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, fmt.Errorf("token cache %s holds no credential", a.tokenFile)
	}
	return &tok, nil
}

// saveToken persists the credential. The file is the only durable secret
// this tool produces, so it is written owner-readable only.
func (a *Authenticator) saveToken(tok *oauth2.Token) error {
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}
	if err := os.WriteFile(a.tokenFile, data, 0600); err != nil {
		return fmt.Errorf("writing token cache: %w", err)
	}
	return nil
}

// savingTokenSource persists tokens whenever the wrapped source hands out
// a new one, so a refresh that happens mid-export survives the run.
type savingTokenSource struct {
	src  oauth2.TokenSource
	auth *Authenticator

	mu   sync.Mutex
	last *oauth2.Token
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.src.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil || tok.AccessToken != s.last.AccessToken {
		s.last = tok
		if err := s.auth.saveToken(tok); err != nil {
			// Keep going with the in-memory token; the cache is best effort here.
			s.auth.logger.Warn("could not persist refreshed token", "error", err.Error())
		}
	}
	return tok, nil
}
