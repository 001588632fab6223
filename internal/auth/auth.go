package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/adamkorga/aweber-exporter/internal/config"
)

// DefaultCallbackTimeout bounds how long Authorize waits for the browser
// redirect before giving up.
const DefaultCallbackTimeout = 5 * time.Minute

// Error describes a failure in the OAuth2 flow. Step names the stage that
// failed: authorize, exchange, refresh or cache.
type Error struct {
	Step string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("auth %s: %v", e.Step, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Authenticator owns the OAuth2 credential: it runs the authorization-code
// flow, caches the token pair on disk and refreshes it when it expires.
type Authenticator struct {
	conf      *oauth2.Config
	tokenFile string
	timeout   time.Duration
	logger    *slog.Logger

	// newState generates the CSRF state parameter; replaced in tests.
	newState func() string
}

// New creates an Authenticator from the loaded configuration.
func New(cfg *config.Config, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
			RedirectURL: cfg.RedirectURI,
			Scopes:      config.Scopes,
		},
		tokenFile: cfg.TokenFile,
		timeout:   DefaultCallbackTimeout,
		logger:    logger,
		newState:  uuid.NewString,
	}
}

type callbackResult struct {
	code string
	err  error
}

// Authorize runs the full authorization-code flow: it binds a listener on
// the loopback redirect address, prints the authorization URL for the user,
// waits for exactly one callback, exchanges the code for a token pair and
// persists it. The listener is torn down on every exit path.
func (a *Authenticator) Authorize(ctx context.Context) error {
	redirect, err := url.Parse(a.conf.RedirectURL)
	if err != nil {
		return &Error{Step: "authorize", Err: fmt.Errorf("invalid redirect URI %q: %w", a.conf.RedirectURL, err)}
	}

	// Bind before printing the URL so a taken port fails fast.
	ln, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return &Error{Step: "authorize", Err: fmt.Errorf("cannot listen on %s: %w", redirect.Host, err)}
	}

	state := a.newState()
	results := make(chan callbackResult, 1)

	mux := http.NewServeMux()
	mux.Handle(callbackPath(redirect), newCallbackHandler(state, results))
	srv := &http.Server{Handler: mux}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Warn("callback server stopped", "error", err.Error())
		}
	}()
	defer srv.Close()

	authURL := a.conf.AuthCodeURL(state, oauth2.AccessTypeOffline)
	fmt.Println("Open this URL in your browser to authorize access:")
	fmt.Println("  " + authURL)
	fmt.Println("Waiting for the redirect...")

	select {
	case res := <-results:
		if res.err != nil {
			return &Error{Step: "authorize", Err: res.err}
		}
		tok, err := a.conf.Exchange(ctx, res.code)
		if err != nil {
			return &Error{Step: "exchange", Err: err}
		}
		if err := a.saveToken(tok); err != nil {
			return &Error{Step: "cache", Err: err}
		}
		a.logger.Info("authorization complete, credential cached", "file", a.tokenFile)
		return nil
	case <-time.After(a.timeout):
		return &Error{Step: "authorize", Err: fmt.Errorf("timed out after %s waiting for the OAuth redirect", a.timeout)}
	case <-ctx.Done():
		return &Error{Step: "authorize", Err: ctx.Err()}
	}
}

// newCallbackHandler handles the single OAuth redirect request and reports
// the outcome on results. Only the first request is reported; the channel
// is buffered so the handler never blocks.
func newCallbackHandler(state string, results chan<- callbackResult) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var res callbackResult
		switch {
		case q.Get("error") != "":
			res.err = fmt.Errorf("authorization denied: %s", q.Get("error"))
			http.Error(w, "Authorization was denied. You can close this window.", http.StatusForbidden)
		case q.Get("state") != state:
			res.err = errors.New("state parameter mismatch")
			http.Error(w, "State mismatch, possible CSRF. You can close this window.", http.StatusBadRequest)
		case q.Get("code") == "":
			res.err = errors.New("redirect carried no authorization code")
			http.Error(w, "Missing authorization code.", http.StatusBadRequest)
		default:
			res.code = q.Get("code")
			fmt.Fprintln(w, "Authorization complete. You can close this window.")
		}

		select {
		case results <- res:
		default:
			// A second request raced the first one; ignore it.
		}
	})
}

func callbackPath(redirect *url.URL) string {
	if redirect.Path == "" {
		return "/"
	}
	return redirect.Path
}
