package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"github.com/Lesmash/spotify-playlist-creator/internal/shared"
)

// DefaultLoginTimeout bounds how long [CatchToken] waits for the browser.
const DefaultLoginTimeout = 2 * time.Minute

// LoginOpts configures one login round trip.
type LoginOpts struct {
	Addr     string             // host:port of the redirect catcher, ignored when Listener is set
	Listener net.Listener       // optional pre-bound listener
	Timeout  time.Duration      // defaults to DefaultLoginTimeout
	Open     func(string) error // opens the authorization URL, defaults to shared.OpenBrowser
	Notify   func(string)       // optional user-facing status lines
	Logger   *log.Logger
}

// CatchToken starts the redirect catcher, opens authURL, and waits for the token.
//
// The server is shut down before returning. It fails with [shared.ErrTimeout] when no token arrives in time.
func CatchToken(ctx context.Context, authURL string, opts LoginOpts) (*oauth2.Token, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultLoginTimeout
	}
	if opts.Open == nil {
		opts.Open = shared.OpenBrowser
	}
	if opts.Notify == nil {
		opts.Notify = func(string) {}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	listener := opts.Listener
	if listener == nil {
		var err error
		if listener, err = net.Listen("tcp", opts.Addr); err != nil {
			return nil, fmt.Errorf("failed to start redirect catcher on %s: %w", opts.Addr, err)
		}
	}

	handler := NewTokenHandler()
	httpServer := &http.Server{
		Handler:           NewCatcher(handler, opts.Logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		opts.Logger.Info("starting redirect catcher", "addr", listener.Addr().String())
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			opts.Logger.Warn("error shutting down redirect catcher", "error", err)
		}
	}()

	opts.Notify("→ Opening browser for login...")
	if err := opts.Open(authURL); err != nil {
		opts.Logger.Warn("failed to open browser automatically", "error", err)
		opts.Notify(fmt.Sprintf("⚠ Could not open browser automatically. Please open this URL:\n%s", authURL))
	}

	opts.Notify(fmt.Sprintf("→ Waiting for login (%s timeout)...", opts.Timeout))

	timeout := time.NewTimer(opts.Timeout)
	defer timeout.Stop()

	var result OAuthResult
	select {
	case result = <-handler.Result():
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: login timed out after %s", shared.ErrTimeout, opts.Timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("login failed: %w", result.Error())
	}
	if result.Token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}

	return result.Token, nil
}
