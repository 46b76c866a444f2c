package server

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/oauth2"

	"github.com/Lesmash/spotify-playlist-creator/internal/shared"
)

// TokenParam is the redirect parameter carrying the access token.
const TokenParam = "access_token"

// OAuthResult contains the result of the login redirect.
type OAuthResult struct {
	Token *oauth2.Token
	err   error
}

func (o *OAuthResult) Error() error {
	return o.err
}

// TokenHandler catches the backend's post-login redirect.
//
// The backend puts the token in the URL fragment, which browsers never send to a server.
// GET / serves a page whose script reads location.hash, strips it with history.replaceState
// and posts the token to /token. A token in the query string is accepted directly.
type TokenHandler struct {
	resultChan chan OAuthResult
	once       sync.Once
	mu         sync.Mutex
	received   bool
}

// NewTokenHandler creates a [TokenHandler] waiting for one token.
func NewTokenHandler() *TokenHandler {
	return &TokenHandler{resultChan: make(chan OAuthResult, 1)}
}

// Routes returns the HTTP routes this handler serves.
func (h *TokenHandler) Routes() []string {
	return []string{"/", "/token"}
}

// ServeHTTP dispatches the landing page and the token post.
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/token" && r.Method == http.MethodPost:
		h.receive(w, r)
	case r.URL.Path == "/token":
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	case r.URL.Path == "/" && r.Method == http.MethodGet:
		h.landing(w, r)
	case r.URL.Path == "/":
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	default:
		http.NotFound(w, r)
	}
}

func (h *TokenHandler) landing(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if errParam := q.Get("error"); errParam != "" {
		h.Send(OAuthResult{err: fmt.Errorf("%w: %s", shared.ErrAuthFailed, errParam)})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	if token := strings.TrimSpace(q.Get(TokenParam)); token != "" {
		if !h.claim() {
			http.Error(w, "Token already received", http.StatusConflict)
			return
		}
		h.Send(OAuthResult{Token: newToken(token)})
		writePage(w, pageData{Done: true})
		return
	}

	writePage(w, pageData{})
}

func (h *TokenHandler) receive(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 16<<10)).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	token := strings.TrimSpace(body.AccessToken)
	if token == "" {
		http.Error(w, "Missing access_token", http.StatusBadRequest)
		return
	}

	if !h.claim() {
		http.Error(w, "Token already received", http.StatusConflict)
		return
	}

	h.Send(OAuthResult{Token: newToken(token)})
	w.WriteHeader(http.StatusNoContent)
}

// claim reports whether this is the first token to arrive.
func (h *TokenHandler) claim() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.received {
		return false
	}
	h.received = true
	return true
}

// Send sends the result through the channel (only once).
func (h *TokenHandler) Send(result OAuthResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel for receiving the captured token.
//
// Channel will receive exactly one result and then be closed.
func (h *TokenHandler) Result() <-chan OAuthResult {
	return h.resultChan
}

func newToken(accessToken string) *oauth2.Token {
	return &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}
}

type pageData struct {
	Done bool
}

func writePage(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Referrer-Policy", "no-referrer")
	w.WriteHeader(http.StatusOK)
	landingPage.Execute(w, data)
}

var landingPage = template.Must(template.New("landing").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Music Journey Login</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #121212; color: #fff; }
        .container { text-align: center; background: #282828; padding: 2rem; border-radius: 8px; }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #b3b3b3; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1 id="title">{{if .Done}}✓ Logged In{{else}}Finishing login...{{end}}</h1>
        <p id="message">{{if .Done}}You can close this window and return to the terminal.{{else}}Please wait.{{end}}</p>
    </div>
    {{if not .Done}}
    <script>
    (function () {
        var params = new URLSearchParams(window.location.hash.substring(1));
        var token = params.get("access_token");
        var title = document.getElementById("title");
        var message = document.getElementById("message");
        if (!token) {
            title.textContent = "No access token";
            message.textContent = "Return to the terminal and try logging in again.";
            return;
        }
        window.history.replaceState({}, document.title, window.location.pathname);
        fetch("/token", {
            method: "POST",
            headers: { "Content-Type": "application/json" },
            body: JSON.stringify({ access_token: token })
        }).then(function (resp) {
            if (!resp.ok) { throw new Error("status " + resp.status); }
            title.textContent = "✓ Logged In";
            message.textContent = "You can close this window and return to the terminal.";
        }).catch(function (err) {
            title.textContent = "Login failed";
            message.textContent = err.message;
        });
    })();
    </script>
    {{end}}
</body>
</html>
`))
