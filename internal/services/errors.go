package services

import (
	"fmt"

	"github.com/Lesmash/spotify-playlist-creator/internal/shared"
)

// HTTPError is a non-2xx response from the backend.
type HTTPError struct {
	StatusCode int
	Detail     string
}

func (e *HTTPError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("HTTP error! Status: %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("HTTP error! Status: %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error { return shared.ErrAPIRequest }
