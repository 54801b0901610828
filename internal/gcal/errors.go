package gcal

import (
	"errors"
	"fmt"
)

// ErrNotConnected means no credential row exists yet: the operator has never
// completed the consent flow.
var ErrNotConnected = errors.New("google calendar not connected")

// ErrReauthRequired means the access token is expired and no refresh token is
// stored; only a fresh consent flow can recover.
var ErrReauthRequired = errors.New("google calendar reauthorization required")

// TokenRefreshError is a rejected refresh-token exchange. Description carries
// the provider's error text.
type TokenRefreshError struct {
	Description string
}

func (e *TokenRefreshError) Error() string {
	return fmt.Sprintf("token refresh rejected: %s", e.Description)
}

// CalendarAPIError is any non-success, non-404-on-update calendar response.
// Body carries the raw provider error body.
type CalendarAPIError struct {
	StatusCode int
	Body       string
}

func (e *CalendarAPIError) Error() string {
	return fmt.Sprintf("calendar api error (status %d): %s", e.StatusCode, e.Body)
}
