package gcal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"bolo-service/internal/store"
)

const (
	providerGoogle = "google"

	// Tokens within this margin of expiry are refreshed before use.
	tokenExpiryMargin = 5 * time.Minute

	// Bound on every token-endpoint and calendar call; the service runs
	// under a request deadline and must not hang on the provider.
	httpTimeout = 10 * time.Second
)

// TokenStore persists the single OAuth credential row.
type TokenStore interface {
	Get(ctx context.Context, provider string) (*store.OAuthCredential, error)
	Upsert(ctx context.Context, c *store.OAuthCredential) error
}

// BookingStore is the subset of booking persistence the engine needs.
type BookingStore interface {
	Get(ctx context.Context, id string) (*store.Booking, error)
	SetEventID(ctx context.Context, id, eventID string) error
}

// CalendarAPI abstracts the remote event calls so tests can fake the
// provider. The real implementation wraps the Google Calendar service.
type CalendarAPI interface {
	Insert(ctx context.Context, accessToken string, ev *calendar.Event) (*calendar.Event, error)
	Update(ctx context.Context, accessToken, eventID string, ev *calendar.Event) (*calendar.Event, error)
}

// Result reports the outcome of one sync.
type Result struct {
	EventID string `json:"event_id"`
	Created bool   `json:"created"`
}

// Engine keeps one remote calendar event in sync with one booking, sharing a
// single OAuth credential across all syncs.
type Engine struct {
	oauth    *oauth2.Config
	tokens   TokenStore
	bookings BookingStore
	api      CalendarAPI
	log      *slog.Logger
	tz       string
	loc      *time.Location
	now      func() time.Time
}

// NewOAuthConfig builds the Google OAuth client for the calendar scopes.
func NewOAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes: []string{
			calendar.CalendarEventsScope,
			calendar.CalendarReadonlyScope,
		},
		Endpoint: google.Endpoint,
	}
}

// NewEngine wires the sync engine. timezone must be a valid IANA zone name;
// it is applied to every event regardless of booking data.
func NewEngine(oauthCfg *oauth2.Config, tokens TokenStore, bookings BookingStore, api CalendarAPI, timezone string, log *slog.Logger) (*Engine, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &Engine{
		oauth:    oauthCfg,
		tokens:   tokens,
		bookings: bookings,
		api:      api,
		log:      log,
		tz:       timezone,
		loc:      loc,
		now:      time.Now,
	}, nil
}

// httpContext bounds outbound oauth2 calls with an explicit client timeout.
func httpContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: httpTimeout})
}

// ConsentURL is the provider consent redirect target. prompt=consent forces
// refresh-token issuance even on re-consent.
func (e *Engine) ConsentURL(state string) string {
	return e.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"))
}

// HandleCallback exchanges the authorization code and persists the credential
// row. A response omitting refresh_token keeps the previously stored one.
func (e *Engine) HandleCallback(ctx context.Context, code string) error {
	tok, err := e.oauth.Exchange(httpContext(ctx), code)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) {
			return &TokenRefreshError{Description: retrieveDescription(rerr)}
		}
		return fmt.Errorf("code exchange: %w", err)
	}

	cred := &store.OAuthCredential{
		Provider:     providerGoogle,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}
	if cred.RefreshToken == "" {
		if cur, err := e.tokens.Get(ctx, providerGoogle); err == nil {
			cred.RefreshToken = cur.RefreshToken
		}
	}
	return e.tokens.Upsert(ctx, cred)
}

// AccessToken returns a usable bearer token, refreshing and persisting it
// first when the stored one is within the expiry margin.
func (e *Engine) AccessToken(ctx context.Context) (string, error) {
	cred, err := e.tokens.Get(ctx, providerGoogle)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrNotConnected
		}
		return "", err
	}

	if e.now().Add(tokenExpiryMargin).Before(cred.Expiry) {
		return cred.AccessToken, nil
	}
	if cred.RefreshToken == "" {
		return "", ErrReauthRequired
	}

	src := e.oauth.TokenSource(httpContext(ctx), &oauth2.Token{RefreshToken: cred.RefreshToken})
	tok, err := src.Token()
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) {
			return "", &TokenRefreshError{Description: retrieveDescription(rerr)}
		}
		return "", &TokenRefreshError{Description: err.Error()}
	}

	cred.AccessToken = tok.AccessToken
	cred.Expiry = tok.Expiry
	if tok.RefreshToken != "" {
		cred.RefreshToken = tok.RefreshToken
	}
	if err := e.tokens.Upsert(ctx, cred); err != nil {
		return "", err
	}
	return cred.AccessToken, nil
}

// Sync ensures the remote event for the booking exists and matches its
// current state. The remote event is never deleted: non-confirmed bookings
// are re-labeled with a bracketed status prefix instead.
func (e *Engine) Sync(ctx context.Context, bookingID string) (*Result, error) {
	b, err := e.bookings.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	token, err := e.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	ev := buildEvent(b, e.loc, e.tz)

	var (
		remote  *calendar.Event
		created bool
	)
	if b.GCalEventID == nil || *b.GCalEventID == "" {
		remote, err = e.api.Insert(ctx, token, ev)
		created = true
	} else {
		remote, err = e.api.Update(ctx, token, *b.GCalEventID, ev)
		if isNotFound(err) {
			// The remote event was deleted out-of-band; recreate once and
			// discard the stale id.
			e.log.Warn("remote event gone, recreating",
				slog.String("booking_id", b.ID), slog.String("event_id", *b.GCalEventID))
			remote, err = e.api.Insert(ctx, token, ev)
			created = true
		}
	}
	if err != nil {
		return nil, apiError(err)
	}

	if b.GCalEventID == nil || *b.GCalEventID != remote.Id {
		// Best-effort: the remote event already exists, so a failed write
		// here only leaves the stored id one sync cycle behind.
		if err := e.bookings.SetEventID(ctx, b.ID, remote.Id); err != nil {
			e.log.Error("persist event id failed",
				slog.String("booking_id", b.ID),
				slog.String("event_id", remote.Id),
				slog.Any("error", err))
		}
	}

	return &Result{EventID: remote.Id, Created: created}, nil
}

func isNotFound(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusNotFound
}

func apiError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &CalendarAPIError{StatusCode: gerr.Code, Body: gerr.Body}
	}
	return &CalendarAPIError{Body: err.Error()}
}

func retrieveDescription(rerr *oauth2.RetrieveError) string {
	if rerr.ErrorDescription != "" {
		return rerr.ErrorDescription
	}
	return strings.TrimSpace(string(rerr.Body))
}
