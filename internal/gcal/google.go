package gcal

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleAPI backs CalendarAPI with the real Google Calendar service.
type GoogleAPI struct {
	CalendarID string
}

// NewGoogleAPI targets the given calendar ("primary" for the account's own).
func NewGoogleAPI(calendarID string) *GoogleAPI {
	return &GoogleAPI{CalendarID: calendarID}
}

func (g *GoogleAPI) service(ctx context.Context, accessToken string) (*calendar.Service, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	client := oauth2.NewClient(
		context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: httpTimeout}), ts)
	return calendar.NewService(ctx, option.WithHTTPClient(client))
}

func (g *GoogleAPI) Insert(ctx context.Context, accessToken string, ev *calendar.Event) (*calendar.Event, error) {
	srv, err := g.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return srv.Events.Insert(g.CalendarID, ev).Context(ctx).Do()
}

func (g *GoogleAPI) Update(ctx context.Context, accessToken, eventID string, ev *calendar.Event) (*calendar.Event, error) {
	srv, err := g.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return srv.Events.Update(g.CalendarID, eventID, ev).Context(ctx).Do()
}
