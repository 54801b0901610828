package gcal

import (
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"

	"bolo-service/internal/store"
)

const defaultEventDuration = 2 * time.Hour

// eventTitle builds the event summary. Non-confirmed bookings are marked with
// a bracketed status prefix instead of deleting the remote event, so the
// calendar keeps showing cancelled or rescheduled engagements.
func eventTitle(b *store.Booking) string {
	title := fmt.Sprintf("%s - %s", b.Code, b.Place)
	if b.Concept != "" {
		title += fmt.Sprintf(" (%s)", b.Concept)
	}
	if b.Status != store.StatusConfirmed {
		title = fmt.Sprintf("[%s] %s", strings.ToUpper(b.Status), title)
	}
	return title
}

// eventTimes derives start/end in the configured zone. Start defaults to
// midnight when the booking has no start time; end defaults to start + 2h
// when it has no duration.
func eventTimes(b *store.Booking, loc *time.Location) (time.Time, time.Time) {
	hour, minute := 0, 0
	if b.StartTime != "" {
		if t, err := time.Parse("15:04", b.StartTime); err == nil {
			hour, minute = t.Hour(), t.Minute()
		}
	}
	start := time.Date(b.Date.Year(), b.Date.Month(), b.Date.Day(), hour, minute, 0, 0, loc)

	end := start.Add(defaultEventDuration)
	if b.DurationMins != nil && *b.DurationMins > 0 {
		end = start.Add(time.Duration(*b.DurationMins) * time.Minute)
	}
	return start, end
}

// buildEvent derives the calendar event payload from a booking. tz is the
// fixed zone identifier sent with every event.
func buildEvent(b *store.Booking, loc *time.Location, tz string) *calendar.Event {
	start, end := eventTimes(b, loc)

	location := b.Place
	if b.VenueDetail != "" {
		location += ", " + b.VenueDetail
	}

	notes := b.Notes
	if notes == "" {
		notes = "none"
	}
	client := b.ClientName
	if client == "" {
		client = "unknown"
	}
	description := fmt.Sprintf("Notes: %s\nClient: %s\nStatus: %s", notes, client, b.Status)

	return &calendar.Event{
		Summary:     eventTitle(b),
		Location:    location,
		Description: description,
		Start:       &calendar.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: tz},
		End:         &calendar.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: tz},
	}
}
