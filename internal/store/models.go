package store

import "time"

// Booking statuses. StatusConfirmed is the only state treated as "real" for
// calendar purposes; every other state shows up bracketed in the event title.
const (
	StatusRequested = "requested"
	StatusOption    = "option"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusArchived  = "archived"
)

// ValidStatus reports whether s is a known booking status.
func ValidStatus(s string) bool {
	switch s {
	case StatusRequested, StatusOption, StatusConfirmed, StatusCancelled, StatusArchived:
		return true
	}
	return false
}

// Booking is one scheduled engagement ("bolo").
type Booking struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	Place        string    `json:"place"`
	Concept      string    `json:"concept,omitempty"`
	VenueDetail  string    `json:"venue_detail,omitempty"`
	Date         time.Time `json:"date"`
	StartTime    string    `json:"start_time,omitempty"` // HH:MM, empty means midnight
	DurationMins *int      `json:"duration_minutes,omitempty"`
	Status       string    `json:"status"`
	FeeCents     int64     `json:"fee_cents"`
	MileageKM    int       `json:"mileage_km"`
	Notes        string    `json:"notes,omitempty"`
	ClientID     *string   `json:"client_id,omitempty"`
	ClientName   string    `json:"client_name,omitempty"`
	GCalEventID  *string   `json:"gcal_event_id,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// OAuthCredential is the single persisted token set per provider.
type OAuthCredential struct {
	Provider     string    `json:"provider"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	Expiry       time.Time `json:"expiry"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// PerformanceRequest is an inbound ask for a gig, before it becomes a booking.
type PerformanceRequest struct {
	ID           string    `json:"id"`
	ContactName  string    `json:"contact_name"`
	ContactEmail string    `json:"contact_email"`
	Place        string    `json:"place"`
	Date         time.Time `json:"date"`
	Notes        string    `json:"notes,omitempty"`
	BookingID    *string   `json:"booking_id,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// Musician is a member of the group.
type Musician struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Instrument string `json:"instrument,omitempty"`
	Email      string `json:"email,omitempty"`
}

// Assignment links a musician to a booking. At most one driver per booking
// carries the reimbursable mileage.
type Assignment struct {
	BookingID  string `json:"booking_id"`
	MusicianID string `json:"musician_id"`
	Musician   string `json:"musician,omitempty"`
	Driver     bool   `json:"driver"`
	MileageKM  int    `json:"mileage_km"`
}

// Invoice covers both invoices and quotes; Kind distinguishes them and each
// kind numbers independently per year.
type Invoice struct {
	ID          string    `json:"id"`
	BookingID   string    `json:"booking_id"`
	Kind        string    `json:"kind"` // "invoice" | "quote"
	Year        int       `json:"year"`
	Number      int       `json:"number"`
	Code        string    `json:"code"`
	AmountCents int64     `json:"amount_cents"`
	IssuedAt    time.Time `json:"issued_at"`
}

// YearStats is the per-year financial summary.
type YearStats struct {
	Year              int            `json:"year"`
	BookingsByStatus  map[string]int `json:"bookings_by_status"`
	ConfirmedFeeCents int64          `json:"confirmed_fee_cents"`
	TotalMileageKM    int            `json:"total_mileage_km"`
}
