package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"bolo-service/internal/notify"
	"bolo-service/internal/store"
)

type bookingReq struct {
	Place        string  `json:"place" binding:"required"`
	Concept      string  `json:"concept"`
	VenueDetail  string  `json:"venue_detail"`
	Date         string  `json:"date" binding:"required"` // YYYY-MM-DD
	StartTime    string  `json:"start_time"`              // HH:MM
	DurationMins *int    `json:"duration_minutes"`
	FeeCents     int64   `json:"fee_cents"`
	MileageKM    int     `json:"mileage_km"`
	Notes        string  `json:"notes"`
	ClientID     *string `json:"client_id"`
}

func (r *bookingReq) toBooking() (*store.Booking, error) {
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return nil, errors.New("invalid date, want YYYY-MM-DD")
	}
	if r.StartTime != "" {
		if _, err := time.Parse("15:04", r.StartTime); err != nil {
			return nil, errors.New("invalid start_time, want HH:MM")
		}
	}
	if r.DurationMins != nil && *r.DurationMins <= 0 {
		return nil, errors.New("duration_minutes must be positive")
	}
	return &store.Booking{
		Place:        r.Place,
		Concept:      r.Concept,
		VenueDetail:  r.VenueDetail,
		Date:         date,
		StartTime:    r.StartTime,
		DurationMins: r.DurationMins,
		FeeCents:     r.FeeCents,
		MileageKM:    r.MileageKM,
		Notes:        r.Notes,
		ClientID:     r.ClientID,
	}, nil
}

// POST /api/bookings
func (a *App) CreateBookingHandler(c *gin.Context) {
	var req bookingReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := req.toBooking()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b.Status = store.StatusRequested

	ctx := c.Request.Context()
	if place, err := a.Municipalities.Ensure(ctx, b.Place); err == nil {
		b.Place = place
	}
	if err := a.Bookings.Create(ctx, b); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, b)
}

// GET /api/bookings/:id
func (a *App) GetBookingHandler(c *gin.Context) {
	b, err := a.Bookings.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, b)
}

// PUT /api/bookings/:id
func (a *App) UpdateBookingHandler(c *gin.Context) {
	var req bookingReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := req.toBooking()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b.ID = c.Param("id")

	err = a.Bookings.Update(c.Request.Context(), b)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, b)
}

// GET /api/bookings?status=&year=
func (a *App) ListBookingsHandler(c *gin.Context) {
	status := c.Query("status")
	if status != "" && !store.ValidStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}
	year := 0
	if y := c.Query("year"); y != "" {
		var err error
		year, err = strconv.Atoi(y)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}
	}
	bookings, err := a.Bookings.List(c.Request.Context(), status, year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GET /api/bookings/board — bookings grouped by workflow state.
func (a *App) KanbanHandler(c *gin.Context) {
	bookings, err := a.Bookings.List(c.Request.Context(), "", 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	board := map[string][]store.Booking{}
	for _, b := range bookings {
		board[b.Status] = append(board[b.Status], b)
	}
	c.JSON(http.StatusOK, board)
}

type statusReq struct {
	Status string `json:"status" binding:"required"`
}

// PUT /api/bookings/:id/status — moves the booking and fires the calendar
// sync and operator notification off the request path.
func (a *App) UpdateStatusHandler(c *gin.Context) {
	id := c.Param("id")
	var req statusReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !store.ValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	ctx := c.Request.Context()
	err := a.Bookings.UpdateStatus(ctx, id, req.Status)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	job, err := a.Dispatcher.Enqueue(id)
	if err != nil {
		// The status change already committed; sync will catch up on the
		// next transition or a manual sync.
		a.Log.Warn("sync dispatch failed", slog.String("booking_id", id), slog.Any("error", err))
	}

	a.notifyStatusChange(id, req.Status)

	resp := gin.H{"id": id, "status": req.Status}
	if job != nil {
		resp["sync_job_id"] = job.ID
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/bookings/:id/sync — synchronous sync for the operator UI.
func (a *App) SyncNowHandler(c *gin.Context) {
	res, err := a.Engine.Sync(c.Request.Context(), c.Param("id"))
	if err != nil {
		syncErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (a *App) notifyStatusChange(bookingID, status string) {
	if a.Mailer == nil || a.Cfg.OperatorEmail == "" {
		return
	}
	go func() {
		msg := notify.Message{
			To:      a.Cfg.OperatorEmail,
			Subject: fmt.Sprintf("Booking %s moved to %s", bookingID, status),
			Body:    fmt.Sprintf("Booking %s is now %q.", bookingID, status),
		}
		if err := a.Mailer.Send(context.Background(), msg); err != nil {
			a.Log.Error("status notification failed",
				slog.String("booking_id", bookingID), slog.Any("error", err))
		}
	}()
}
