package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bolo-service/internal/store"
)

type requestReq struct {
	ContactName  string `json:"contact_name" binding:"required"`
	ContactEmail string `json:"contact_email" binding:"required,email"`
	Place        string `json:"place" binding:"required"`
	Date         string `json:"date" binding:"required"` // YYYY-MM-DD
	Notes        string `json:"notes"`
}

// POST /api/requests
func (a *App) CreateRequestHandler(c *gin.Context) {
	var req requestReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, want YYYY-MM-DD"})
		return
	}

	pr := &store.PerformanceRequest{
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		Place:        req.Place,
		Date:         date,
		Notes:        req.Notes,
	}
	if err := a.Requests.Create(c.Request.Context(), pr); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, pr)
}

// GET /api/requests?pending=true
func (a *App) ListRequestsHandler(c *gin.Context) {
	pending := c.Query("pending") == "true"
	requests, err := a.Requests.List(c.Request.Context(), pending)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, requests)
}

// POST /api/requests/:id/convert — turns a request into a booking in the
// requested state.
func (a *App) ConvertRequestHandler(c *gin.Context) {
	ctx := c.Request.Context()
	pr, err := a.Requests.Get(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if pr.BookingID != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "request already converted"})
		return
	}

	b := &store.Booking{
		Place:  pr.Place,
		Date:   pr.Date,
		Status: store.StatusRequested,
		Notes:  pr.Notes,
	}
	if place, err := a.Municipalities.Ensure(ctx, b.Place); err == nil {
		b.Place = place
	}
	if err := a.Bookings.Create(ctx, b); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := a.Requests.MarkConverted(ctx, pr.ID, b.ID); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "request already converted"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, b)
}
