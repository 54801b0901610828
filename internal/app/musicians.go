package app

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bolo-service/internal/store"
)

type musicianReq struct {
	Name       string `json:"name" binding:"required"`
	Instrument string `json:"instrument"`
	Email      string `json:"email"`
}

// POST /api/musicians
func (a *App) CreateMusicianHandler(c *gin.Context) {
	var req musicianReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m := &store.Musician{Name: req.Name, Instrument: req.Instrument, Email: req.Email}
	if err := a.Musicians.Create(c.Request.Context(), m); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, m)
}

// GET /api/musicians
func (a *App) ListMusiciansHandler(c *gin.Context) {
	musicians, err := a.Musicians.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, musicians)
}

type assignReq struct {
	MusicianID string `json:"musician_id" binding:"required"`
	Driver     bool   `json:"driver"`
	MileageKM  int    `json:"mileage_km"`
}

// POST /api/bookings/:id/musicians
func (a *App) AssignMusicianHandler(c *gin.Context) {
	var req assignReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Driver && req.MileageKM != 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mileage only applies to the driver"})
		return
	}
	as := &store.Assignment{
		BookingID:  c.Param("id"),
		MusicianID: req.MusicianID,
		Driver:     req.Driver,
		MileageKM:  req.MileageKM,
	}
	err := a.Musicians.Assign(c.Request.Context(), as)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking or musician not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, as)
}

// DELETE /api/bookings/:id/musicians/:musician_id
func (a *App) UnassignMusicianHandler(c *gin.Context) {
	err := a.Musicians.Unassign(c.Request.Context(), c.Param("id"), c.Param("musician_id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "assignment not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /api/bookings/:id/musicians
func (a *App) ListAssignmentsHandler(c *gin.Context) {
	assignments, err := a.Musicians.ListForBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, assignments)
}
