package app

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bolo-service/internal/gcal"
	"bolo-service/internal/store"
)

// GET /api/calendar/connect — sends the operator to the Google consent
// screen.
func (a *App) GoogleConnectHandler(c *gin.Context) {
	if !a.Cfg.GoogleConfigured() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "google calendar not configured"})
		return
	}
	state := fmt.Sprintf("connect_%d", time.Now().Unix())
	c.Redirect(http.StatusFound, a.Engine.ConsentURL(state))
}

// GET /oauth2callback — Google redirects here with a code or an error.
func (a *App) GoogleCallbackHandler(c *gin.Context) {
	if errMsg := c.Query("error"); errMsg != "" {
		c.Redirect(http.StatusFound, a.Cfg.SettingsURL+"?calendar_connected=0&error="+errMsg)
		return
	}
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "authorization code required"})
		return
	}
	if err := a.Engine.HandleCallback(c.Request.Context(), code); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.Redirect(http.StatusFound, a.Cfg.SettingsURL+"?calendar_connected=1")
}

// syncErrorResponse maps engine failures to HTTP statuses, surfacing the raw
// message.
func syncErrorResponse(c *gin.Context, err error) {
	var refreshErr *gcal.TokenRefreshError
	var apiErr *gcal.CalendarAPIError
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
	case errors.Is(err, gcal.ErrNotConnected), errors.Is(err, gcal.ErrReauthRequired):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &refreshErr), errors.As(err, &apiErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
