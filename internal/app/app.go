package app

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"bolo-service/internal/config"
	"bolo-service/internal/gcal"
	"bolo-service/internal/notify"
	"bolo-service/internal/store"
	"bolo-service/internal/tasks"
)

// SyncEngine is the slice of the calendar engine the handlers use.
type SyncEngine interface {
	ConsentURL(state string) string
	HandleCallback(ctx context.Context, code string) error
	Sync(ctx context.Context, bookingID string) (*gcal.Result, error)
}

// SyncDispatcher queues background syncs.
type SyncDispatcher interface {
	Enqueue(bookingID string) (*tasks.Job, error)
}

// App carries the wired dependencies behind the HTTP handlers.
type App struct {
	Log *slog.Logger
	Cfg *config.Config

	Bookings       *store.BookingRepository
	Requests       *store.RequestRepository
	Musicians      *store.MusicianRepository
	Invoices       *store.InvoiceRepository
	Municipalities *store.MunicipalityRepository
	Stats          *store.StatsRepository

	Engine     SyncEngine
	Dispatcher SyncDispatcher
	Mailer     notify.Sender
}

// Router builds the gin engine with all routes. The OAuth callback sits
// outside the auth group: Google redirects the operator's browser there
// without a bearer token.
func (a *App) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), MetricsMiddleware())

	router.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })
	router.GET("/metrics", MetricsHandler())
	router.GET("/oauth2callback", a.GoogleCallbackHandler)

	api := router.Group("/api")
	api.Use(AuthMiddleware(a.Cfg.StaticTokens, a.Cfg.JWTSecret))
	{
		bookings := api.Group("/bookings")
		{
			bookings.POST("", a.CreateBookingHandler)
			bookings.GET("", a.ListBookingsHandler)
			bookings.GET("/board", a.KanbanHandler)
			bookings.GET("/:id", a.GetBookingHandler)
			bookings.PUT("/:id", a.UpdateBookingHandler)
			bookings.PUT("/:id/status", a.UpdateStatusHandler)
			bookings.POST("/:id/sync", a.SyncNowHandler)
			bookings.GET("/:id/musicians", a.ListAssignmentsHandler)
			bookings.POST("/:id/musicians", a.AssignMusicianHandler)
			bookings.DELETE("/:id/musicians/:musician_id", a.UnassignMusicianHandler)
		}

		requests := api.Group("/requests")
		{
			requests.POST("", a.CreateRequestHandler)
			requests.GET("", a.ListRequestsHandler)
			requests.POST("/:id/convert", a.ConvertRequestHandler)
		}

		api.POST("/musicians", a.CreateMusicianHandler)
		api.GET("/musicians", a.ListMusiciansHandler)

		api.POST("/invoices", a.CreateInvoiceHandler)
		api.GET("/invoices", a.ListInvoicesHandler)

		api.GET("/municipalities", a.SearchMunicipalitiesHandler)

		api.GET("/stats/:year", a.YearStatsHandler)

		api.GET("/calendar/connect", a.GoogleConnectHandler)
	}

	return router
}
