package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/joho/godotenv"

	"bolo-service/internal/app"
	"bolo-service/internal/config"
	"bolo-service/internal/database"
	"bolo-service/internal/gcal"
	"bolo-service/internal/logger"
	"bolo-service/internal/notify"
	"bolo-service/internal/server"
	"bolo-service/internal/store"
	"bolo-service/internal/tasks"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logg := logger.New(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer pool.Close()

	bookings := store.NewBookingRepository(pool)
	tokens := store.NewTokenRepository(pool)

	engine, err := gcal.NewEngine(
		gcal.NewOAuthConfig(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL),
		tokens, bookings,
		gcal.NewGoogleAPI(cfg.GoogleCalendarID),
		cfg.Timezone, logg,
	)
	if err != nil {
		log.Fatalf("calendar engine: %v", err)
	}

	dispatcher := tasks.NewDispatcher(engine, 64, logg)
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	var mailer notify.Sender = &notify.LogSender{Log: logg}
	if cfg.SMTPHost != "" {
		mailer = &notify.SMTPSender{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPUser,
		}
	}

	appInstance := &app.App{
		Log:            logg,
		Cfg:            cfg,
		Bookings:       bookings,
		Requests:       store.NewRequestRepository(pool),
		Musicians:      store.NewMusicianRepository(pool),
		Invoices:       store.NewInvoiceRepository(pool),
		Municipalities: store.NewMunicipalityRepository(pool),
		Stats:          store.NewStatsRepository(pool),
		Engine:         engine,
		Dispatcher:     dispatcher,
		Mailer:         mailer,
	}

	logg.Info("starting", slog.String("port", cfg.Port))
	if err := server.Run(appInstance.Router(), cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
