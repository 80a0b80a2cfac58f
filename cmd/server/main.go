package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/ignux/fireworks-booking-api/internal/config"
	"github.com/ignux/fireworks-booking-api/internal/database"
	"github.com/ignux/fireworks-booking-api/internal/handler"
	"github.com/ignux/fireworks-booking-api/internal/ledger"
	"github.com/ignux/fireworks-booking-api/internal/mailer"
	"github.com/ignux/fireworks-booking-api/internal/middleware"
	"github.com/ignux/fireworks-booking-api/internal/queue"
	"github.com/ignux/fireworks-booking-api/internal/repository"
	"github.com/ignux/fireworks-booking-api/internal/router"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on process environment")
	}
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer db.Close()

	// Redis powers rate limiting and the catalog response cache. A
	// nil client turns both into pass-throughs.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("redis unavailable, rate limiting and caching disabled")
	}

	bookings := repository.NewBookingRepo(db)
	contacts := repository.NewContactRepo(db)
	services := repository.NewServiceRepo(db)
	testimonials := repository.NewTestimonialRepo(db)
	newsletter := repository.NewNewsletterRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	lgr := ledger.New(ledger.Config{MinLeadDays: cfg.MinLeadDays}, nil)

	h := router.Handlers{
		Auth:    handler.NewAuthHandler(cfg, users, tokens),
		Booking: handler.NewBookingHandler(lgr, bookings),
		Catalog: handler.NewCatalogHandler(services, testimonials, newsletter, bookings),
		Contact: handler.NewContactHandler(contacts),
		Admin:   handler.NewAdminHandler(bookings, contacts, newsletter, services, testimonials),
	}
	mw := router.Middleware{
		RateLimit: middleware.NewSlidingWindow(config.LoadRateLimitConfig(), rdb),
		Cache:     middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	}

	m := mailer.New(mailer.Config{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		Username:    cfg.SMTPUser,
		Password:    cfg.SMTPPass,
		From:        cfg.MailFrom,
		AdminEmail:  cfg.AdminEmail,
		CompanyName: cfg.CompanyName,
	}, logger)
	go func() {
		if err := queue.StartNotificationConsumer(cfg.RabbitURL, m, cfg.CompanyName); err != nil {
			logger.Error("notification consumer stopped", "err", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())

	router.Register(e, h, mw, cfg.JWTSecret)

	addr := ":" + cfg.Port
	logger.Info("listening", "addr", addr, "env", cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
