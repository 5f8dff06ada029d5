package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/cineseat/ticketing/internal/config"
	"github.com/cineseat/ticketing/internal/database"
	"github.com/cineseat/ticketing/internal/handler"
	"github.com/cineseat/ticketing/internal/jobs"
	"github.com/cineseat/ticketing/internal/queue"
	"github.com/cineseat/ticketing/internal/repository"
	"github.com/cineseat/ticketing/internal/router"
	"github.com/cineseat/ticketing/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response cache disabled")
	}

	users := repository.NewUserRepo(db)
	theaters := repository.NewTheaterRepo(db)
	shows := repository.NewShowRepo(db)
	seats := repository.NewSeatStatusRepo(db)
	bookings := repository.NewBookingRepo(db)
	payments := repository.NewPaymentRepo(db)

	publisher := queue.NewPublisher(cfg.AMQPURL)
	go queue.StartNotificationConsumer(cfg.AMQPURL)

	showSvc := service.NewShowService(db, theaters, shows, seats, bookings)
	bookingSvc := service.NewBookingService(db, shows, seats, bookings, payments, publisher, cfg.BookingHold)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go jobs.StartExpiryReaper(ctx, bookingSvc, cfg.ReaperInterval)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.Register(e, router.Deps{
		Cfg:      cfg,
		Redis:    rdb,
		Auth:     handler.NewAuthHandler(cfg, users),
		Theaters: handler.NewTheaterHandler(theaters),
		Shows:    handler.NewShowHandler(showSvc),
		Seats:    handler.NewSeatHandler(showSvc),
		Bookings: handler.NewBookingHandler(bookingSvc),
		Payments: handler.NewPaymentHandler(bookingSvc),
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
