// README: Entry point; loads config, wires stores and services, starts the HTTP server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rankgo/internal/config"
	httptransport "rankgo/internal/http"
	"rankgo/internal/infra"
	"rankgo/internal/journal"
	"rankgo/internal/modules/booking"
	"rankgo/internal/modules/fee"
	"rankgo/internal/modules/payment"
	"rankgo/internal/modules/routes"
	"rankgo/internal/modules/vehicle"
	"rankgo/internal/notify"
	"rankgo/internal/notify/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	setupLogger(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Optional durable journal: without a DSN every transition stays in-process.
	var bookingJournal booking.Journal = journal.Nop{}
	if cfg.DB.DSN != "" {
		dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			slog.Error("connect db", "err", err)
			os.Exit(1)
		}
		defer dbPool.Close()
		bookingJournal = journal.NewPG(dbPool)
	}

	var routeIndex routes.Index = routes.NewMemoryIndex()
	if cfg.Redis.Addr != "" {
		routeIndex = routes.NewRedisIndex(infra.NewRedis(cfg.Redis.Addr))
	}
	routesSvc := routes.NewService(routeIndex)
	if err := routesSvc.Seed(ctx, routes.DefaultRoutes); err != nil {
		slog.Warn("seed route suggestions", "err", err)
	}

	var publisher notify.Publisher
	if cfg.AMQP.URL != "" {
		conn, ch, err := infra.ConnectAMQP(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			slog.Error("connect rabbitmq", "err", err)
			os.Exit(1)
		}
		defer conn.Close()
		publisher = notify.NewAMQPPublisher(ch, cfg.AMQP.Exchange)
	}

	hub := ws.NewHub()
	go hub.Run(ctx)

	inbox := notify.NewInboxStore()
	notifier := notify.NewService(inbox, publisher, hub)

	bookingStore := booking.NewStore()
	vehicleStore := vehicle.NewStore()
	vehicleSvc := vehicle.NewService(vehicleStore, bookingStore, routesSvc)

	feePolicy := fee.NewPolicy(cfg.Booking.CancellationFeePercent)
	bookingSvc := booking.NewService(bookingStore, vehicleSvc, feePolicy, notifier, bookingJournal)

	paymentStore := payment.NewStore()
	paymentSvc := payment.NewService(paymentStore, bookingSvc)

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Vehicles:  vehicleSvc,
		Bookings:  bookingSvc,
		Payments:  paymentSvc,
		Routes:    routesSvc,
		Inbox:     inbox,
		Hub:       hub,
		JWTSecret: cfg.Auth.JWTSecret,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: router}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	slog.Info("rankgo api listening", "addr", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("http server", "err", err)
		os.Exit(1)
	}
}

func setupLogger(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})))
}
