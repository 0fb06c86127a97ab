package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/baazbike/turfbook/internal/api"
	"github.com/baazbike/turfbook/internal/config"
	"github.com/baazbike/turfbook/internal/directory"
	"github.com/baazbike/turfbook/internal/repository"
	"github.com/baazbike/turfbook/internal/service"
	"github.com/baazbike/turfbook/internal/web"
)

func main() {
	// Load .env for local development; in clusters the environment is
	// already populated
	_ = godotenv.Load()

	logrus.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logrus.SetLevel(level)
	}
	log := logrus.WithField("component", "main")

	// Initialize the repository using the factory
	repo, err := repository.NewRepository(config.GetStorageConfig())
	if err != nil {
		log.WithError(err).Fatal("failed to initialize repository")
	}

	// Redis and Postgres repositories hold connections; close them on exit
	if closer, ok := repo.(interface{ Close() error }); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				log.WithError(err).Error("error closing repository")
			}
		}()
	}

	// Initialize the service layer
	bookingService := service.NewBookingService(repo)
	roomService := service.NewRoomService(repo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Seed the venue floor plan
	if err := roomService.SeedRooms(ctx); err != nil {
		log.WithError(err).Fatal("failed to seed rooms")
	}

	// Wire change notifications to the SSE fanout
	events := web.NewEventManager()
	bookingService.RegisterUpdateCallback(events.NotifyBookingUpdate)

	// Pick up changes made by other instances when the repository has a
	// change feed
	if bookingService.WatchRepositoryChanges(ctx) {
		log.Info("watching repository change feed")
	}

	serverConfig := config.GetServerConfig()

	// Periodic refresh as a fallback for missed change events
	refresher := web.NewRefresher(events, serverConfig.RefreshInterval)
	go refresher.Run(ctx)

	// Set up API routes and the SSE endpoint
	dir := directory.NewClient(config.GetDirectoryConfig())
	mux := api.SetupRoutes(bookingService, roomService, dir)
	mux.Handle("/events", events)

	server := &http.Server{
		Addr:         ":" + serverConfig.Port,
		Handler:      mux,
		ReadTimeout:  serverConfig.ReadTimeout,
		WriteTimeout: 0, // Disable write timeout for SSE connections
		IdleTimeout:  serverConfig.IdleTimeout,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		log.WithField("port", serverConfig.Port).Info("starting turfbook server")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.WithError(err).Fatal("server error")

	case <-shutdown:
		log.Info("shutting down server")

		// Close SSE streams first so subscribers disconnect cleanly
		events.Shutdown()
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			server.Close()
			log.WithError(err).Fatal("error shutting down server")
		}

		log.Info("server gracefully stopped")
	}
}
