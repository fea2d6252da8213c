package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"hotel-booking-api/config"
	"hotel-booking-api/controllers"
	"hotel-booking-api/logger"
	"hotel-booking-api/metrics"
	"hotel-booking-api/routes"
	"hotel-booking-api/services"
)

func main() {
	// .env is optional, environment variables may come from the host.
	_ = godotenv.Load()

	log := logger.NewLogger(os.Getenv("APP_ENV"))
	logger.Set(log)
	defer logger.Sync()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}

	m := metrics.Init()

	redisClient := config.NewRedisClient()
	if redisClient == nil {
		log.Info("response cache disabled, no reachable redis configured")
	}

	events := services.NewBookingEvents()
	if events == nil {
		log.Info("booking events disabled, RABBITMQ_URL not set")
	}

	userService := services.NewUserService(config.DB)
	roomService := services.NewRoomService(config.DB)
	spaService := services.NewSpaService(config.DB, config.StaticSpaCatalog())
	bookingService := services.NewBookingService(config.DB, events)

	authController := controllers.NewAuthController(userService, secret)
	userController := controllers.NewUserController(userService)
	roomController := controllers.NewRoomController(roomService)
	spaController := controllers.NewSpaController(spaService)
	bookingController := controllers.NewBookingController(bookingService, m)

	router := routes.SetupRouter(
		authController,
		userController,
		roomController,
		spaController,
		bookingController,
		secret,
		m,
		redisClient,
	)

	port := config.EnvOrDefault("PORT", "8080")
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
