package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"hotel-booking-api/controllers"
	"hotel-booking-api/metrics"
	"hotel-booking-api/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires middleware and the route groups onto a gin engine.
func SetupRouter(
	auth *controllers.AuthController,
	users *controllers.UserController,
	rooms *controllers.RoomController,
	spa *controllers.SpaController,
	bookings *controllers.BookingController,
	secret string,
	m *metrics.Metrics,
	cache *redis.Client,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Prometheus(m))

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireAuth := middleware.RequireAuth(secret)
	optionalAuth := middleware.OptionalAuth(secret)
	adminOnly := middleware.RequireAdmin()
	catalogCache := middleware.ResponseCache(cache, 30*time.Second)

	api := r.Group("/api")
	{
		userRoutes := api.Group("/users")
		{
			userRoutes.POST("/register", auth.Register)
			userRoutes.POST("/login", auth.Login)

			userRoutes.GET("/profile", requireAuth, users.GetProfile)
			userRoutes.PUT("/profile", requireAuth, users.UpdateProfile)
			userRoutes.PUT("/change-password", requireAuth, users.ChangePassword)

			userRoutes.GET("", requireAuth, adminOnly, users.GetUsers)
			userRoutes.GET("/:id", requireAuth, adminOnly, users.GetUser)
			userRoutes.PUT("/:id", requireAuth, adminOnly, users.UpdateUser)
			userRoutes.DELETE("/:id", requireAuth, adminOnly, users.DeleteUser)
		}

		roomRoutes := api.Group("/rooms")
		{
			roomRoutes.GET("", catalogCache, rooms.GetRooms)
			roomRoutes.GET("/check-availability/:id", bookings.CheckRoomAvailability)
			roomRoutes.GET("/:id", catalogCache, rooms.GetRoom)

			roomRoutes.POST("", requireAuth, adminOnly, rooms.CreateRoom)
			roomRoutes.PUT("/:id", requireAuth, adminOnly, rooms.UpdateRoom)
			roomRoutes.DELETE("/:id", requireAuth, adminOnly, rooms.DeleteRoom)
		}

		spaRoutes := api.Group("/spa")
		{
			spaRoutes.GET("", catalogCache, spa.GetServices)
			spaRoutes.GET("/:id", catalogCache, spa.GetService)
			spaRoutes.POST("/book", requireAuth, spa.BookService)

			spaRoutes.POST("", requireAuth, adminOnly, spa.CreateService)
			spaRoutes.PUT("/:id", requireAuth, adminOnly, spa.UpdateService)
			spaRoutes.DELETE("/:id", requireAuth, adminOnly, spa.DeleteService)
		}

		bookingRoutes := api.Group("/bookings")
		{
			bookingRoutes.GET("", requireAuth, adminOnly, bookings.GetBookings)
			bookingRoutes.GET("/user", requireAuth, bookings.GetUserBookings)
			bookingRoutes.GET("/recent", requireAuth, adminOnly, bookings.GetRecentBookings)
			bookingRoutes.GET("/:id", requireAuth, bookings.GetBooking)

			bookingRoutes.POST("", optionalAuth, bookings.CreateBooking)
			bookingRoutes.PUT("/:id/status", requireAuth, adminOnly, bookings.UpdateBookingStatus)
			bookingRoutes.PUT("/:id/cancel", requireAuth, bookings.CancelBooking)
			bookingRoutes.DELETE("/:id", requireAuth, adminOnly, bookings.DeleteBooking)
		}
	}

	return r
}
