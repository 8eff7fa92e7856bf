// server/internal/api/routes/routes.go
package routes

import (
	"car-rental-api-server/internal/api/handlers"
	"car-rental-api-server/internal/api/middleware"
	"car-rental-api-server/internal/locker"
	"car-rental-api-server/internal/s3"
	"car-rental-api-server/internal/socket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupRouter wires the handlers to their dependencies and builds the route
// table.
func SetupRouter(
	db *mongo.Database,
	carLocker *locker.CarLocker,
	s3Uploader *s3.Uploader,
	wsHub *socket.Hub,
) *gin.Engine {
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	authHandler := &handlers.AuthHandler{DB: db}
	userHandler := &handlers.UserHandler{DB: db}
	carHandler := &handlers.CarHandler{DB: db, S3Uploader: s3Uploader}
	bookingHandler := &handlers.BookingHandler{DB: db, Locker: carLocker, Hub: wsHub}
	webSocketHandler := &handlers.WebSocketHandler{Hub: wsHub}

	apiV1 := router.Group("/api/v1")
	{
		// === PUBLIC ROUTES ===

		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		public := apiV1.Group("/")
		{
			public.GET("/cars", carHandler.GetAllCars)
			public.GET("/cars/:id", carHandler.GetCarByID)
			public.GET("/cars/:id/availability", bookingHandler.CheckAvailability)
		}

		// === AUTHENTICATED ROUTES ===

		authed := apiV1.Group("/")
		authed.Use(middleware.Authenticate())
		authed.Use(middleware.Authorize("customer", "admin"))
		{
			users := authed.Group("/users")
			{
				users.GET("/me", userHandler.GetProfile)
				users.PUT("/me", userHandler.UpdateProfile)
			}

			bookings := authed.Group("/bookings")
			{
				bookings.POST("/", bookingHandler.CreateBooking)
				bookings.GET("/my", bookingHandler.GetMyBookings)
				bookings.GET("/:id", bookingHandler.GetBooking)
				bookings.POST("/:id/cancel", bookingHandler.CancelBooking)
			}
		}

		// === ADMIN ROUTES ===

		admin := apiV1.Group("/admin")
		admin.Use(middleware.Authenticate())
		admin.Use(middleware.Authorize("admin"))
		{
			cars := admin.Group("/cars")
			{
				cars.POST("/", carHandler.CreateCar)
				cars.PUT("/:id", carHandler.UpdateCar)
				cars.DELETE("/:id", carHandler.DeleteCar)
				cars.POST("/:id/photos", carHandler.UploadCarPhoto)
				cars.PATCH("/:id/maintenance", carHandler.SetMaintenanceStatus)
			}

			adminBookings := admin.Group("/bookings")
			{
				adminBookings.GET("/", bookingHandler.GetAllBookings)
				adminBookings.PATCH("/:id/status", bookingHandler.UpdateBookingStatus)
				adminBookings.PATCH("/:id/payment", bookingHandler.UpdatePaymentStatus)
			}

			admin.GET("/users", userHandler.GetAllUsers)
		}

		// Admin live feed of booking events (auth happens in the handler,
		// the token rides in the query string).
		apiV1.GET("/ws", webSocketHandler.ServeWs)
	}

	return router
}
