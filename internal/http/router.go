package api

import (
	stdhttp "net/http"

	intconfig "nightcity/internal/config"
	"nightcity/internal/domain"
	h "nightcity/internal/http/handlers"
	"nightcity/internal/http/middleware"
	"nightcity/internal/metrics"
	"nightcity/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func NewRouter(env intconfig.Env, hd h.Handler) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		gin.Recovery(),
		metrics.HTTP(),
		middleware.CORS(env.CORSAllowedOrigins),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.Logger().Warn("failed to set trusted proxies", zap.Error(err))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if env.StaticRoot != "" {
		r.Static("/Pictures", env.StaticRoot+"/Pictures")
	}

	auth := middleware.RequireAuth(hd.Tokens)
	admin := middleware.RequireSecurityLevel(domain.AdminSecurityLevel)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", hd.DBCheck)

		// Auth
		authGroup := api.Group("/auth")
		authGroup.POST("/register", hd.Register)
		authGroup.POST("/login", hd.Login)
		authGroup.POST("/logout", hd.Logout)

		// Users
		users := api.Group("/users", auth)
		users.GET("/me", hd.Me)
		users.GET("/:id", hd.UserByID)

		// Districts
		districts := api.Group("/districts")
		districts.GET("", hd.ListDistricts)
		districts.GET("/:id", hd.DistrictDetails)

		// Bookings
		bookings := api.Group("/bookings")
		bookings.POST("/quote", hd.QuoteBooking)
		bookings.POST("", auth, hd.CreateBooking)
		bookings.GET("/mine", auth, hd.MyBookings)
		bookings.GET("", auth, admin, hd.AllBookings)
		bookings.GET("/:id/receipt", auth, hd.BookingReceipt)
	}

	return r
}
