// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/art-rental-backend/internal/config"
	"github.com/javajoker/art-rental-backend/internal/handlers"
	"github.com/javajoker/art-rental-backend/internal/middleware"
	"github.com/javajoker/art-rental-backend/internal/repositories"
)

const version = "1.0.0"

// Dependencies are the handlers and stores the route table is built from.
type Dependencies struct {
	Auth    *handlers.AuthHandler
	Users   *handlers.UserHandler
	Mediums *handlers.MediumHandler
	Artwork *handlers.ArtworkHandler
	Rentals *handlers.RentalHandler
	Admin   *handlers.AdminHandler

	AuditLogs repositories.AuditLogRepository
}

func New(cfg *config.Config, deps Dependencies) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	if deps.AuditLogs != nil {
		r.Use(middleware.AuditLogMiddleware(deps.AuditLogs))
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": version,
		})
	})

	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", deps.Auth.Register)
			auth.POST("/login", deps.Auth.Login)
			auth.GET("/me", middleware.AuthRequired(), deps.Auth.GetProfile)
		}

		// User routes
		users := v1.Group("/users")
		{
			users.GET("/:uuid", deps.Users.GetPublicProfile)

			protected := users.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.GET("/me", deps.Users.GetMe)
				protected.PUT("/me", deps.Users.UpdateMe)
				protected.GET("", middleware.AdminRequired(), deps.Users.ListUsers)
			}
		}

		// Medium routes
		mediums := v1.Group("/mediums")
		{
			mediums.GET("", deps.Mediums.List)

			admin := mediums.Group("")
			admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
			{
				admin.POST("", deps.Mediums.Create)
				admin.DELETE("/:uuid", deps.Mediums.Delete)
			}
		}

		// Artwork routes
		artworks := v1.Group("/artworks")
		{
			artworks.GET("", middleware.OptionalAuth(), deps.Artwork.List)
			artworks.GET("/:uuid", middleware.OptionalAuth(), deps.Artwork.Get)

			protected := artworks.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", deps.Artwork.Create)
				protected.PUT("/:uuid", deps.Artwork.Update)
				protected.DELETE("/:uuid", deps.Artwork.Delete)
				protected.POST("/:uuid/images", middleware.UploadRateLimit(), deps.Artwork.UploadImage)
			}

			moderation := artworks.Group("")
			moderation.Use(middleware.AuthRequired(), middleware.AdminRequired())
			{
				moderation.GET("/pending", deps.Artwork.ListPending)
				moderation.PUT("/:uuid/approve", deps.Artwork.Approve)
				moderation.PUT("/:uuid/decline", deps.Artwork.Decline)
			}
		}

		// Rental routes
		rentals := v1.Group("/rentals")
		rentals.Use(middleware.AuthRequired())
		{
			rentals.POST("", deps.Rentals.Create)
			rentals.GET("/my-rentals", deps.Rentals.MyRentals)
			rentals.GET("/check-availability/:uuid", deps.Rentals.CheckAvailability)
			rentals.GET("/:uuid", deps.Rentals.Get)
			rentals.POST("/:uuid/payment-intent", deps.Rentals.CreatePaymentIntent)

			admin := rentals.Group("")
			admin.Use(middleware.AdminRequired())
			{
				admin.GET("", deps.Rentals.List)
				admin.GET("/pending", deps.Rentals.Pending)
				admin.PUT("/:uuid/approve", deps.Rentals.Approve)
				admin.PUT("/:uuid/reject", deps.Rentals.Reject)
				admin.PUT("/:uuid/finalize", deps.Rentals.Finalize)
			}
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/dashboard/stats", deps.Admin.GetDashboardStats)
			admin.GET("/notifications", deps.Admin.GetNotifications)
		}
	}

	// Local uploads are served only when S3 is not configured
	if cfg.AWS.AccessKeyID == "" && cfg.Server.UploadDir != "" {
		r.Static("/uploads", cfg.Server.UploadDir)
	}

	return r
}
