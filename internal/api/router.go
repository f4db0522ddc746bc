package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"campus-food-backend/config"
	"campus-food-backend/internal/metrics"
	"campus-food-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(handler *Handler, cfg config.ServerConfig) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(metrics.Middleware())

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/")
	api.Use(mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst))
	{
		api.GET("/", handler.ListEvents)
		api.GET("/search/name/:name", handler.SearchByName)
		api.GET("/search/food/:food", handler.SearchByFood)
		api.GET("/search/dietary", handler.SearchByDietaryTags)
		api.GET("/events/:id/food", handler.FoodByEvent)
		api.GET("/profiles/:id/reservations", handler.ProfileReservations)
		api.GET("/stats", handler.Stats)

		api.POST("/event/", handler.CreateEvent)
		api.POST("/food/", handler.CreateFood)
		api.PUT("/reserve/", handler.Reserve)
		api.POST("/reserve/cancel", handler.CancelReservation)
	}

	notifications := api.Group("/notifications")
	{
		notifications.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
		notifications.GET("/subscription", handler.GetSubscription)
		notifications.PUT("/subscription", handler.PutSubscription)
		notifications.DELETE("/subscription", handler.DeleteSubscription)
		notifications.GET("/preferences/:user_id", handler.GetNotificationPreference)
		notifications.PUT("/preferences", handler.PutNotificationPreference)
	}

	return r
}
