package routes

import (
	"net/http"
	"time"

	"clinicbot/handlers"
	"clinicbot/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups the endpoint handlers the router needs.
type Handlers struct {
	Chat     *handlers.ChatHandler
	Services *handlers.ServicesHandler
	Admin    *handlers.AdminHandler
}

// RegisterRoutes wires up all endpoints.
func RegisterRoutes(r *gin.Engine, h *Handlers) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterChatRoutes(r, h)
	RegisterAdminRoutes(r, h)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterChatRoutes registers the conversation endpoints the transport
// relays into.
func RegisterChatRoutes(r *gin.Engine, h *Handlers) {
	api := r.Group("/api")
	{
		api.POST("/chat", h.Chat.HandleChatEvent)
		api.GET("/services", h.Services.ListServicesHandler)
	}
}

// RegisterAdminRoutes registers the owner's back-office endpoints.
func RegisterAdminRoutes(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/admin")
	{
		api.Use(middleware.AdminAuthMiddleware())
		api.GET("/reports/daily", h.Admin.DailyReportHandler)
		api.GET("/reports/range", h.Admin.RangeReportHandler)
		api.GET("/appointments", h.Admin.ListAppointmentsHandler)
		api.POST("/payment-intent", h.Admin.PaymentIntentHandler)
	}
}
