package router

import (
	"github.com/gin-gonic/gin"

	"w9ayt_delivery_server/internal/handler"
	"w9ayt_delivery_server/internal/infrastructure/middleware"
	"w9ayt_delivery_server/internal/model"
)

func registerAuthRoutes(r *gin.Engine, h *handler.Handlers) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/signup", h.Auth.Signup)
		auth.POST("/company-signup", h.Auth.CompanySignup)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
		auth.GET("/verify-email", h.Auth.VerifyEmail)
	}
}

func registerPublicRoutes(r *gin.Engine, h *handler.Handlers) {
	r.GET("/api/companies", h.Company.ListApproved)
	r.POST("/api/contact", h.Contact.Submit)
}

func registerClientRoutes(r *gin.Engine, h *handler.Handlers) {
	client := r.Group("/api/client",
		middleware.JWTAuth(), middleware.RequireRole(model.RoleClient))
	{
		client.POST("/deliveries", h.Delivery.Create)
		client.GET("/deliveries", h.Delivery.ListForClient)
		client.GET("/deliveries/history", h.Delivery.History)
		client.PUT("/deliveries/:id/cancel", h.Delivery.Cancel)
	}
}

func registerCompanyRoutes(r *gin.Engine, h *handler.Handlers) {
	company := r.Group("/api/company",
		middleware.JWTAuth(), middleware.RequireRole(model.RoleCompany))
	{
		company.GET("/profile", h.Company.Profile)
		company.PUT("/profile", h.Company.UpdateProfile)

		company.GET("/drivers", h.Driver.List)
		company.POST("/drivers", h.Driver.Add)
		company.GET("/drivers/:id", h.Driver.Get)
		company.PUT("/drivers/:id", h.Driver.Update)
		company.DELETE("/drivers/:id", h.Driver.Delete)

		company.GET("/deliveries", h.Delivery.ListForCompany)
		company.PUT("/deliveries/:id/assign", h.Delivery.Assign)

		company.GET("/statistics", h.Statistics.Company)
		company.GET("/statistics/performance", h.Statistics.Performance)
	}
}

func registerDriverRoutes(r *gin.Engine, h *handler.Handlers) {
	driver := r.Group("/api/driver",
		middleware.JWTAuth(), middleware.RequireRole(model.RoleDriver))
	{
		driver.GET("/deliveries", h.Delivery.Available)
		driver.PUT("/deliveries/:id/accept", h.Delivery.Accept)
		driver.PUT("/deliveries/:id/status", h.Delivery.UpdateStatus)
	}
}

func registerAdminRoutes(r *gin.Engine, h *handler.Handlers) {
	admin := r.Group("/api/admin",
		middleware.JWTAuth(), middleware.RequireRole(model.RoleAdmin))
	{
		admin.GET("/users", h.User.List)
		admin.POST("/users", h.User.Create)
		admin.GET("/users/:id", h.User.Get)
		admin.PUT("/users/:id", h.User.Update)
		admin.DELETE("/users/:id", h.User.Delete)

		admin.GET("/companies", h.Company.ListAll)
		admin.PUT("/companies/:id/validate", h.Company.Validate)

		admin.GET("/contacts", h.Contact.List)
		admin.DELETE("/contacts/:id", h.Contact.Delete)

		admin.GET("/statistics", h.Statistics.Admin)
	}
}

func registerChatRoutes(r *gin.Engine, h *handler.Handlers) {
	chat := r.Group("/api", middleware.JWTAuth())
	{
		chat.POST("/conversations", h.Conversation.CreateOrGet)
		chat.GET("/conversations", h.Conversation.List)
		chat.GET("/conversations/:id", h.Conversation.Get)
		chat.POST("/conversations/:id/messages", h.Conversation.SendMessage)
		chat.GET("/attachments/:filename", h.Conversation.Download)
	}

	// The websocket handshake authenticates by query token instead.
	r.GET("/ws", h.Ws.Connect)
}
