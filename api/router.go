package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"sup-api/auth"
	"sup-api/observability"
	"sup-api/services"
)

// Dependencies carries everything the router needs, constructed once at
// startup and passed in explicitly.
type Dependencies struct {
	Log      *slog.Logger
	Users    services.IUserService
	Messages services.IMessageService
	Issuer   *auth.TokenIssuer
	Monitor  *observability.Monitor
}

// NewRouter wires all endpoints. Signup, token issuance and the status page
// are public; everything else sits behind the authentication middleware.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(func(c *gin.Context) {
		deps.Monitor.CountRequest()
		c.Next()
	})

	userHandler := NewUserHandler(deps.Users, deps.Log)
	messageHandler := NewMessageHandler(deps.Messages, deps.Log)
	authHandler := NewAuthHandler(deps.Users, deps.Issuer, deps.Log)
	statusHandler := NewStatusHandler(deps.Monitor)

	router.POST("/users", userHandler.Create)
	router.POST("/auth/token", authHandler.Token)
	router.GET("/status", statusHandler.Status)

	protected := router.Group("")
	protected.Use(auth.Middleware(deps.Users, deps.Issuer))
	protected.GET("/users", userHandler.List)
	protected.GET("/users/:userID", userHandler.Get)
	protected.PUT("/users/:userID", userHandler.Update)
	protected.DELETE("/users/:userID", userHandler.Delete)
	protected.GET("/messages", messageHandler.List)
	protected.POST("/messages", messageHandler.Create)
	protected.GET("/messages/:messageID", messageHandler.Get)
	protected.GET("/search", messageHandler.Search)

	return router
}
