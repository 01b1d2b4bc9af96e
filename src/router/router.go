package router

import (
	"net/http"

	"github.com/rafiql/voice-session-service/src/config"
	"github.com/rafiql/voice-session-service/src/controller"
	"github.com/rafiql/voice-session-service/src/hub"
	"github.com/rafiql/voice-session-service/src/repository"
	"github.com/rafiql/voice-session-service/src/service"
	"github.com/rafiql/voice-session-service/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewRouter wires controllers and routes for the voice session service.
// It creates a new gin.Engine, initializes the necessary controllers and routes,
// and returns the router.
func NewRouter(cfg *config.GlobalConfig, store repository.SessionStore, eventHub *hub.Hub, emitter service.EventEmitter, logger *logrus.Logger) *gin.Engine {
	router := gin.Default()

	sessionService := service.NewSessionService(store, emitter)
	sessionController := controller.NewSessionController(sessionService, logger)
	subscriberController := controller.NewSubscriberController(eventHub)

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	sessions := router.Group("/sessions")
	{
		sessions.POST("", sessionController.Create)
		sessions.GET("", sessionController.List)
		sessions.GET("/ws", subscriberController.Subscribe)
		sessions.GET("/:id", sessionController.Get)
		sessions.PATCH("/:id/status", sessionController.UpdateStatus)
		sessions.POST("/:id/end", sessionController.End)
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.NoRoute(func(ctx *gin.Context) {
		utils.SendError(ctx, http.StatusNotFound, "Not Found", "no such route",
			"https://voice-session-service.com/errors/404", ctx.Request.URL.Path)
	})

	return router
}
