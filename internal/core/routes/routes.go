package routes

import (
	"os"

	"github.com/Alejano1/GestInvLab-proyecto/internal/core/container"
	"github.com/Alejano1/GestInvLab-proyecto/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const indexFilePath = "./web/index.html"

func RegisterPublicRoutes(router *gin.Engine, container *container.Container) {
	container.AuthHandler.RegisterPublicRoutes(router)
}

func RegisterProtectedRoutes(router *gin.Engine, container *container.Container) {
	protectedRoutes := router.Group("/api")
	protectedRoutes.Use(security.SessionMiddleware(container.Issuer, container.Store))

	container.AuthHandler.RegisterRoutes(protectedRoutes)
	container.ScreenHandler.RegisterRoutes(protectedRoutes)
	container.MovementHandler.RegisterRoutes(protectedRoutes)
	container.ReportHandler.RegisterRoutes(protectedRoutes)
	container.AdminHandler.RegisterRoutes(protectedRoutes)
}

func RegisterUtilityRoutes(router *gin.Engine, container *container.Container) {
	router.GET("/health", container.Health.Handler())

	if _, err := os.Stat(indexFilePath); err == nil {
		router.GET("/", func(c *gin.Context) {
			c.File(indexFilePath)
		})
		router.GET(security.LoginPath, func(c *gin.Context) {
			c.File(indexFilePath)
		})
		container.Logger.Info("Console page registered", zap.String("path", indexFilePath))
	} else {
		container.Logger.Warn("Console page not found, only the JSON API is served", zap.String("path", indexFilePath))
	}
}
