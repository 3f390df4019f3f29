package router

import (
	"devhubtrader.app/forge/internal/http/handler"
	"github.com/gin-gonic/gin"
)

func RobotRouter(
	rg *gin.RouterGroup,
	robots *handler.RobotHandler,
	versions *handler.VersionHandler,
	generations *handler.GenerationHandler,
) {
	rg.POST("", robots.Create)
	rg.GET("", robots.List)
	rg.GET("/:id", robots.Get)
	rg.PATCH("/:id", robots.Rename)
	rg.DELETE("/:id", robots.Delete)
	rg.PUT("/:id/current-version", robots.SetCurrentVersion)

	rg.GET("/:id/versions", versions.List)
	rg.POST("/:id/versions", versions.Create)
	rg.GET("/:id/versions/suggested-name", versions.SuggestName)

	rg.POST("/:id/generate", generations.Generate)
	rg.POST("/:id/generations", generations.Enqueue)
}
