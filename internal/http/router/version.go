package router

import (
	"devhubtrader.app/forge/internal/http/handler"
	"github.com/gin-gonic/gin"
)

func VersionRouter(rg *gin.RouterGroup, h *handler.VersionHandler) {
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id", h.Update)
	rg.POST("/:id/rename", h.Rename)
	rg.DELETE("/:id", h.Delete)
}

func GenerationRouter(rg *gin.RouterGroup, h *handler.GenerationHandler) {
	rg.GET("/:id", h.GetRun)
}
