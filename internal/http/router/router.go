package router

import (
	"devhubtrader.app/forge/internal/http/handler"
	"devhubtrader.app/forge/internal/service"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, services *service.Services) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1", handler.RequireAccount())
	{
		robotHandler := handler.NewRobotHandler(services.Robots())
		versionHandler := handler.NewVersionHandler(services.Versions())
		generationHandler := handler.NewGenerationHandler(services.Generations())

		RobotRouter(v1.Group("/robots"), robotHandler, versionHandler, generationHandler)
		VersionRouter(v1.Group("/versions"), versionHandler)
		GenerationRouter(v1.Group("/generations"), generationHandler)

		ledgerHandler := handler.NewLedgerHandler(services.Ledger())
		v1.GET("/balance", ledgerHandler.Balance)
		v1.GET("/catalog", handler.Catalog)
	}
}
