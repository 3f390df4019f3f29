package handler

import (
	"net/http"

	"devhubtrader.app/forge/internal/http/dto"
	"github.com/gin-gonic/gin"
)

// Catalog serves the guided form options.
func Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToCatalogResponse())
}
