package handler

import (
	"net/http"

	"devhubtrader.app/forge/internal/http/dto"
	"devhubtrader.app/forge/internal/service"
	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	ledgerService service.LedgerService
}

func NewLedgerHandler(ledgerService service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

func (h *LedgerHandler) Balance(c *gin.Context) {
	balance, err := h.ledgerService.Balance(c.Request.Context(), accountID(c))
	if err != nil {
		respondStoreError(c, err, "get balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceResponse(balance))
}
