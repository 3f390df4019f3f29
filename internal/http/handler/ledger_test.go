package handler_test

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"devhubtrader.app/forge/internal/http/handler"
	"devhubtrader.app/forge/internal/model"
	"devhubtrader.app/forge/internal/service"
)

var _ = Describe("LedgerHandler", func() {
	It("returns the balance with recent entries", func() {
		gin.SetMode(gin.TestMode)
		router := gin.New()
		svc := &mockLedgerService{
			balanceFn: func(_ context.Context, accountID int64) (*service.Balance, error) {
				return &service.Balance{
					AccountID: accountID,
					Tokens:    1500,
					Recent: []model.LedgerEntry{
						{ID: 1, Delta: -500, BalanceAfter: 1500, Reason: model.LedgerReasonGeneration},
					},
				}, nil
			},
		}
		h := handler.NewLedgerHandler(svc)
		router.GET("/balance", handler.RequireAccount(), h.Balance)

		w := perform(router, http.MethodGet, "/balance", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"tokens":1500`))
		Expect(w.Body.String()).To(ContainSubstring(`"delta":-500`))
	})
})
