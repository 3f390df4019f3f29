package handler_test

import (
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"devhubtrader.app/forge/internal/http/handler"
)

var _ = Describe("RequireAccount", func() {
	var router *gin.Engine

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		router.GET("/me", handler.RequireAccount(), func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"account": c.GetInt64("account_id")})
		})
	})

	DescribeTable("rejects requests without a usable account",
		func(header string) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if header != "" {
				req.Header.Set(handler.AccountHeader, header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		},
		Entry("missing", ""),
		Entry("not a number", "abc"),
		Entry("zero", "0"),
		Entry("negative", "-5"),
	)

	It("passes the account to the handler", func() {
		w := perform(router, http.MethodGet, "/me", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"account":42`))
	})
})
