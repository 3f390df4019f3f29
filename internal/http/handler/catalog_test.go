package handler_test

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"devhubtrader.app/forge/internal/http/handler"
)

var _ = Describe("Catalog", func() {
	It("lists the guided form options", func() {
		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.GET("/catalog", handler.Catalog)

		w := perform(router, http.MethodGet, "/catalog", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string][]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["timeframes"]).To(ContainElement(HaveKeyWithValue("id", "M5")))
		Expect(resp["assets"]).To(ContainElement("WINFUT"))
		Expect(resp["strategies"]).To(ContainElement("Rompimento"))
		Expect(resp["risk_levels"]).To(ContainElement("Moderado"))
	})
})
