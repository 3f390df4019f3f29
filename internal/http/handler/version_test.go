package handler_test

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"devhubtrader.app/forge/internal/http/handler"
	"devhubtrader.app/forge/internal/model"
	"devhubtrader.app/forge/internal/service"
	"devhubtrader.app/forge/internal/store"
)

var _ = Describe("VersionHandler", func() {
	var (
		router *gin.Engine
		svc    *mockVersionService
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		svc = &mockVersionService{}
		h := handler.NewVersionHandler(svc)
		router.Use(handler.RequireAccount())
		router.GET("/robots/:id/versions", h.List)
		router.POST("/robots/:id/versions", h.Create)
		router.GET("/robots/:id/versions/suggested-name", h.SuggestName)
		router.PATCH("/versions/:id", h.Update)
		router.POST("/versions/:id/rename", h.Rename)
		router.DELETE("/versions/:id", h.Delete)
	})

	Describe("Create", func() {
		It("returns 201 with the stored version", func() {
			var got service.NewVersion
			svc.createFn = func(_ context.Context, _, robotID int64, in service.NewVersion) (*model.Version, error) {
				got = in
				return &model.Version{ID: 5, RobotID: robotID, VersionName: in.Name, Code: in.Code, Tags: in.Tags}, nil
			}

			w := perform(router, http.MethodPost, "/robots/3/versions",
				`{"name":"v1.2.0","code":"x := 1;","description":"ajuste","tags":["tf-m5"]}`)

			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(got.Name).To(Equal("v1.2.0"))
			Expect(got.Tags).To(ConsistOf("tf-m5"))
			Expect(w.Body.String()).To(ContainSubstring(`"robot_id":"3"`))
		})

		It("returns 400 when description is missing", func() {
			w := perform(router, http.MethodPost, "/robots/3/versions", `{"name":"Versão 2","code":"x"}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 400 for a malformed semantic name", func() {
			svc.createFn = func(context.Context, int64, int64, service.NewVersion) (*model.Version, error) {
				return nil, service.ErrInvalidVersionName
			}
			w := perform(router, http.MethodPost, "/robots/3/versions",
				`{"name":"v1","code":"x","description":"d"}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("vX.Y.Z"))
		})

		It("returns 409 when the name is taken", func() {
			svc.createFn = func(context.Context, int64, int64, service.NewVersion) (*model.Version, error) {
				return nil, fmt.Errorf("name %q taken, try %q: %w", "Versão 2", "Versão 3", store.ErrDuplicateName)
			}
			w := perform(router, http.MethodPost, "/robots/3/versions",
				`{"name":"Versão 2","code":"x","description":"d"}`)
			Expect(w.Code).To(Equal(http.StatusConflict))
			Expect(w.Body.String()).To(ContainSubstring("Versão 3"))
		})
	})

	It("suggests the next name", func() {
		svc.suggestNameFn = func(context.Context, int64, int64) (string, error) {
			return "Versão 4", nil
		}
		w := perform(router, http.MethodGet, "/robots/3/versions/suggested-name", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("Versão 4"))
	})

	It("passes only the provided fields on update", func() {
		var got store.VersionPatch
		svc.updateFn = func(_ context.Context, _, versionID int64, patch store.VersionPatch) (*model.Version, error) {
			got = patch
			return &model.Version{ID: versionID, Description: patch.Description}, nil
		}

		w := perform(router, http.MethodPatch, "/versions/9", `{"description":"nova"}`)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(got.Description).To(Equal(strPtr("nova")))
		Expect(got.Code).To(BeNil())
		Expect(got.Tags).To(BeNil())
	})

	It("returns 409 on a conflicting rename", func() {
		svc.renameFn = func(context.Context, int64, int64, string) (*model.Version, error) {
			return nil, store.ErrDuplicateName
		}
		w := perform(router, http.MethodPost, "/versions/9/rename", `{"name":"Versão 1"}`)
		Expect(w.Code).To(Equal(http.StatusConflict))
	})

	It("returns 404 when deleting an unknown version", func() {
		svc.deleteFn = func(context.Context, int64, int64) error { return store.ErrNotFound }
		w := perform(router, http.MethodDelete, "/versions/9", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})
})
