package handler

import (
	"log/slog"
	"net/http"

	"devhubtrader.app/forge/internal/http/dto"
	"devhubtrader.app/forge/internal/service"
	"devhubtrader.app/forge/internal/store"
	"github.com/gin-gonic/gin"
)

type VersionHandler struct {
	versionService service.VersionService
}

func NewVersionHandler(versionService service.VersionService) *VersionHandler {
	return &VersionHandler{versionService: versionService}
}

func (h *VersionHandler) List(c *gin.Context) {
	robotID, ok := pathID(c, "id")
	if !ok {
		return
	}

	versions, err := h.versionService.List(c.Request.Context(), accountID(c), robotID)
	if err != nil {
		respondStoreError(c, err, "list versions")
		return
	}
	c.JSON(http.StatusOK, dto.ToVersionResponses(versions))
}

func (h *VersionHandler) Get(c *gin.Context) {
	versionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	version, err := h.versionService.Get(c.Request.Context(), accountID(c), versionID)
	if err != nil {
		respondStoreError(c, err, "get version")
		return
	}
	c.JSON(http.StatusOK, dto.ToVersionResponse(version))
}

func (h *VersionHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	robotID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.CreateVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	version, err := h.versionService.Create(ctx, accountID(c), robotID, service.NewVersion{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		respondStoreError(c, err, "create version")
		return
	}
	c.JSON(http.StatusCreated, dto.ToVersionResponse(version))
}

func (h *VersionHandler) SuggestName(c *gin.Context) {
	robotID, ok := pathID(c, "id")
	if !ok {
		return
	}

	name, err := h.versionService.SuggestName(c.Request.Context(), accountID(c), robotID)
	if err != nil {
		respondStoreError(c, err, "suggest version name")
		return
	}
	c.JSON(http.StatusOK, dto.SuggestedNameResponse{Name: name})
}

func (h *VersionHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	versionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	version, err := h.versionService.Update(ctx, accountID(c), versionID, store.VersionPatch{
		Description: req.Description,
		Tags:        req.Tags,
		Code:        req.Code,
	})
	if err != nil {
		respondStoreError(c, err, "update version")
		return
	}
	c.JSON(http.StatusOK, dto.ToVersionResponse(version))
}

func (h *VersionHandler) Rename(c *gin.Context) {
	ctx := c.Request.Context()
	versionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.RenameVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	version, err := h.versionService.Rename(ctx, accountID(c), versionID, req.Name)
	if err != nil {
		respondStoreError(c, err, "rename version")
		return
	}
	c.JSON(http.StatusOK, dto.ToVersionResponse(version))
}

func (h *VersionHandler) Delete(c *gin.Context) {
	versionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.versionService.Delete(c.Request.Context(), accountID(c), versionID); err != nil {
		respondStoreError(c, err, "delete version")
		return
	}
	c.Status(http.StatusNoContent)
}
