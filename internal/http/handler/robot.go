package handler

import (
	"log/slog"
	"net/http"

	"devhubtrader.app/forge/common/id"
	"devhubtrader.app/forge/internal/http/dto"
	"devhubtrader.app/forge/internal/service"
	"github.com/gin-gonic/gin"
)

type RobotHandler struct {
	robotService service.RobotService
}

func NewRobotHandler(robotService service.RobotService) *RobotHandler {
	return &RobotHandler{robotService: robotService}
}

func (h *RobotHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateRobotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	robot, version, err := h.robotService.Create(ctx, accountID(c), req.Name)
	if err != nil {
		respondStoreError(c, err, "create robot")
		return
	}

	c.JSON(http.StatusCreated, dto.CreateRobotResponse{
		Robot:   dto.ToRobotResponse(robot),
		Version: dto.ToVersionResponse(version),
	})
}

func (h *RobotHandler) List(c *gin.Context) {
	robots, err := h.robotService.List(c.Request.Context(), accountID(c))
	if err != nil {
		respondStoreError(c, err, "list robots")
		return
	}
	c.JSON(http.StatusOK, dto.ToRobotResponses(robots))
}

func (h *RobotHandler) Get(c *gin.Context) {
	robotID, ok := pathID(c, "id")
	if !ok {
		return
	}

	robot, err := h.robotService.Get(c.Request.Context(), accountID(c), robotID)
	if err != nil {
		respondStoreError(c, err, "get robot")
		return
	}
	c.JSON(http.StatusOK, dto.ToRobotResponse(robot))
}

func (h *RobotHandler) Rename(c *gin.Context) {
	ctx := c.Request.Context()
	robotID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.RenameRobotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	robot, err := h.robotService.Rename(ctx, accountID(c), robotID, req.Name)
	if err != nil {
		respondStoreError(c, err, "rename robot")
		return
	}
	c.JSON(http.StatusOK, dto.ToRobotResponse(robot))
}

func (h *RobotHandler) Delete(c *gin.Context) {
	robotID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.robotService.Delete(c.Request.Context(), accountID(c), robotID); err != nil {
		respondStoreError(c, err, "delete robot")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RobotHandler) SetCurrentVersion(c *gin.Context) {
	ctx := c.Request.Context()
	robotID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.SetCurrentVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	versionID, err := id.Parse(req.VersionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version_id"})
		return
	}

	robot, err := h.robotService.SetCurrentVersion(ctx, accountID(c), robotID, versionID)
	if err != nil {
		respondStoreError(c, err, "set current version")
		return
	}
	c.JSON(http.StatusOK, dto.ToRobotResponse(robot))
}
