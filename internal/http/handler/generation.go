package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"devhubtrader.app/forge/common/id"
	"devhubtrader.app/forge/common/logger"
	"devhubtrader.app/forge/internal/compose"
	"devhubtrader.app/forge/internal/generation"
	"devhubtrader.app/forge/internal/http/dto"
	"devhubtrader.app/forge/internal/model"
	"devhubtrader.app/forge/internal/service"
	"devhubtrader.app/forge/internal/store"
	"github.com/gin-gonic/gin"
)

type GenerationHandler struct {
	generationService service.GenerationService
}

func NewGenerationHandler(generationService service.GenerationService) *GenerationHandler {
	return &GenerationHandler{generationService: generationService}
}

// Generate runs the assistant inline and answers once the version is saved.
func (h *GenerationHandler) Generate(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}

	outcome, err := h.generationService.Generate(c.Request.Context(), req)
	if err != nil {
		respondGenerationError(c, err, outcome)
		return
	}
	c.JSON(http.StatusOK, dto.ToGenerationResponse(outcome))
}

// Enqueue hands the generation to the worker and answers 202 with the run.
func (h *GenerationHandler) Enqueue(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}

	run, err := h.generationService.Enqueue(c.Request.Context(), req)
	if err != nil {
		respondGenerationError(c, err, nil)
		return
	}
	c.JSON(http.StatusAccepted, dto.ToGenerationRunResponse(run))
}

func (h *GenerationHandler) GetRun(c *gin.Context) {
	runID, ok := pathID(c, "id")
	if !ok {
		return
	}

	run, err := h.generationService.GetRun(c.Request.Context(), accountID(c), runID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "generation not found"})
			return
		}
		slog.ErrorContext(c.Request.Context(), "failed to get generation", "error", err, "run_id", runID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get generation"})
		return
	}
	c.JSON(http.StatusOK, dto.ToGenerationRunResponse(run))
}

func (h *GenerationHandler) bind(c *gin.Context) (service.GenerateRequest, bool) {
	ctx := c.Request.Context()
	robotID, ok := pathID(c, "id")
	if !ok {
		return service.GenerateRequest{}, false
	}

	var body dto.GenerateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return service.GenerateRequest{}, false
	}

	req := service.GenerateRequest{
		AccountID:          accountID(c),
		RobotID:            robotID,
		Operation:          model.Operation(body.Operation),
		UserText:           body.Message,
		Guided:             body.Guided.ToModel(),
		ProblemDescription: body.ProblemDescription,
	}
	if err := compose.ValidateGuided(req.Guided); err != nil {
		c.JSON(http.StatusBadRequest, dto.GenerationErrorResponse{
			Error: err.Error(),
			Kind:  string(generation.KindInvalidRequest),
		})
		return service.GenerateRequest{}, false
	}
	if src := strings.TrimSpace(body.SourceVersionID); src != "" {
		sourceID, err := id.Parse(src)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.GenerationErrorResponse{
				Error: "invalid source_version_id",
				Kind:  string(generation.KindInvalidRequest),
			})
			return service.GenerateRequest{}, false
		}
		req.SourceVersionID = &sourceID
	}

	c.Request = c.Request.WithContext(logger.WithLogFields(ctx, logger.LogFields{RobotID: &robotID}))
	return req, true
}
