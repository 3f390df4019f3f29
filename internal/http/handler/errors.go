package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"devhubtrader.app/forge/internal/generation"
	"devhubtrader.app/forge/internal/http/dto"
	"devhubtrader.app/forge/internal/service"
	"devhubtrader.app/forge/internal/store"
	"github.com/gin-gonic/gin"
)

const actionBuyTokens = "buy_tokens"

var kindStatus = map[generation.Kind]int{
	generation.KindInsufficientTokens: http.StatusPaymentRequired,
	generation.KindMissingCredentials: http.StatusServiceUnavailable,
	generation.KindUnavailable:        http.StatusServiceUnavailable,
	generation.KindAssistantTimeout:   http.StatusGatewayTimeout,
	generation.KindAssistantRunFailed: http.StatusBadGateway,
	generation.KindEmptyReply:         http.StatusBadGateway,
	generation.KindRobotNotFound:      http.StatusNotFound,
	generation.KindInvalidRequest:     http.StatusBadRequest,
	generation.KindPersistenceFailure: http.StatusInternalServerError,
	generation.KindLedgerDebitFailure: http.StatusInternalServerError,
	generation.KindInterrupted:        http.StatusInternalServerError,
	generation.KindCanceled:           499,
}

// respondGenerationError writes a failed generation. The partial outcome is
// attached so generated code is never lost to the user.
func respondGenerationError(c *gin.Context, err error, outcome *generation.Outcome) {
	kind := generation.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	resp := dto.GenerationErrorResponse{
		Error:   publicMessage(kind, err),
		Kind:    string(kind),
		Outcome: dto.ToGenerationResponse(outcome),
	}
	if kind == generation.KindInsufficientTokens {
		resp.Action = actionBuyTokens
	}
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "generation failed", "error", err, "kind", kind)
	}
	c.JSON(status, resp)
}

func publicMessage(kind generation.Kind, err error) string {
	switch kind {
	case generation.KindInsufficientTokens:
		return "not enough tokens to generate a version"
	case generation.KindMissingCredentials:
		return "assistant is not configured"
	case generation.KindUnavailable:
		return "service temporarily unavailable"
	case generation.KindAssistantTimeout:
		return "assistant took too long to answer"
	case generation.KindInterrupted:
		return "generation was interrupted, check the robot's versions before retrying"
	case generation.KindRobotNotFound:
		return "robot not found"
	case generation.KindPersistenceFailure:
		return "generated code could not be saved"
	case generation.KindLedgerDebitFailure:
		return "version saved but tokens could not be charged"
	case generation.KindInvalidRequest, generation.KindAssistantRunFailed, generation.KindEmptyReply:
		var genErr *generation.Error
		if errors.As(err, &genErr) && genErr.Err != nil {
			return genErr.Err.Error()
		}
	}
	return err.Error()
}

// respondStoreError maps robot and version service failures.
func respondStoreError(c *gin.Context, err error, action string) {
	ctx := c.Request.Context()
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, store.ErrDuplicateName):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrInvalidVersionName),
		errors.Is(err, service.ErrDescriptionRequired),
		errors.Is(err, service.ErrCodeRequired),
		errors.Is(err, service.ErrVersionNoCode),
		errors.Is(err, service.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		slog.ErrorContext(ctx, "failed to "+action, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + action})
	}
}
