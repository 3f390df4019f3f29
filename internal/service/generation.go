package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"devhubtrader.app/forge/common/id"
	"devhubtrader.app/forge/common/logger"
	"devhubtrader.app/forge/internal/compose"
	"devhubtrader.app/forge/internal/generation"
	"devhubtrader.app/forge/internal/model"
	"devhubtrader.app/forge/internal/queue"
	"devhubtrader.app/forge/internal/store"
)

var ErrRequestTooShort = errors.New("request is too short, use the guided form")

type GenerateRequest struct {
	AccountID       int64
	RobotID         int64
	SourceVersionID *int64
	// Operation may be empty; it is then inferred from UserText.
	Operation          model.Operation
	UserText           string
	Guided             *model.GuidedFields
	ProblemDescription string
}

// Orchestrator is the part of generation.Orchestrator the service drives.
type Orchestrator interface {
	Generate(ctx context.Context, in generation.Input) (*generation.Outcome, error)
}

type GenerationService interface {
	// Generate runs a generation inline and returns its outcome.
	Generate(ctx context.Context, req GenerateRequest) (*generation.Outcome, error)
	// Enqueue records a run and hands it to the worker.
	Enqueue(ctx context.Context, req GenerateRequest) (*model.GenerationRun, error)
	GetRun(ctx context.Context, accountID, runID int64) (*model.GenerationRun, error)
	// Process drives a queued run to completion. A retryable failure is
	// returned without finishing the run unless finalAttempt is set.
	Process(ctx context.Context, runID int64, finalAttempt bool) error
}

type generationService struct {
	orchestrator Orchestrator
	runs         store.GenerationRunStore
	ledger       store.LedgerStore
	producer     queue.Producer
	tokenCost    int64
}

func NewGenerationService(
	orchestrator Orchestrator,
	runs store.GenerationRunStore,
	ledger store.LedgerStore,
	producer queue.Producer,
	tokenCost int64,
) GenerationService {
	if tokenCost <= 0 {
		tokenCost = generation.DefaultTokenCost
	}
	return &generationService{
		orchestrator: orchestrator,
		runs:         runs,
		ledger:       ledger,
		producer:     producer,
		tokenCost:    tokenCost,
	}
}

func (s *generationService) Generate(ctx context.Context, req GenerateRequest) (*generation.Outcome, error) {
	req, err := normalizeRequest(req)
	if err != nil {
		return nil, err
	}
	return s.orchestrator.Generate(ctx, inputFor(req))
}

func (s *generationService) Enqueue(ctx context.Context, req GenerateRequest) (*model.GenerationRun, error) {
	req, err := normalizeRequest(req)
	if err != nil {
		return nil, err
	}
	if s.producer == nil {
		return nil, &generation.Error{Kind: generation.KindUnavailable, Err: errors.New("generation queue is not configured")}
	}

	// Refuse early rather than queue a run that can only fail.
	profile, err := s.ledger.GetProfile(ctx, req.AccountID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("loading balance: %w", err)
	}
	if profile == nil || profile.TokenBalance < s.tokenCost {
		return nil, &generation.Error{Kind: generation.KindInsufficientTokens, Err: generation.ErrInsufficientTokens}
	}

	run := &model.GenerationRun{
		ID:              id.New(),
		ProfileID:       req.AccountID,
		RobotID:         req.RobotID,
		SourceVersionID: req.SourceVersionID,
		Operation:       req.Operation,
		UserText:        req.UserText,
		Guided:          req.Guided,
	}
	if req.ProblemDescription != "" {
		run.ProblemDescription = &req.ProblemDescription
	}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("creating generation run: %w", err)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{GenerationRunID: &run.ID})
	traceID := logger.TraceID(ctx)
	msg := queue.GenerationMessage{RunID: run.ID}
	if traceID != "" {
		msg.TraceID = &traceID
	}
	if err := s.producer.Enqueue(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "failed to enqueue generation run", "error", err)
		s.finish(ctx, run.ID, nil, &generation.Error{Kind: generation.KindUnavailable, Err: err})
		return nil, fmt.Errorf("enqueueing generation run: %w", err)
	}

	slog.InfoContext(ctx, "generation run queued", "operation", run.Operation)
	return run, nil
}

func (s *generationService) GetRun(ctx context.Context, accountID, runID int64) (*model.GenerationRun, error) {
	run, err := s.runs.GetByID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("loading generation run: %w", err)
	}
	if run.ProfileID != accountID {
		return nil, fmt.Errorf("generation run %d: %w", runID, store.ErrNotFound)
	}
	return run, nil
}

func (s *generationService) Process(ctx context.Context, runID int64, finalAttempt bool) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		GenerationRunID: &runID,
		Component:       "forge.service.generation",
	})

	run, err := s.runs.Start(ctx, runID)
	if errors.Is(err, store.ErrNotFound) {
		slog.InfoContext(ctx, "generation run missing or already finished, skipping")
		return nil
	}
	if err != nil {
		return &generation.Error{Kind: generation.KindUnavailable, Err: fmt.Errorf("starting run: %w", err)}
	}

	// A redelivered run whose previous attempt reached the assistant may
	// already have stored and charged a version.
	if run.Attempt > 1 && run.State.PastAssistant() {
		slog.WarnContext(ctx, "generation run interrupted after the assistant call, not repeating it",
			"state", run.State,
			"attempt", run.Attempt)
		s.finish(ctx, runID, nil, &generation.Error{
			Kind: generation.KindInterrupted,
			Err:  fmt.Errorf("%w (last state %s)", generation.ErrInterrupted, run.State),
		})
		return nil
	}

	in := inputFor(GenerateRequest{
		AccountID:       run.ProfileID,
		RobotID:         run.RobotID,
		SourceVersionID: run.SourceVersionID,
		Operation:       run.Operation,
		UserText:        run.UserText,
		Guided:          run.Guided,
	})
	if run.ProblemDescription != nil {
		in.ProblemDescription = *run.ProblemDescription
	}
	in.Observer = func(ctx context.Context, state model.GenerationState) {
		if state.Terminal() {
			return
		}
		if err := s.runs.UpdateState(ctx, runID, state); err != nil {
			slog.WarnContext(ctx, "failed to record generation state", "state", state, "error", err)
		}
	}

	outcome, err := s.orchestrator.Generate(ctx, in)
	var gerr *generation.Error
	if errors.As(err, &gerr) && gerr.Retryable() && !finalAttempt {
		slog.WarnContext(ctx, "generation run will be retried", "attempt", run.Attempt, "error", err)
		return err
	}

	s.finish(ctx, runID, outcome, err)
	return nil
}

// finish records the terminal result of a run. Failures to record are
// logged; the run keeps its last state.
func (s *generationService) finish(ctx context.Context, runID int64, outcome *generation.Outcome, runErr error) {
	result := model.GenerationResult{
		Status: model.GenerationStatusSucceeded,
		State:  model.GenerationStateCommitted,
	}
	if runErr != nil {
		kind := string(generation.KindOf(runErr))
		if kind == "" {
			kind = string(generation.KindUnavailable)
		}
		msg := runErr.Error()
		result.Status = model.GenerationStatusFailed
		result.State = model.GenerationStateFailed
		result.ErrorKind = &kind
		result.ErrorMessage = &msg
	}
	if outcome != nil {
		if outcome.Prose != "" {
			result.Prose = &outcome.Prose
		}
		result.Code = outcome.Code
		if outcome.Version != nil {
			result.VersionID = &outcome.Version.ID
			result.VersionName = &outcome.Version.VersionName
		}
	}

	if err := s.runs.Finish(ctx, runID, result); err != nil {
		slog.ErrorContext(ctx, "failed to record generation result", "error", err, "status", result.Status)
	}
}

// normalizeRequest fills in the operation and rejects requests that carry
// nothing worth sending.
func normalizeRequest(req GenerateRequest) (GenerateRequest, error) {
	req.UserText = strings.TrimSpace(req.UserText)
	req.ProblemDescription = strings.TrimSpace(req.ProblemDescription)
	if req.Guided.IsEmpty() {
		req.Guided = nil
	}
	if req.Operation == "" {
		req.Operation = compose.InferOperation(req.UserText)
	}
	if !req.Operation.Valid() {
		return req, &generation.Error{Kind: generation.KindInvalidRequest, Err: fmt.Errorf("%w: %q", generation.ErrUnknownOperation, req.Operation)}
	}
	if req.Guided == nil && req.ProblemDescription == "" && compose.NeedsGuidance(req.UserText) {
		return req, &generation.Error{Kind: generation.KindInvalidRequest, Err: ErrRequestTooShort}
	}
	return req, nil
}

func inputFor(req GenerateRequest) generation.Input {
	return generation.Input{
		AccountID:          req.AccountID,
		RobotID:            req.RobotID,
		SourceVersionID:    req.SourceVersionID,
		Operation:          req.Operation,
		UserText:           req.UserText,
		Guided:             req.Guided,
		ProblemDescription: req.ProblemDescription,
	}
}
