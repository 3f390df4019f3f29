package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"devhubtrader.app/forge/core/db/sqlc"
	"devhubtrader.app/forge/internal/model"
)

type generationRunStore struct {
	queries *sqlc.Queries
}

func newGenerationRunStore(queries *sqlc.Queries) GenerationRunStore {
	return &generationRunStore{queries: queries}
}

func (s *generationRunStore) Create(ctx context.Context, run *model.GenerationRun) error {
	var guided []byte
	if !run.Guided.IsEmpty() {
		b, err := json.Marshal(run.Guided)
		if err != nil {
			return fmt.Errorf("marshaling guided fields: %w", err)
		}
		guided = b
	}

	row, err := s.queries.CreateGenerationRun(ctx, sqlc.CreateGenerationRunParams{
		ID:                 run.ID,
		ProfileID:          run.ProfileID,
		RobotID:            run.RobotID,
		SourceVersionID:    run.SourceVersionID,
		Operation:          string(run.Operation),
		UserText:           run.UserText,
		Guided:             guided,
		ProblemDescription: run.ProblemDescription,
	})
	if err != nil {
		return err
	}
	created, err := toGenerationRunModel(row)
	if err != nil {
		return err
	}
	*run = *created
	return nil
}

func (s *generationRunStore) GetByID(ctx context.Context, id int64) (*model.GenerationRun, error) {
	row, err := s.queries.GetGenerationRun(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return toGenerationRunModel(row)
}

func (s *generationRunStore) Start(ctx context.Context, id int64) (*model.GenerationRun, error) {
	row, err := s.queries.StartGenerationRun(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return toGenerationRunModel(row)
}

func (s *generationRunStore) UpdateState(ctx context.Context, id int64, state model.GenerationState) error {
	return s.queries.UpdateGenerationRunState(ctx, sqlc.UpdateGenerationRunStateParams{
		ID:    id,
		State: string(state),
	})
}

func (s *generationRunStore) Finish(ctx context.Context, id int64, result model.GenerationResult) error {
	return s.queries.FinishGenerationRun(ctx, sqlc.FinishGenerationRunParams{
		ID:           id,
		Status:       string(result.Status),
		State:        string(result.State),
		ErrorKind:    result.ErrorKind,
		ErrorMessage: result.ErrorMessage,
		VersionID:    result.VersionID,
		VersionName:  result.VersionName,
		Prose:        result.Prose,
		Code:         result.Code,
	})
}

func toGenerationRunModel(row sqlc.GenerationRun) (*model.GenerationRun, error) {
	var guided *model.GuidedFields
	if len(row.Guided) > 0 {
		guided = &model.GuidedFields{}
		if err := json.Unmarshal(row.Guided, guided); err != nil {
			return nil, fmt.Errorf("decoding guided fields of run %d: %w", row.ID, err)
		}
	}

	var finishedAt *time.Time
	if row.FinishedAt.Valid {
		t := row.FinishedAt.Time
		finishedAt = &t
	}

	return &model.GenerationRun{
		ID:                 row.ID,
		ProfileID:          row.ProfileID,
		RobotID:            row.RobotID,
		SourceVersionID:    row.SourceVersionID,
		Operation:          model.Operation(row.Operation),
		UserText:           row.UserText,
		Guided:             guided,
		ProblemDescription: row.ProblemDescription,
		Status:             model.GenerationStatus(row.Status),
		State:              model.GenerationState(row.State),
		Attempt:            row.Attempt,
		ErrorKind:          row.ErrorKind,
		ErrorMessage:       row.ErrorMessage,
		VersionID:          row.VersionID,
		VersionName:        row.VersionName,
		Prose:              row.Prose,
		Code:               row.Code,
		CreatedAt:          row.CreatedAt.Time,
		UpdatedAt:          row.UpdatedAt.Time,
		FinishedAt:         finishedAt,
	}, nil
}
