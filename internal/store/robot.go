package store

import (
	"context"

	"devhubtrader.app/forge/core/db/sqlc"
	"devhubtrader.app/forge/internal/model"
)

type robotStore struct {
	queries *sqlc.Queries
}

func newRobotStore(queries *sqlc.Queries) RobotStore {
	return &robotStore{queries: queries}
}

func (s *robotStore) GetByID(ctx context.Context, id int64) (*model.Robot, error) {
	row, err := s.queries.GetRobot(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return toRobotModel(row), nil
}

func (s *robotStore) Create(ctx context.Context, robot *model.Robot) error {
	row, err := s.queries.CreateRobot(ctx, sqlc.CreateRobotParams{
		ID:      robot.ID,
		OwnerID: robot.OwnerID,
		Name:    robot.Name,
	})
	if err != nil {
		return err
	}
	*robot = *toRobotModel(row)
	return nil
}

func (s *robotStore) ListByOwner(ctx context.Context, ownerID int64) ([]model.Robot, error) {
	rows, err := s.queries.ListRobotsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	robots := make([]model.Robot, len(rows))
	for i, row := range rows {
		robots[i] = *toRobotModel(row)
	}
	return robots, nil
}

func (s *robotStore) SetCurrentVersion(ctx context.Context, robotID int64, versionID *int64) (*model.Robot, error) {
	row, err := s.queries.SetRobotCurrentVersion(ctx, sqlc.SetRobotCurrentVersionParams{
		ID:               robotID,
		CurrentVersionID: versionID,
	})
	if err != nil {
		return nil, notFound(err)
	}
	return toRobotModel(row), nil
}

func (s *robotStore) Rename(ctx context.Context, id int64, name string) (*model.Robot, error) {
	row, err := s.queries.RenameRobot(ctx, sqlc.RenameRobotParams{ID: id, Name: name})
	if err != nil {
		return nil, notFound(err)
	}
	return toRobotModel(row), nil
}

func (s *robotStore) Delete(ctx context.Context, id int64) error {
	n, err := s.queries.SoftDeleteRobot(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func toRobotModel(row sqlc.Robot) *model.Robot {
	return &model.Robot{
		ID:               row.ID,
		OwnerID:          row.OwnerID,
		Name:             row.Name,
		CurrentVersionID: row.CurrentVersionID,
		CreatedAt:        row.CreatedAt.Time,
		UpdatedAt:        row.UpdatedAt.Time,
	}
}
