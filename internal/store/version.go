package store

import (
	"context"

	"devhubtrader.app/forge/core/db/sqlc"
	"devhubtrader.app/forge/internal/model"
)

type versionStore struct {
	queries *sqlc.Queries
}

func newVersionStore(queries *sqlc.Queries) VersionStore {
	return &versionStore{queries: queries}
}

func (s *versionStore) GetByID(ctx context.Context, id int64) (*model.Version, error) {
	row, err := s.queries.GetRobotVersion(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return toVersionModel(row), nil
}

// ListByRobot returns live versions, newest first.
func (s *versionStore) ListByRobot(ctx context.Context, robotID int64) ([]model.Version, error) {
	rows, err := s.queries.ListRobotVersions(ctx, robotID)
	if err != nil {
		return nil, err
	}
	versions := make([]model.Version, len(rows))
	for i, row := range rows {
		versions[i] = *toVersionModel(row)
	}
	return versions, nil
}

func (s *versionStore) Create(ctx context.Context, version *model.Version) error {
	tags := version.Tags
	if tags == nil {
		tags = []string{}
	}
	row, err := s.queries.CreateRobotVersion(ctx, sqlc.CreateRobotVersionParams{
		ID:          version.ID,
		RobotID:     version.RobotID,
		VersionName: version.VersionName,
		Code:        version.Code,
		Description: version.Description,
		Tags:        tags,
		CreatedBy:   version.CreatedBy,
	})
	if err != nil {
		if isVersionNameConflict(err) {
			return ErrDuplicateName
		}
		return err
	}
	*version = *toVersionModel(row)
	return nil
}

func (s *versionStore) Update(ctx context.Context, id int64, patch VersionPatch) (*model.Version, error) {
	row, err := s.queries.UpdateRobotVersion(ctx, sqlc.UpdateRobotVersionParams{
		ID:          id,
		Description: patch.Description,
		Tags:        patch.Tags,
		Code:        patch.Code,
	})
	if err != nil {
		return nil, notFound(err)
	}
	return toVersionModel(row), nil
}

func (s *versionStore) Rename(ctx context.Context, id int64, name string) (*model.Version, error) {
	row, err := s.queries.RenameRobotVersion(ctx, sqlc.RenameRobotVersionParams{
		ID:          id,
		VersionName: name,
	})
	if err != nil {
		if isVersionNameConflict(err) {
			return nil, ErrDuplicateName
		}
		return nil, notFound(err)
	}
	return toVersionModel(row), nil
}

func (s *versionStore) Delete(ctx context.Context, id int64) error {
	n, err := s.queries.SoftDeleteRobotVersion(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func toVersionModel(row sqlc.RobotVersion) *model.Version {
	tags := row.Tags
	if tags == nil {
		tags = []string{}
	}
	return &model.Version{
		ID:          row.ID,
		RobotID:     row.RobotID,
		VersionName: row.VersionName,
		Code:        row.Code,
		Description: row.Description,
		Tags:        tags,
		CreatedBy:   row.CreatedBy,
		CreatedAt:   row.CreatedAt.Time,
		UpdatedAt:   row.UpdatedAt.Time,
	}
}
