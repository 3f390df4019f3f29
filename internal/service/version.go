package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"devhubtrader.app/forge/common/id"
	"devhubtrader.app/forge/internal/model"
	"devhubtrader.app/forge/internal/naming"
	"devhubtrader.app/forge/internal/store"
	"devhubtrader.app/forge/internal/tags"
)

var (
	ErrInvalidVersionName  = errors.New("version names starting with v must look like vX.Y.Z")
	ErrDescriptionRequired = errors.New("description is required")
	ErrCodeRequired        = errors.New("code is required")
)

// NewVersion is a version typed in by the user rather than generated.
type NewVersion struct {
	Name        string
	Code        string
	Description string
	Tags        []string
}

type VersionService interface {
	List(ctx context.Context, ownerID, robotID int64) ([]model.Version, error)
	Get(ctx context.Context, ownerID, versionID int64) (*model.Version, error)
	// Create stores a manual version and makes it the robot's current one.
	Create(ctx context.Context, ownerID, robotID int64, in NewVersion) (*model.Version, error)
	Update(ctx context.Context, ownerID, versionID int64, patch store.VersionPatch) (*model.Version, error)
	Rename(ctx context.Context, ownerID, versionID int64, name string) (*model.Version, error)
	Delete(ctx context.Context, ownerID, versionID int64) error
	// SuggestName proposes a default name for the next manual version.
	SuggestName(ctx context.Context, ownerID, robotID int64) (string, error)
}

type versionService struct {
	robots    store.RobotStore
	versions  store.VersionStore
	txRunner  TxRunner
	allocator *naming.Allocator
}

func NewVersionService(robots store.RobotStore, versions store.VersionStore, txRunner TxRunner) VersionService {
	return &versionService{
		robots:    robots,
		versions:  versions,
		txRunner:  txRunner,
		allocator: naming.NewAllocator(),
	}
}

func (s *versionService) List(ctx context.Context, ownerID, robotID int64) ([]model.Version, error) {
	if _, err := ownedRobot(ctx, s.robots, ownerID, robotID); err != nil {
		return nil, err
	}
	versions, err := s.versions.ListByRobot(ctx, robotID)
	if err != nil {
		return nil, fmt.Errorf("listing versions: %w", err)
	}
	return versions, nil
}

func (s *versionService) Get(ctx context.Context, ownerID, versionID int64) (*model.Version, error) {
	version, _, err := s.ownedVersion(ctx, ownerID, versionID)
	return version, err
}

func (s *versionService) Create(ctx context.Context, ownerID, robotID int64, in NewVersion) (*model.Version, error) {
	name, err := validateVersionName(in.Name)
	if err != nil {
		return nil, err
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}
	if strings.TrimSpace(in.Code) == "" {
		return nil, ErrCodeRequired
	}

	existing, err := s.List(ctx, ownerID, robotID)
	if err != nil {
		return nil, err
	}

	alloc := s.allocator.Allocate(name, model.VersionNames(existing), naming.DefaultMaxAttempts)
	if alloc.Name != name {
		return nil, fmt.Errorf("version %q (next free: %q): %w", name, alloc.Name, store.ErrDuplicateName)
	}

	version := &model.Version{
		ID:          id.New(),
		RobotID:     robotID,
		VersionName: alloc.Name,
		Code:        in.Code,
		Description: &description,
		Tags:        tags.Clean(in.Tags),
		CreatedBy:   &ownerID,
	}

	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		if err := stores.Versions().Create(ctx, version); err != nil {
			return err
		}
		_, err := stores.Robots().SetCurrentVersion(ctx, robotID, &version.ID)
		return err
	})
	if err != nil {
		if !errors.Is(err, store.ErrDuplicateName) {
			slog.ErrorContext(ctx, "failed to create version", "error", err, "robot_id", robotID)
		}
		return nil, fmt.Errorf("creating version: %w", err)
	}

	slog.InfoContext(ctx, "version created",
		"robot_id", robotID,
		"version_id", version.ID,
		"version_name", version.VersionName)
	return version, nil
}

func (s *versionService) Update(ctx context.Context, ownerID, versionID int64, patch store.VersionPatch) (*model.Version, error) {
	if _, _, err := s.ownedVersion(ctx, ownerID, versionID); err != nil {
		return nil, err
	}
	if patch.Description != nil {
		d := strings.TrimSpace(*patch.Description)
		if d == "" {
			return nil, ErrDescriptionRequired
		}
		patch.Description = &d
	}
	if patch.Code != nil && strings.TrimSpace(*patch.Code) == "" {
		return nil, ErrCodeRequired
	}
	if patch.Tags != nil {
		patch.Tags = tags.Clean(patch.Tags)
	}

	version, err := s.versions.Update(ctx, versionID, patch)
	if err != nil {
		return nil, fmt.Errorf("updating version: %w", err)
	}
	return version, nil
}

func (s *versionService) Rename(ctx context.Context, ownerID, versionID int64, name string) (*model.Version, error) {
	name, err := validateVersionName(name)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.ownedVersion(ctx, ownerID, versionID); err != nil {
		return nil, err
	}

	version, err := s.versions.Rename(ctx, versionID, name)
	if err != nil {
		return nil, fmt.Errorf("renaming version: %w", err)
	}
	return version, nil
}

// Delete soft-deletes a version. When it was the robot's current version
// the newest remaining version takes its place.
func (s *versionService) Delete(ctx context.Context, ownerID, versionID int64) error {
	_, robot, err := s.ownedVersion(ctx, ownerID, versionID)
	if err != nil {
		return err
	}

	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		if err := stores.Versions().Delete(ctx, versionID); err != nil {
			return err
		}
		if robot.CurrentVersionID == nil || *robot.CurrentVersionID != versionID {
			return nil
		}

		remaining, err := stores.Versions().ListByRobot(ctx, robot.ID)
		if err != nil {
			return err
		}
		var next *int64
		if len(remaining) > 0 {
			next = &remaining[0].ID
		}
		_, err = stores.Robots().SetCurrentVersion(ctx, robot.ID, next)
		return err
	})
	if err != nil {
		return fmt.Errorf("deleting version: %w", err)
	}

	slog.InfoContext(ctx, "version deleted", "version_id", versionID, "robot_id", robot.ID)
	return nil
}

func (s *versionService) SuggestName(ctx context.Context, ownerID, robotID int64) (string, error) {
	existing, err := s.List(ctx, ownerID, robotID)
	if err != nil {
		return "", err
	}
	return naming.SuggestNext(model.VersionNames(existing)), nil
}

func (s *versionService) ownedVersion(ctx context.Context, ownerID, versionID int64) (*model.Version, *model.Robot, error) {
	version, err := s.versions.GetByID(ctx, versionID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading version: %w", err)
	}
	robot, err := ownedRobot(ctx, s.robots, ownerID, version.RobotID)
	if err != nil {
		return nil, nil, err
	}
	return version, robot, nil
}

func validateVersionName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	if strings.HasPrefix(name, "v") && !naming.IsSemantic(name) {
		return "", ErrInvalidVersionName
	}
	return name, nil
}
