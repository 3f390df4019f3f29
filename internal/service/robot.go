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
)

var (
	ErrNameRequired  = errors.New("name is required")
	ErrVersionNoCode = errors.New("a version without code cannot be current")
)

const (
	initialDescription = "Versão inicial"
	initialTag         = "tendencia"
)

type RobotService interface {
	// Create stores a robot with a starter "Versão 1" set as current.
	Create(ctx context.Context, ownerID int64, name string) (*model.Robot, *model.Version, error)
	List(ctx context.Context, ownerID int64) ([]model.Robot, error)
	Get(ctx context.Context, ownerID, robotID int64) (*model.Robot, error)
	Rename(ctx context.Context, ownerID, robotID int64, name string) (*model.Robot, error)
	Delete(ctx context.Context, ownerID, robotID int64) error
	SetCurrentVersion(ctx context.Context, ownerID, robotID, versionID int64) (*model.Robot, error)
}

type robotService struct {
	robots   store.RobotStore
	versions store.VersionStore
	txRunner TxRunner
}

func NewRobotService(robots store.RobotStore, versions store.VersionStore, txRunner TxRunner) RobotService {
	return &robotService{
		robots:   robots,
		versions: versions,
		txRunner: txRunner,
	}
}

func (s *robotService) Create(ctx context.Context, ownerID int64, name string) (*model.Robot, *model.Version, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil, ErrNameRequired
	}

	robot := &model.Robot{ID: id.New(), OwnerID: ownerID, Name: name}
	description := initialDescription
	version := &model.Version{
		ID:          id.New(),
		RobotID:     robot.ID,
		VersionName: naming.FormatOrdinal(1),
		Code:        starterCode(name),
		Description: &description,
		Tags:        []string{initialTag},
		CreatedBy:   &ownerID,
	}

	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		if err := stores.Robots().Create(ctx, robot); err != nil {
			return fmt.Errorf("creating robot: %w", err)
		}
		if err := stores.Versions().Create(ctx, version); err != nil {
			return fmt.Errorf("creating initial version: %w", err)
		}
		updated, err := stores.Robots().SetCurrentVersion(ctx, robot.ID, &version.ID)
		if err != nil {
			return fmt.Errorf("setting current version: %w", err)
		}
		robot = updated
		return nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create robot", "error", err, "owner_id", ownerID)
		return nil, nil, err
	}

	slog.InfoContext(ctx, "robot created", "robot_id", robot.ID, "version_id", version.ID)
	return robot, version, nil
}

func (s *robotService) List(ctx context.Context, ownerID int64) ([]model.Robot, error) {
	robots, err := s.robots.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing robots: %w", err)
	}
	return robots, nil
}

func (s *robotService) Get(ctx context.Context, ownerID, robotID int64) (*model.Robot, error) {
	return ownedRobot(ctx, s.robots, ownerID, robotID)
}

func (s *robotService) Rename(ctx context.Context, ownerID, robotID int64, name string) (*model.Robot, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if _, err := ownedRobot(ctx, s.robots, ownerID, robotID); err != nil {
		return nil, err
	}
	robot, err := s.robots.Rename(ctx, robotID, name)
	if err != nil {
		return nil, fmt.Errorf("renaming robot: %w", err)
	}
	return robot, nil
}

func (s *robotService) Delete(ctx context.Context, ownerID, robotID int64) error {
	if _, err := ownedRobot(ctx, s.robots, ownerID, robotID); err != nil {
		return err
	}
	if err := s.robots.Delete(ctx, robotID); err != nil {
		return fmt.Errorf("deleting robot: %w", err)
	}
	slog.InfoContext(ctx, "robot deleted", "robot_id", robotID)
	return nil
}

func (s *robotService) SetCurrentVersion(ctx context.Context, ownerID, robotID, versionID int64) (*model.Robot, error) {
	if _, err := ownedRobot(ctx, s.robots, ownerID, robotID); err != nil {
		return nil, err
	}
	version, err := s.versions.GetByID(ctx, versionID)
	if err != nil {
		return nil, fmt.Errorf("loading version: %w", err)
	}
	if version.RobotID != robotID {
		return nil, fmt.Errorf("version %d: %w", versionID, store.ErrNotFound)
	}
	if strings.TrimSpace(version.Code) == "" {
		return nil, ErrVersionNoCode
	}

	robot, err := s.robots.SetCurrentVersion(ctx, robotID, &versionID)
	if err != nil {
		return nil, fmt.Errorf("setting current version: %w", err)
	}
	return robot, nil
}

// ownedRobot loads a robot and hides it from anyone but its owner.
func ownedRobot(ctx context.Context, robots store.RobotStore, ownerID, robotID int64) (*model.Robot, error) {
	robot, err := robots.GetByID(ctx, robotID)
	if err != nil {
		return nil, fmt.Errorf("loading robot: %w", err)
	}
	if robot.OwnerID != ownerID {
		return nil, fmt.Errorf("robot %d: %w", robotID, store.ErrNotFound)
	}
	return robot, nil
}

func starterCode(robotName string) string {
	return fmt.Sprintf(`// %s
// Versão 1

var
  precoEntrada, precoSaida: float;
begin
  // Lógica principal do robô
end;`, robotName)
}
