package store

import (
	"context"
	"errors"

	"devhubtrader.app/forge/internal/model"
)

var (
	// ErrNotFound is returned when a requested entity does not exist or is
	// soft-deleted.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateName is returned when a live version of the same robot
	// already uses the requested name.
	ErrDuplicateName = errors.New("version name already in use")

	// ErrInsufficientBalance is returned by a debit the balance cannot cover.
	ErrInsufficientBalance = errors.New("insufficient token balance")
)

type RobotStore interface {
	GetByID(ctx context.Context, id int64) (*model.Robot, error)
	Create(ctx context.Context, robot *model.Robot) error
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Robot, error)
	SetCurrentVersion(ctx context.Context, robotID int64, versionID *int64) (*model.Robot, error)
	Rename(ctx context.Context, id int64, name string) (*model.Robot, error)
	Delete(ctx context.Context, id int64) error // soft delete
}

// VersionStore persists robot versions. Create and Rename report
// ErrDuplicateName when the name collides with a live version.
type VersionStore interface {
	GetByID(ctx context.Context, id int64) (*model.Version, error)
	ListByRobot(ctx context.Context, robotID int64) ([]model.Version, error)
	Create(ctx context.Context, version *model.Version) error
	Update(ctx context.Context, id int64, patch VersionPatch) (*model.Version, error)
	Rename(ctx context.Context, id int64, name string) (*model.Version, error)
	Delete(ctx context.Context, id int64) error // soft delete
}

// VersionPatch carries the editable fields of a version. Nil fields are left
// untouched.
type VersionPatch struct {
	Description *string
	Tags        []string
	Code        *string
}

// LedgerStore owns token balances. Every balance change writes an audit
// entry in the same statement.
type LedgerStore interface {
	GetProfile(ctx context.Context, id int64) (*model.Profile, error)
	CreateProfile(ctx context.Context, profile *model.Profile) error
	Debit(ctx context.Context, params DebitParams) (*model.LedgerEntry, error)
	Credit(ctx context.Context, params CreditParams) (*model.LedgerEntry, error)
	ListEntries(ctx context.Context, profileID int64, limit int32) ([]model.LedgerEntry, error)
}

type DebitParams struct {
	EntryID   int64
	ProfileID int64
	Amount    int64
	Reason    model.LedgerReason
	RobotID   *int64
	VersionID *int64
}

type CreditParams struct {
	EntryID   int64
	ProfileID int64
	Amount    int64
	Reason    model.LedgerReason
}

type GenerationRunStore interface {
	Create(ctx context.Context, run *model.GenerationRun) error
	GetByID(ctx context.Context, id int64) (*model.GenerationRun, error)
	// Start marks the run as running and bumps its attempt counter. It
	// returns ErrNotFound when the run is missing or already finished.
	Start(ctx context.Context, id int64) (*model.GenerationRun, error)
	UpdateState(ctx context.Context, id int64, state model.GenerationState) error
	Finish(ctx context.Context, id int64, result model.GenerationResult) error
}
