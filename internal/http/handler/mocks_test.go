package handler_test

import (
	"context"

	"devhubtrader.app/forge/internal/generation"
	"devhubtrader.app/forge/internal/model"
	"devhubtrader.app/forge/internal/service"
	"devhubtrader.app/forge/internal/store"
)

type mockRobotService struct {
	createFn     func(ctx context.Context, ownerID int64, name string) (*model.Robot, *model.Version, error)
	listFn       func(ctx context.Context, ownerID int64) ([]model.Robot, error)
	getFn        func(ctx context.Context, ownerID, robotID int64) (*model.Robot, error)
	renameFn     func(ctx context.Context, ownerID, robotID int64, name string) (*model.Robot, error)
	deleteFn     func(ctx context.Context, ownerID, robotID int64) error
	setCurrentFn func(ctx context.Context, ownerID, robotID, versionID int64) (*model.Robot, error)
}

func (m *mockRobotService) Create(ctx context.Context, ownerID int64, name string) (*model.Robot, *model.Version, error) {
	if m.createFn != nil {
		return m.createFn(ctx, ownerID, name)
	}
	return nil, nil, nil
}

func (m *mockRobotService) List(ctx context.Context, ownerID int64) ([]model.Robot, error) {
	if m.listFn != nil {
		return m.listFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockRobotService) Get(ctx context.Context, ownerID, robotID int64) (*model.Robot, error) {
	if m.getFn != nil {
		return m.getFn(ctx, ownerID, robotID)
	}
	return nil, store.ErrNotFound
}

func (m *mockRobotService) Rename(ctx context.Context, ownerID, robotID int64, name string) (*model.Robot, error) {
	if m.renameFn != nil {
		return m.renameFn(ctx, ownerID, robotID, name)
	}
	return nil, nil
}

func (m *mockRobotService) Delete(ctx context.Context, ownerID, robotID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, ownerID, robotID)
	}
	return nil
}

func (m *mockRobotService) SetCurrentVersion(ctx context.Context, ownerID, robotID, versionID int64) (*model.Robot, error) {
	if m.setCurrentFn != nil {
		return m.setCurrentFn(ctx, ownerID, robotID, versionID)
	}
	return nil, nil
}

type mockVersionService struct {
	listFn        func(ctx context.Context, ownerID, robotID int64) ([]model.Version, error)
	getFn         func(ctx context.Context, ownerID, versionID int64) (*model.Version, error)
	createFn      func(ctx context.Context, ownerID, robotID int64, in service.NewVersion) (*model.Version, error)
	updateFn      func(ctx context.Context, ownerID, versionID int64, patch store.VersionPatch) (*model.Version, error)
	renameFn      func(ctx context.Context, ownerID, versionID int64, name string) (*model.Version, error)
	deleteFn      func(ctx context.Context, ownerID, versionID int64) error
	suggestNameFn func(ctx context.Context, ownerID, robotID int64) (string, error)
}

func (m *mockVersionService) List(ctx context.Context, ownerID, robotID int64) ([]model.Version, error) {
	if m.listFn != nil {
		return m.listFn(ctx, ownerID, robotID)
	}
	return nil, nil
}

func (m *mockVersionService) Get(ctx context.Context, ownerID, versionID int64) (*model.Version, error) {
	if m.getFn != nil {
		return m.getFn(ctx, ownerID, versionID)
	}
	return nil, store.ErrNotFound
}

func (m *mockVersionService) Create(ctx context.Context, ownerID, robotID int64, in service.NewVersion) (*model.Version, error) {
	if m.createFn != nil {
		return m.createFn(ctx, ownerID, robotID, in)
	}
	return nil, nil
}

func (m *mockVersionService) Update(ctx context.Context, ownerID, versionID int64, patch store.VersionPatch) (*model.Version, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, ownerID, versionID, patch)
	}
	return nil, nil
}

func (m *mockVersionService) Rename(ctx context.Context, ownerID, versionID int64, name string) (*model.Version, error) {
	if m.renameFn != nil {
		return m.renameFn(ctx, ownerID, versionID, name)
	}
	return nil, nil
}

func (m *mockVersionService) Delete(ctx context.Context, ownerID, versionID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, ownerID, versionID)
	}
	return nil
}

func (m *mockVersionService) SuggestName(ctx context.Context, ownerID, robotID int64) (string, error) {
	if m.suggestNameFn != nil {
		return m.suggestNameFn(ctx, ownerID, robotID)
	}
	return "", nil
}

type mockGenerationService struct {
	generateFn func(ctx context.Context, req service.GenerateRequest) (*generation.Outcome, error)
	enqueueFn  func(ctx context.Context, req service.GenerateRequest) (*model.GenerationRun, error)
	getRunFn   func(ctx context.Context, accountID, runID int64) (*model.GenerationRun, error)
	processFn  func(ctx context.Context, runID int64, finalAttempt bool) error

	lastRequest service.GenerateRequest
}

func (m *mockGenerationService) Generate(ctx context.Context, req service.GenerateRequest) (*generation.Outcome, error) {
	m.lastRequest = req
	if m.generateFn != nil {
		return m.generateFn(ctx, req)
	}
	return nil, nil
}

func (m *mockGenerationService) Enqueue(ctx context.Context, req service.GenerateRequest) (*model.GenerationRun, error) {
	m.lastRequest = req
	if m.enqueueFn != nil {
		return m.enqueueFn(ctx, req)
	}
	return nil, nil
}

func (m *mockGenerationService) GetRun(ctx context.Context, accountID, runID int64) (*model.GenerationRun, error) {
	if m.getRunFn != nil {
		return m.getRunFn(ctx, accountID, runID)
	}
	return nil, store.ErrNotFound
}

func (m *mockGenerationService) Process(ctx context.Context, runID int64, finalAttempt bool) error {
	if m.processFn != nil {
		return m.processFn(ctx, runID, finalAttempt)
	}
	return nil
}

type mockLedgerService struct {
	balanceFn func(ctx context.Context, accountID int64) (*service.Balance, error)
}

func (m *mockLedgerService) Balance(ctx context.Context, accountID int64) (*service.Balance, error) {
	if m.balanceFn != nil {
		return m.balanceFn(ctx, accountID)
	}
	return &service.Balance{AccountID: accountID}, nil
}

func (m *mockLedgerService) Credit(context.Context, int64, int64, model.LedgerReason) (*model.LedgerEntry, error) {
	return nil, nil
}

func (m *mockLedgerService) EnsureProfile(context.Context, int64, string) (*model.Profile, error) {
	return nil, nil
}

func strPtr(s string) *string { return &s }
