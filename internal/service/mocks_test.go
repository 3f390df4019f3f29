package service_test

import (
	"context"

	"devhubtrader.app/forge/internal/generation"
	"devhubtrader.app/forge/internal/model"
	"devhubtrader.app/forge/internal/queue"
	"devhubtrader.app/forge/internal/service"
	"devhubtrader.app/forge/internal/store"
)

func strPtr(s string) *string { return &s }

type mockRobotStore struct {
	getByIDFn           func(ctx context.Context, id int64) (*model.Robot, error)
	createFn            func(ctx context.Context, robot *model.Robot) error
	listByOwnerFn       func(ctx context.Context, ownerID int64) ([]model.Robot, error)
	setCurrentVersionFn func(ctx context.Context, robotID int64, versionID *int64) (*model.Robot, error)
	renameFn            func(ctx context.Context, id int64, name string) (*model.Robot, error)
	deleteFn            func(ctx context.Context, id int64) error
	currentSet          []*int64
}

func (m *mockRobotStore) GetByID(ctx context.Context, id int64) (*model.Robot, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockRobotStore) Create(ctx context.Context, robot *model.Robot) error {
	if m.createFn != nil {
		return m.createFn(ctx, robot)
	}
	return nil
}

func (m *mockRobotStore) ListByOwner(ctx context.Context, ownerID int64) ([]model.Robot, error) {
	if m.listByOwnerFn != nil {
		return m.listByOwnerFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockRobotStore) SetCurrentVersion(ctx context.Context, robotID int64, versionID *int64) (*model.Robot, error) {
	m.currentSet = append(m.currentSet, versionID)
	if m.setCurrentVersionFn != nil {
		return m.setCurrentVersionFn(ctx, robotID, versionID)
	}
	return &model.Robot{ID: robotID, CurrentVersionID: versionID}, nil
}

func (m *mockRobotStore) Rename(ctx context.Context, id int64, name string) (*model.Robot, error) {
	if m.renameFn != nil {
		return m.renameFn(ctx, id, name)
	}
	return &model.Robot{ID: id, Name: name}, nil
}

func (m *mockRobotStore) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockVersionStore struct {
	getByIDFn     func(ctx context.Context, id int64) (*model.Version, error)
	listByRobotFn func(ctx context.Context, robotID int64) ([]model.Version, error)
	createFn      func(ctx context.Context, v *model.Version) error
	updateFn      func(ctx context.Context, id int64, patch store.VersionPatch) (*model.Version, error)
	renameFn      func(ctx context.Context, id int64, name string) (*model.Version, error)
	deleteFn      func(ctx context.Context, id int64) error
	created       []model.Version
	deleted       []int64
}

func (m *mockVersionStore) GetByID(ctx context.Context, id int64) (*model.Version, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockVersionStore) ListByRobot(ctx context.Context, robotID int64) ([]model.Version, error) {
	if m.listByRobotFn != nil {
		return m.listByRobotFn(ctx, robotID)
	}
	return nil, nil
}

func (m *mockVersionStore) Create(ctx context.Context, v *model.Version) error {
	if m.createFn != nil {
		if err := m.createFn(ctx, v); err != nil {
			return err
		}
	}
	m.created = append(m.created, *v)
	return nil
}

func (m *mockVersionStore) Update(ctx context.Context, id int64, patch store.VersionPatch) (*model.Version, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, patch)
	}
	return &model.Version{ID: id}, nil
}

func (m *mockVersionStore) Rename(ctx context.Context, id int64, name string) (*model.Version, error) {
	if m.renameFn != nil {
		return m.renameFn(ctx, id, name)
	}
	return &model.Version{ID: id, VersionName: name}, nil
}

func (m *mockVersionStore) Delete(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockLedgerStore struct {
	getProfileFn    func(ctx context.Context, id int64) (*model.Profile, error)
	createProfileFn func(ctx context.Context, profile *model.Profile) error
	creditFn        func(ctx context.Context, params store.CreditParams) (*model.LedgerEntry, error)
	listEntriesFn   func(ctx context.Context, profileID int64, limit int32) ([]model.LedgerEntry, error)
	credits         []store.CreditParams
}

func (m *mockLedgerStore) GetProfile(ctx context.Context, id int64) (*model.Profile, error) {
	if m.getProfileFn != nil {
		return m.getProfileFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockLedgerStore) CreateProfile(ctx context.Context, profile *model.Profile) error {
	if m.createProfileFn != nil {
		return m.createProfileFn(ctx, profile)
	}
	return nil
}

func (m *mockLedgerStore) Debit(context.Context, store.DebitParams) (*model.LedgerEntry, error) {
	return nil, nil
}

func (m *mockLedgerStore) Credit(ctx context.Context, params store.CreditParams) (*model.LedgerEntry, error) {
	m.credits = append(m.credits, params)
	if m.creditFn != nil {
		return m.creditFn(ctx, params)
	}
	return &model.LedgerEntry{ID: params.EntryID, Delta: params.Amount, Reason: params.Reason}, nil
}

func (m *mockLedgerStore) ListEntries(ctx context.Context, profileID int64, limit int32) ([]model.LedgerEntry, error) {
	if m.listEntriesFn != nil {
		return m.listEntriesFn(ctx, profileID, limit)
	}
	return nil, nil
}

type mockGenerationRunStore struct {
	createFn      func(ctx context.Context, run *model.GenerationRun) error
	getByIDFn     func(ctx context.Context, id int64) (*model.GenerationRun, error)
	startFn       func(ctx context.Context, id int64) (*model.GenerationRun, error)
	states        []model.GenerationState
	finished      []model.GenerationResult
	createdRuns   []model.GenerationRun
	updateStateFn func(ctx context.Context, id int64, state model.GenerationState) error
}

func (m *mockGenerationRunStore) Create(ctx context.Context, run *model.GenerationRun) error {
	if m.createFn != nil {
		if err := m.createFn(ctx, run); err != nil {
			return err
		}
	}
	run.Status = model.GenerationStatusQueued
	run.State = model.GenerationStateIdle
	m.createdRuns = append(m.createdRuns, *run)
	return nil
}

func (m *mockGenerationRunStore) GetByID(ctx context.Context, id int64) (*model.GenerationRun, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockGenerationRunStore) Start(ctx context.Context, id int64) (*model.GenerationRun, error) {
	if m.startFn != nil {
		return m.startFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockGenerationRunStore) UpdateState(ctx context.Context, id int64, state model.GenerationState) error {
	m.states = append(m.states, state)
	if m.updateStateFn != nil {
		return m.updateStateFn(ctx, id, state)
	}
	return nil
}

func (m *mockGenerationRunStore) Finish(_ context.Context, _ int64, result model.GenerationResult) error {
	m.finished = append(m.finished, result)
	return nil
}

type mockProducer struct {
	enqueueFn func(ctx context.Context, msg queue.GenerationMessage) error
	enqueued  []queue.GenerationMessage
}

func (m *mockProducer) Enqueue(ctx context.Context, msg queue.GenerationMessage) error {
	if m.enqueueFn != nil {
		if err := m.enqueueFn(ctx, msg); err != nil {
			return err
		}
	}
	m.enqueued = append(m.enqueued, msg)
	return nil
}

func (m *mockProducer) Close() error { return nil }

type mockOrchestrator struct {
	generateFn func(ctx context.Context, in generation.Input) (*generation.Outcome, error)
	inputs     []generation.Input
}

func (m *mockOrchestrator) Generate(ctx context.Context, in generation.Input) (*generation.Outcome, error) {
	m.inputs = append(m.inputs, in)
	if m.generateFn != nil {
		return m.generateFn(ctx, in)
	}
	return &generation.Outcome{State: model.GenerationStateCommitted}, nil
}

type mockStoreProvider struct {
	robots   *mockRobotStore
	versions *mockVersionStore
}

func (p *mockStoreProvider) Robots() store.RobotStore     { return p.robots }
func (p *mockStoreProvider) Versions() store.VersionStore { return p.versions }

type mockTxRunner struct {
	withTxFn func(ctx context.Context, fn func(stores service.StoreProvider) error) error
}

func (m *mockTxRunner) WithTx(ctx context.Context, fn func(stores service.StoreProvider) error) error {
	if m.withTxFn != nil {
		return m.withTxFn(ctx, fn)
	}
	return nil
}
