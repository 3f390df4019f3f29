// Package generation turns a user request into a committed robot version:
// it asks the assistant, parses the reply, picks a free name, stores the
// version and charges the account.
package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"devhubtrader.app/forge/common/id"
	"devhubtrader.app/forge/common/llm"
	"devhubtrader.app/forge/common/logger"
	"devhubtrader.app/forge/internal/compose"
	"devhubtrader.app/forge/internal/extract"
	"devhubtrader.app/forge/internal/model"
	"devhubtrader.app/forge/internal/naming"
	"devhubtrader.app/forge/internal/store"
)

const (
	DefaultTokenCost          = 500
	DefaultMaxPersistAttempts = 5
)

// Runner sends one message to the assistant and waits for its answer.
type Runner interface {
	Run(ctx context.Context, message string) (*llm.Reply, error)
	Configured() bool
}

// NameAllocator picks the name a new version is stored under.
type NameAllocator interface {
	Allocate(base string, existing []string, maxAttempts int) naming.Allocation
}

// Observer is told about every state the generation enters, in order.
type Observer func(ctx context.Context, state model.GenerationState)

type Config struct {
	TokenCost          int64
	NameMaxAttempts    int
	MaxPersistAttempts int
}

func (c Config) withDefaults() Config {
	if c.TokenCost <= 0 {
		c.TokenCost = DefaultTokenCost
	}
	if c.NameMaxAttempts <= 0 {
		c.NameMaxAttempts = naming.DefaultMaxAttempts
	}
	if c.MaxPersistAttempts <= 0 {
		c.MaxPersistAttempts = DefaultMaxPersistAttempts
	}
	return c
}

type Input struct {
	AccountID int64
	RobotID   int64
	// SourceVersionID picks the version to optimize or fix. Nil means the
	// robot's current version, or its newest one.
	SourceVersionID    *int64
	Operation          model.Operation
	UserText           string
	Guided             *model.GuidedFields
	ProblemDescription string
	Observer           Observer
}

// Outcome describes a generation that reached the assistant. On a
// persistence or ledger failure it is returned together with the error so
// the caller can still show the generated code.
type Outcome struct {
	State model.GenerationState
	// ProseOnly is set when the reply had no code; nothing was stored or
	// charged.
	ProseOnly bool
	// Saved is true once the version row exists, even if the debit failed.
	Saved       bool
	Version     *model.Version
	Degraded    bool
	Prose       string
	Code        *string
	Description *string
	Tags        []string
	Charged     int64
	Balance     *int64
	Duration    time.Duration
}

type Orchestrator struct {
	cfg       Config
	runner    Runner
	robots    store.RobotStore
	versions  store.VersionStore
	ledger    store.LedgerStore
	tx        TxRunner
	allocator NameAllocator
	newID     func() int64
}

func NewOrchestrator(
	cfg Config,
	runner Runner,
	robots store.RobotStore,
	versions store.VersionStore,
	ledger store.LedgerStore,
	tx TxRunner,
) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg.withDefaults(),
		runner:    runner,
		robots:    robots,
		versions:  versions,
		ledger:    ledger,
		tx:        tx,
		allocator: naming.NewAllocator(),
		newID:     id.New,
	}
}

// WithAllocator replaces the default naming.Allocator.
func (o *Orchestrator) WithAllocator(a NameAllocator) *Orchestrator {
	o.allocator = a
	return o
}

// run carries the per-call state through the steps of Generate.
type run struct {
	in       Input
	robot    *model.Robot
	existing []model.Version
	source   *model.Version
	state    model.GenerationState
}

func (r *run) enter(ctx context.Context, state model.GenerationState) {
	r.state = state
	if r.in.Observer != nil {
		r.in.Observer(ctx, state)
	}
}

func (r *run) fail(ctx context.Context, kind Kind, err error) *Error {
	r.enter(ctx, model.GenerationStateFailed)
	return newError(kind, err)
}

// Generate runs one generation to a terminal state. A prose-only reply is
// a success with Outcome.ProseOnly set.
func (o *Orchestrator) Generate(ctx context.Context, in Input) (*Outcome, error) {
	start := time.Now()
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		AccountID: &in.AccountID,
		RobotID:   &in.RobotID,
		Operation: logger.Ptr(string(in.Operation)),
		Component: "forge.generation.orchestrator",
	})

	sc := logger.StartSpan(ctx, "generation.generate")
	defer sc.End()
	ctx = sc.Context()

	r := &run{in: in}
	r.enter(ctx, model.GenerationStateIdle)

	outcome, err := o.generate(ctx, r)
	if err != nil {
		sc.RecordError(err)
		slog.WarnContext(ctx, "generation failed",
			"kind", KindOf(err),
			"error", err,
			"duration_ms", time.Since(start).Milliseconds())
		return outcome, err
	}

	outcome.Duration = time.Since(start)
	slog.InfoContext(ctx, "generation finished",
		"prose_only", outcome.ProseOnly,
		"version_name", versionName(outcome.Version),
		"duration_ms", outcome.Duration.Milliseconds())
	return outcome, nil
}

func (o *Orchestrator) generate(ctx context.Context, r *run) (*Outcome, error) {
	if err := o.load(ctx, r); err != nil {
		return nil, err
	}
	if err := o.precheck(ctx, r); err != nil {
		return nil, err
	}

	r.enter(ctx, model.GenerationStateComposing)
	message := compose.Compose(o.composeRequest(r))

	r.enter(ctx, model.GenerationStateRunning)
	reply, err := o.runner.Run(ctx, message)
	if err != nil {
		return nil, r.fail(ctx, runErrorKind(ctx, err), err)
	}
	slog.InfoContext(ctx, "assistant replied",
		"run_id", reply.RunID,
		"polls", reply.Polls,
		"reply_chars", len(reply.Text))

	r.enter(ctx, model.GenerationStateExtracting)
	var hints extract.Hints
	if r.in.Guided != nil {
		hints = extract.Hints{Timeframes: r.in.Guided.Timeframes, Assets: r.in.Guided.Assets}
	}
	res := extract.Extract(reply.Text, hints)

	outcome := &Outcome{
		Prose:       res.Prose,
		Code:        res.Code,
		Description: res.Description,
		Tags:        res.Tags,
	}
	if res.Code == nil {
		slog.InfoContext(ctx, "assistant reply carried no code, nothing persisted")
		outcome.ProseOnly = true
		r.enter(ctx, model.GenerationStateCommitted)
		outcome.State = r.state
		return outcome, nil
	}
	if outcome.Description == nil {
		outcome.Description = fallbackDescription(r.in)
	}

	version, degraded, err := o.persist(ctx, r, outcome)
	if err != nil {
		outcome.State = r.state
		return outcome, err
	}
	outcome.Saved = true
	outcome.Version = version
	outcome.Degraded = degraded

	ctx = logger.WithLogFields(ctx, logger.LogFields{VersionID: &version.ID})
	entry, err := o.ledger.Debit(ctx, store.DebitParams{
		EntryID:   o.newID(),
		ProfileID: r.in.AccountID,
		Amount:    o.cfg.TokenCost,
		Reason:    model.LedgerReasonGeneration,
		RobotID:   &r.in.RobotID,
		VersionID: &version.ID,
	})
	if err != nil {
		slog.ErrorContext(ctx, "version committed but token debit failed",
			"version_name", version.VersionName,
			"error", err)
		ferr := r.fail(ctx, KindLedgerDebitFailure, fmt.Errorf("debiting %d tokens: %w", o.cfg.TokenCost, err))
		outcome.State = r.state
		return outcome, ferr
	}
	outcome.Charged = o.cfg.TokenCost
	outcome.Balance = &entry.BalanceAfter

	r.enter(ctx, model.GenerationStateCommitted)
	outcome.State = r.state
	return outcome, nil
}

// load fetches the robot, its live versions and the source version.
func (o *Orchestrator) load(ctx context.Context, r *run) error {
	if !r.in.Operation.Valid() {
		return r.fail(ctx, KindInvalidRequest, fmt.Errorf("%w: %q", ErrUnknownOperation, r.in.Operation))
	}
	if strings.TrimSpace(r.in.UserText) == "" && r.in.Guided.IsEmpty() &&
		!(r.in.Operation == model.OperationFix && strings.TrimSpace(r.in.ProblemDescription) != "") {
		return r.fail(ctx, KindInvalidRequest, ErrEmptyRequest)
	}

	robot, err := o.robots.GetByID(ctx, r.in.RobotID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return r.fail(ctx, KindRobotNotFound, ErrRobotNotFound)
		}
		return r.fail(ctx, KindUnavailable, fmt.Errorf("loading robot: %w", err))
	}
	if robot.OwnerID != r.in.AccountID {
		slog.WarnContext(ctx, "robot belongs to another account", "owner_id", robot.OwnerID)
		return r.fail(ctx, KindRobotNotFound, ErrRobotNotFound)
	}
	r.robot = robot

	existing, err := o.versions.ListByRobot(ctx, robot.ID)
	if err != nil {
		return r.fail(ctx, KindUnavailable, fmt.Errorf("listing versions: %w", err))
	}
	r.existing = existing

	source, err := o.pickSource(ctx, r)
	if err != nil {
		return err
	}
	r.source = source

	if r.in.Operation == model.OperationFix && (source == nil || strings.TrimSpace(source.Code) == "") {
		return r.fail(ctx, KindInvalidRequest, ErrNoSourceCode)
	}
	return nil
}

func (o *Orchestrator) pickSource(ctx context.Context, r *run) (*model.Version, error) {
	wanted := r.in.SourceVersionID
	if wanted == nil {
		wanted = r.robot.CurrentVersionID
	}
	if wanted != nil {
		for i := range r.existing {
			if r.existing[i].ID == *wanted {
				return &r.existing[i], nil
			}
		}
		if r.in.SourceVersionID != nil {
			return nil, r.fail(ctx, KindInvalidRequest, fmt.Errorf("source version %d: %w", *wanted, store.ErrNotFound))
		}
	}
	if len(r.existing) > 0 {
		return &r.existing[0], nil
	}
	return nil, nil
}

// precheck refuses work that would be thrown away: an account that cannot
// pay or an assistant that cannot be reached.
func (o *Orchestrator) precheck(ctx context.Context, r *run) error {
	var balance int64
	profile, err := o.ledger.GetProfile(ctx, r.in.AccountID)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return r.fail(ctx, KindUnavailable, fmt.Errorf("loading balance: %w", err))
	default:
		balance = profile.TokenBalance
	}
	if balance < o.cfg.TokenCost {
		slog.InfoContext(ctx, "insufficient tokens for generation",
			"balance", balance,
			"cost", o.cfg.TokenCost)
		return r.fail(ctx, KindInsufficientTokens,
			fmt.Errorf("%w: balance %d, cost %d", ErrInsufficientTokens, balance, o.cfg.TokenCost))
	}

	if o.runner == nil || !o.runner.Configured() {
		return r.fail(ctx, KindMissingCredentials, llm.ErrMissingCredentials)
	}
	return nil
}

func (o *Orchestrator) composeRequest(r *run) compose.Request {
	req := compose.Request{
		Operation:          r.in.Operation,
		UserText:           r.in.UserText,
		Guided:             r.in.Guided,
		ProblemDescription: r.in.ProblemDescription,
	}
	if r.source != nil && r.in.Operation != model.OperationCreate {
		req.Current = &compose.SourceVersion{
			Code:        r.source.Code,
			Description: r.source.Description,
			Tags:        r.source.Tags,
		}
	}
	return req
}

// persist stores the new version and points the robot at it. A name taken
// concurrently is re-allocated against a fresh listing.
func (o *Orchestrator) persist(ctx context.Context, r *run, out *Outcome) (*model.Version, bool, error) {
	r.enter(ctx, model.GenerationStateAllocating)
	names := model.VersionNames(r.existing)
	alloc := o.allocate(ctx, names)

	for attempt := 1; attempt <= o.cfg.MaxPersistAttempts; attempt++ {
		r.enter(ctx, model.GenerationStatePersisting)
		version := &model.Version{
			ID:          o.newID(),
			RobotID:     r.robot.ID,
			VersionName: alloc.Name,
			Code:        *out.Code,
			Description: out.Description,
			Tags:        out.Tags,
			CreatedBy:   &r.in.AccountID,
		}

		err := o.tx.WithTx(ctx, func(stores StoreProvider) error {
			if err := stores.Versions().Create(ctx, version); err != nil {
				return err
			}
			_, err := stores.Robots().SetCurrentVersion(ctx, r.robot.ID, &version.ID)
			return err
		})
		if err == nil {
			slog.InfoContext(ctx, "version committed",
				"version_id", version.ID,
				"version_name", version.VersionName,
				"attempt", attempt)
			return version, alloc.Degraded, nil
		}

		if !errors.Is(err, store.ErrDuplicateName) {
			return nil, false, r.fail(ctx, KindPersistenceFailure, fmt.Errorf("saving version %q: %w", alloc.Name, err))
		}
		if alloc.Degraded {
			return nil, false, r.fail(ctx, KindPersistenceFailure, fmt.Errorf("fallback name %q rejected: %w", alloc.Name, err))
		}

		slog.InfoContext(ctx, "version name taken concurrently, reallocating",
			"version_name", alloc.Name,
			"attempt", attempt)

		r.enter(ctx, model.GenerationStateAllocating)
		fresh, err := o.versions.ListByRobot(ctx, r.robot.ID)
		if err != nil {
			return nil, false, r.fail(ctx, KindPersistenceFailure, fmt.Errorf("relisting versions: %w", err))
		}
		names = append(model.VersionNames(fresh), alloc.Name)
		alloc = o.allocate(ctx, names)
	}

	return nil, false, r.fail(ctx, KindPersistenceFailure,
		fmt.Errorf("%w after %d attempts", ErrNameExhausted, o.cfg.MaxPersistAttempts))
}

func (o *Orchestrator) allocate(ctx context.Context, names []string) naming.Allocation {
	alloc := o.allocator.Allocate(naming.NextOrdinal(names), names, o.cfg.NameMaxAttempts)
	if alloc.Degraded {
		slog.WarnContext(ctx, "version name candidates exhausted, using timestamp fallback",
			"version_name", alloc.Name,
			"existing", len(names))
	}
	return alloc
}

func runErrorKind(ctx context.Context, err error) Kind {
	switch {
	case errors.Is(err, llm.ErrMissingCredentials):
		return KindMissingCredentials
	case errors.Is(err, llm.ErrTimeout):
		return KindAssistantTimeout
	case errors.Is(err, llm.ErrEmptyReply):
		return KindEmptyReply
	case ctx.Err() != nil, errors.Is(err, context.Canceled):
		return KindCanceled
	}
	return KindAssistantRunFailed
}

// fallbackDescription uses the request itself when the reply did not
// describe the version.
func fallbackDescription(in Input) *string {
	text := strings.TrimSpace(in.UserText)
	if text == "" && !in.Guided.IsEmpty() {
		text = compose.Compose(compose.Request{Operation: in.Operation, Guided: in.Guided})
	}
	if text == "" {
		return nil
	}
	text = logger.Truncate(text, 500)
	return &text
}

func versionName(v *model.Version) string {
	if v == nil {
		return ""
	}
	return v.VersionName
}
