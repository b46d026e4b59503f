package orchestrator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/classledger/attendance/internal/composer"
	"github.com/classledger/attendance/internal/domain"
	"github.com/classledger/attendance/internal/ledger"
	"github.com/classledger/attendance/internal/logger"
	"github.com/classledger/attendance/internal/store"
)

// Orchestrator sequences the multi-step write flows and keeps the metadata
// store consistent with what actually landed on the ledger. Callers are
// expected to serialize writes for the same session id; no per-id lock is
// provided here.
//
//go:generate mockgen -source=orchestrator.go -destination=../mocks/orchestrator.go -package=mocks -mock_names=Orchestrator=MockOrchestrator
type Orchestrator interface {
	// CreateSession creates a session on-chain, persists its schedule
	// metadata under the ledger-assigned id and returns the composed view
	CreateSession(ctx context.Context, name string, schedule domain.SessionMetadata) (*domain.Session, error)

	// EditSession merges a schedule patch for an upcoming session. This is
	// a pure metadata edit; the ledger is never written.
	EditSession(ctx context.Context, id uint64, patch domain.SessionMetadata) (*domain.Session, error)

	// Register registers the signer for the session and returns the tx hash
	Register(ctx context.Context, id uint64) (string, error)

	// CheckIn checks the signer in to the session and returns the tx hash.
	// Registration is a client-side precondition: without it the ledger is
	// never called.
	CheckIn(ctx context.Context, id uint64) (string, error)
}

type orchestrator struct {
	ledger   ledger.Client
	store    store.Store
	composer composer.Composer
}

// New creates a write-path orchestrator
func New(ledgerClient ledger.Client, metaStore store.Store, sessionComposer composer.Composer) Orchestrator {
	return &orchestrator{
		ledger:   ledgerClient,
		store:    metaStore,
		composer: sessionComposer,
	}
}

// CreateSession creates a session on-chain, persists its schedule metadata
// under the ledger-assigned id and returns the composed view. When the
// submit fails no metadata is written, so no orphaned records can exist
// for ids the ledger never assigned.
func (o *orchestrator) CreateSession(ctx context.Context, name string, schedule domain.SessionMetadata) (*domain.Session, error) {
	result, err := o.ledger.SubmitCreate(ctx, name)
	if err != nil {
		return nil, err
	}

	creator := o.ledger.SignerAddress().Hex()
	schedule.Creator = &creator
	schedule.LastTxHash = &result.TxHash

	if err := o.store.UpsertMetadata(ctx, result.ID, schedule); err != nil {
		// The session exists on-chain; surface the storage failure rather
		// than pretending the schedule was saved.
		logger.ErrorCtx(ctx, err, zap.Uint64("session_id", result.ID))
		return nil, err
	}

	return o.composer.GetOne(ctx, result.ID, nil)
}

// EditSession merges a schedule patch for an upcoming session. The
// lifecycle status is recomputed at edit time; a stale cached status can
// never authorize an edit after the session has started.
func (o *orchestrator) EditSession(ctx context.Context, id uint64, patch domain.SessionMetadata) (*domain.Session, error) {
	current, err := o.composer.GetOne(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	if current.Lifecycle != domain.LifecycleUpcoming {
		return nil, fmt.Errorf("%w: session %d is %s", domain.ErrEditNotAllowed, id, current.Lifecycle)
	}

	// Ledger-owned and creation-time fields are not editable.
	patch.Creator = nil
	patch.LastTxHash = nil

	if err := o.store.UpsertMetadata(ctx, id, patch); err != nil {
		return nil, err
	}

	return o.composer.GetOne(ctx, id, nil)
}

// Register registers the signer for the session and returns the tx hash
func (o *orchestrator) Register(ctx context.Context, id uint64) (string, error) {
	return o.ledger.SubmitRegister(ctx, id)
}

// CheckIn checks the signer in to the session and returns the tx hash
func (o *orchestrator) CheckIn(ctx context.Context, id uint64) (string, error) {
	viewer := o.ledger.SignerAddress()
	session, err := o.composer.GetOne(ctx, id, &viewer)
	if err != nil {
		return "", err
	}
	if session.Participation == domain.ParticipationNone {
		return "", fmt.Errorf("%w: session %d", domain.ErrNotRegistered, id)
	}

	return o.ledger.SubmitCheckIn(ctx, id)
}
