package composer

import (
	"context"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/classledger/attendance/internal/adapter"
	"github.com/classledger/attendance/internal/domain"
	"github.com/classledger/attendance/internal/ledger"
	"github.com/classledger/attendance/internal/logger"
	"github.com/classledger/attendance/internal/store"
)

// Composer reconciles authoritative ledger facts with the local metadata
// cache into consistent Session views. It is the only component allowed to
// construct domain.Session values.
//
//go:generate mockgen -source=composer.go -destination=../mocks/composer.go -package=mocks -mock_names=Composer=MockComposer
type Composer interface {
	// ListAll returns every session, most recent first. When viewer is nil
	// all participation statuses are "none" and no predicate reads are made.
	ListAll(ctx context.Context, viewer *common.Address) ([]domain.Session, error)

	// GetOne returns a single session view, or ErrSessionNotFound
	GetOne(ctx context.Context, id uint64, viewer *common.Address) (*domain.Session, error)
}

// Config holds composer configuration
type Config struct {
	// ParticipationConcurrency bounds the per-session predicate fan-out
	ParticipationConcurrency int
}

type composer struct {
	ledger ledger.Client
	store  store.Store
	clock  adapter.Clock
	pool   pond.Pool
}

// New creates a session composer
func New(cfg Config, ledgerClient ledger.Client, metaStore store.Store, clock adapter.Clock) Composer {
	if cfg.ParticipationConcurrency <= 0 {
		cfg.ParticipationConcurrency = 8
	}
	return &composer{
		ledger: ledgerClient,
		store:  metaStore,
		clock:  clock,
		pool:   pond.NewPool(cfg.ParticipationConcurrency),
	}
}

// ComposeOne merges one ledger fact, zero-or-one metadata record and a
// participation status into a Session view. Pure function, no I/O.
func ComposeOne(fact domain.SessionFact, metadata *domain.SessionMetadata, participation domain.ParticipationStatus, now time.Time) domain.Session {
	session := domain.Session{
		ID:              fact.ID,
		Title:           fact.Name,
		DurationMinutes: domain.DefaultDurationMinutes,
		Lifecycle:       LifecycleAt(metadata, now),
		Participation:   participation,
		RegisteredCount: fact.RegisteredCount,
		CheckedInCount:  fact.CheckedInCount,
		CreatedAt:       fact.CreatedAt,
		Creator:         fact.Creator,
	}
	if session.Title == "" {
		session.Title = fmt.Sprintf("Session #%d", fact.ID)
	}

	if metadata != nil {
		if metadata.StartDate != nil {
			session.StartDate = *metadata.StartDate
		}
		if metadata.StartTime != nil {
			session.StartTime = *metadata.StartTime
		}
		if metadata.DurationMinutes != nil && *metadata.DurationMinutes > 0 {
			session.DurationMinutes = *metadata.DurationMinutes
		}
		if metadata.Location != nil {
			session.Location = *metadata.Location
		}
		if metadata.Description != nil {
			session.Description = *metadata.Description
		}
		if metadata.LastTxHash != nil {
			session.TxHash = *metadata.LastTxHash
		}
	}

	return session
}

// LifecycleAt derives the lifecycle status from schedule metadata and the
// given instant. A session without a complete schedule is upcoming
// unconditionally; it can never be computed as active or completed.
func LifecycleAt(metadata *domain.SessionMetadata, now time.Time) domain.LifecycleStatus {
	start, ok := metadata.Start()
	if !ok {
		return domain.LifecycleUpcoming
	}

	end := start.Add(metadata.Duration())
	switch {
	case now.Before(start):
		return domain.LifecycleUpcoming
	case now.Before(end):
		return domain.LifecycleActive
	default:
		return domain.LifecycleCompleted
	}
}

// ParticipationFromPredicates derives the participation status from the two
// independent ledger predicates. Checked-in takes precedence.
func ParticipationFromPredicates(registered, checkedIn bool) domain.ParticipationStatus {
	switch {
	case checkedIn:
		return domain.ParticipationCheckedIn
	case registered:
		return domain.ParticipationRegistered
	default:
		return domain.ParticipationNone
	}
}

// ListAll fetches ledger facts and cached metadata concurrently, resolves
// the viewer's participation per session, then composes the list. Ledger
// failures propagate; a metadata read failure degrades to "no metadata"
// since schedule fields are optional.
func (c *composer) ListAll(ctx context.Context, viewer *common.Address) ([]domain.Session, error) {
	var (
		facts    []domain.SessionFact
		factsErr error
		metadata map[uint64]domain.SessionMetadata
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		var err error
		metadata, err = c.store.GetAllMetadata(ctx)
		if err != nil {
			logger.WarnCtx(ctx, "metadata read failed, composing without schedules", zap.Error(err))
			metadata = nil
		}
	}()

	facts, factsErr = c.ledger.ListFacts(ctx)
	<-done
	if factsErr != nil {
		return nil, factsErr
	}

	statuses, err := c.participationFor(ctx, facts, viewer)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	sessions := make([]domain.Session, len(facts))
	for i, fact := range facts {
		var meta *domain.SessionMetadata
		if m, ok := metadata[fact.ID]; ok {
			meta = &m
		}
		sessions[i] = ComposeOne(fact, meta, statuses[i], now)
	}
	return sessions, nil
}

// GetOne returns a single session view, or ErrSessionNotFound
func (c *composer) GetOne(ctx context.Context, id uint64, viewer *common.Address) (*domain.Session, error) {
	fact, err := c.ledger.GetFact(ctx, id)
	if err != nil {
		return nil, err
	}

	metadata, err := c.store.GetMetadata(ctx, id)
	if err != nil {
		logger.WarnCtx(ctx, "metadata read failed, composing without schedule",
			zap.Uint64("session_id", id), zap.Error(err))
		metadata = nil
	}

	participation := domain.ParticipationNone
	if viewer != nil {
		registered, checkedIn, err := c.predicates(ctx, id, *viewer)
		if err != nil {
			return nil, err
		}
		participation = ParticipationFromPredicates(registered, checkedIn)
	}

	session := ComposeOne(*fact, metadata, participation, c.clock.Now())
	return &session, nil
}

// participationFor resolves the viewer's status for every fact with a
// bounded concurrent fan-out. With no viewer every status is "none" and
// no ledger reads are made.
func (c *composer) participationFor(ctx context.Context, facts []domain.SessionFact, viewer *common.Address) ([]domain.ParticipationStatus, error) {
	statuses := make([]domain.ParticipationStatus, len(facts))
	for i := range statuses {
		statuses[i] = domain.ParticipationNone
	}
	if viewer == nil || len(facts) == 0 {
		return statuses, nil
	}

	group := c.pool.NewGroup()
	for i, fact := range facts {
		group.SubmitErr(func() error {
			registered, checkedIn, err := c.predicates(ctx, fact.ID, *viewer)
			if err != nil {
				return err
			}
			statuses[i] = ParticipationFromPredicates(registered, checkedIn)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("failed to resolve participation: %w", err)
	}
	return statuses, nil
}

// predicates runs the two status reads for one (session, address) pair
func (c *composer) predicates(ctx context.Context, id uint64, viewer common.Address) (bool, bool, error) {
	var (
		registered, checkedIn bool
		regErr                error
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		registered, regErr = c.ledger.IsRegistered(ctx, id, viewer)
	}()

	checkedIn, err := c.ledger.HasCheckedIn(ctx, id, viewer)
	<-done
	if regErr != nil {
		return false, false, regErr
	}
	if err != nil {
		return false, false, err
	}
	return registered, checkedIn, nil
}
