package orchestrator_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classledger/attendance/internal/domain"
	"github.com/classledger/attendance/internal/logger"
	"github.com/classledger/attendance/internal/mocks"
	"github.com/classledger/attendance/internal/orchestrator"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

func stringPtr(s string) *string { return &s }

// testOrchestratorMocks contains all the mocks needed for testing the orchestrator
type testOrchestratorMocks struct {
	ctrl         *gomock.Controller
	ledger       *mocks.MockLedgerClient
	store        *mocks.MockStore
	composer     *mocks.MockComposer
	orchestrator orchestrator.Orchestrator
}

// setupTestOrchestrator creates all the mocks and orchestrator for testing
func setupTestOrchestrator(t *testing.T) *testOrchestratorMocks {
	ctrl := gomock.NewController(t)

	tm := &testOrchestratorMocks{
		ctrl:     ctrl,
		ledger:   mocks.NewMockLedgerClient(ctrl),
		store:    mocks.NewMockStore(ctrl),
		composer: mocks.NewMockComposer(ctrl),
	}
	tm.orchestrator = orchestrator.New(tm.ledger, tm.store, tm.composer)
	return tm
}

func TestOrchestrator_CreateSession(t *testing.T) {
	tm := setupTestOrchestrator(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	signer := common.HexToAddress("0x1111111111111111111111111111111111111111")
	schedule := domain.SessionMetadata{
		StartDate: stringPtr("2025-03-10"),
		StartTime: stringPtr("09:00"),
	}

	tm.ledger.EXPECT().SubmitCreate(ctx, "Algorithms").
		Return(&domain.CreateResult{ID: 5, TxHash: "0xdeadbeef"}, nil)
	tm.ledger.EXPECT().SignerAddress().Return(signer)

	tm.store.EXPECT().UpsertMetadata(ctx, uint64(5), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uint64, patch domain.SessionMetadata) error {
			// The stored record carries the ledger-assigned provenance
			require.NotNil(t, patch.Creator)
			assert.Equal(t, signer.Hex(), *patch.Creator)
			require.NotNil(t, patch.LastTxHash)
			assert.Equal(t, "0xdeadbeef", *patch.LastTxHash)
			assert.Equal(t, "2025-03-10", *patch.StartDate)
			return nil
		})

	composed := &domain.Session{ID: 5, Title: "Algorithms"}
	tm.composer.EXPECT().GetOne(ctx, uint64(5), gomock.Nil()).Return(composed, nil)

	session, err := tm.orchestrator.CreateSession(ctx, "Algorithms", schedule)
	require.NoError(t, err)
	assert.Equal(t, composed, session)
}

func TestOrchestrator_CreateSession_SubmitFailureWritesNothing(t *testing.T) {
	tm := setupTestOrchestrator(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()

	// No UpsertMetadata expectation: a failed create must not leave
	// metadata for an id the ledger never assigned.
	tm.ledger.EXPECT().SubmitCreate(ctx, "Algorithms").
		Return(nil, domain.NewRevertError("not authorized"))

	_, err := tm.orchestrator.CreateSession(ctx, "Algorithms", domain.SessionMetadata{})
	assert.True(t, errors.Is(err, domain.ErrContractReverted))
}

func TestOrchestrator_CreateSession_StorageFailureSurfaced(t *testing.T) {
	tm := setupTestOrchestrator(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()

	tm.ledger.EXPECT().SubmitCreate(ctx, "Algorithms").
		Return(&domain.CreateResult{ID: 5, TxHash: "0xdeadbeef"}, nil)
	tm.ledger.EXPECT().SignerAddress().Return(common.Address{})
	tm.store.EXPECT().UpsertMetadata(ctx, uint64(5), gomock.Any()).
		Return(domain.ErrStorageUnavailable)

	_, err := tm.orchestrator.CreateSession(ctx, "Algorithms", domain.SessionMetadata{})
	assert.True(t, errors.Is(err, domain.ErrStorageUnavailable))
}

func TestOrchestrator_EditSession(t *testing.T) {
	tm := setupTestOrchestrator(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	patch := domain.SessionMetadata{
		Location:   stringPtr("Room 204"),
		Creator:    stringPtr("0xattacker"),
		LastTxHash: stringPtr("0xforged"),
	}

	tm.composer.EXPECT().GetOne(ctx, uint64(3), gomock.Nil()).
		Return(&domain.Session{ID: 3, Lifecycle: domain.LifecycleUpcoming}, nil)

	tm.store.EXPECT().UpsertMetadata(ctx, uint64(3), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uint64, stored domain.SessionMetadata) error {
			// Ledger-owned fields cannot be overwritten through an edit
			assert.Nil(t, stored.Creator)
			assert.Nil(t, stored.LastTxHash)
			assert.Equal(t, "Room 204", *stored.Location)
			return nil
		})

	updated := &domain.Session{ID: 3, Location: "Room 204"}
	tm.composer.EXPECT().GetOne(ctx, uint64(3), gomock.Nil()).Return(updated, nil)

	session, err := tm.orchestrator.EditSession(ctx, 3, patch)
	require.NoError(t, err)
	assert.Equal(t, updated, session)
}

func TestOrchestrator_EditSession_NotUpcoming(t *testing.T) {
	tests := []struct {
		name      string
		lifecycle domain.LifecycleStatus
	}{
		{name: "active session", lifecycle: domain.LifecycleActive},
		{name: "completed session", lifecycle: domain.LifecycleCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := setupTestOrchestrator(t)
			defer tm.ctrl.Finish()

			ctx := context.Background()

			tm.composer.EXPECT().GetOne(ctx, uint64(3), gomock.Nil()).
				Return(&domain.Session{ID: 3, Lifecycle: tt.lifecycle}, nil)

			_, err := tm.orchestrator.EditSession(ctx, 3, domain.SessionMetadata{})
			assert.True(t, errors.Is(err, domain.ErrEditNotAllowed))
		})
	}
}

func TestOrchestrator_EditSession_NotFound(t *testing.T) {
	tm := setupTestOrchestrator(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()

	tm.composer.EXPECT().GetOne(ctx, uint64(99), gomock.Nil()).
		Return(nil, domain.ErrSessionNotFound)

	_, err := tm.orchestrator.EditSession(ctx, 99, domain.SessionMetadata{})
	assert.True(t, errors.Is(err, domain.ErrSessionNotFound))
}

func TestOrchestrator_Register(t *testing.T) {
	tm := setupTestOrchestrator(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()

	tm.ledger.EXPECT().SubmitRegister(ctx, uint64(2)).Return("0xaa", nil)

	txHash, err := tm.orchestrator.Register(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "0xaa", txHash)
}

func TestOrchestrator_CheckIn(t *testing.T) {
	tm := setupTestOrchestrator(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	signer := common.HexToAddress("0x1111111111111111111111111111111111111111")

	tm.ledger.EXPECT().SignerAddress().Return(signer)
	tm.composer.EXPECT().GetOne(ctx, uint64(2), &signer).
		Return(&domain.Session{ID: 2, Participation: domain.ParticipationRegistered}, nil)
	tm.ledger.EXPECT().SubmitCheckIn(ctx, uint64(2)).Return("0xbb", nil)

	txHash, err := tm.orchestrator.CheckIn(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "0xbb", txHash)
}

func TestOrchestrator_CheckIn_NotRegistered(t *testing.T) {
	tm := setupTestOrchestrator(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	signer := common.HexToAddress("0x1111111111111111111111111111111111111111")

	// No SubmitCheckIn expectation: the precondition failure never
	// reaches the ledger.
	tm.ledger.EXPECT().SignerAddress().Return(signer)
	tm.composer.EXPECT().GetOne(ctx, uint64(2), &signer).
		Return(&domain.Session{ID: 2, Participation: domain.ParticipationNone}, nil)

	_, err := tm.orchestrator.CheckIn(ctx, 2)
	assert.True(t, errors.Is(err, domain.ErrNotRegistered))
}
