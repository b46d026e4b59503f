package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/classledger/attendance/internal/adapter"
	"github.com/classledger/attendance/internal/domain"
	"github.com/classledger/attendance/internal/logger"
)

// gasMarginPercent is added on top of the node's gas estimate before submitting.
const gasMarginPercent = 20

// Client is the thin operation layer against the attendance contract.
// Reads are plain contract calls; writes follow estimate, submit, await
// one confirmation. Duplicate pre-checks run before every write so calls
// known to fail never reach the chain.
//
//go:generate mockgen -source=client.go -destination=../mocks/ledger.go -package=mocks -mock_names=Client=MockLedgerClient
type Client interface {
	// SessionCount returns the total number of sessions ever created
	SessionCount(ctx context.Context) (uint64, error)

	// GetFact returns the on-chain record for a session id
	GetFact(ctx context.Context, id uint64) (*domain.SessionFact, error)

	// ListFacts fetches all on-chain records concurrently, ordered by descending id
	ListFacts(ctx context.Context) ([]domain.SessionFact, error)

	// IsRegistered reports whether the address registered for the session
	IsRegistered(ctx context.Context, id uint64, address common.Address) (bool, error)

	// HasCheckedIn reports whether the address checked in to the session
	HasCheckedIn(ctx context.Context, id uint64, address common.Address) (bool, error)

	// SubmitCreate creates a session on-chain and recovers the assigned id
	// from the confirmed receipt's SessionCreated event
	SubmitCreate(ctx context.Context, name string) (*domain.CreateResult, error)

	// SubmitRegister registers the signer for the session
	SubmitRegister(ctx context.Context, id uint64) (string, error)

	// SubmitCheckIn checks the signer in to the session
	SubmitCheckIn(ctx context.Context, id uint64) (string, error)

	// SignerAddress returns the account transactions are signed with
	SignerAddress() common.Address

	// Close closes the underlying connection
	Close()
}

// Config holds ledger client configuration
type Config struct {
	ContractAddress common.Address
	// ReceiptInitialInterval is the first poll delay while awaiting a confirmation
	ReceiptInitialInterval time.Duration
	// ReceiptMaxInterval caps the poll delay growth
	ReceiptMaxInterval time.Duration
}

type client struct {
	config  Config
	abi     abi.ABI
	eth     adapter.EthClient
	signer  adapter.Signer
	clock   adapter.Clock
	eventID common.Hash
}

// NewClient creates an attendance contract client
func NewClient(cfg Config, eth adapter.EthClient, signer adapter.Signer, clock adapter.Clock) (Client, error) {
	parsed, err := parseAttendanceABI()
	if err != nil {
		return nil, err
	}
	if cfg.ReceiptInitialInterval <= 0 {
		cfg.ReceiptInitialInterval = time.Second
	}
	if cfg.ReceiptMaxInterval <= 0 {
		cfg.ReceiptMaxInterval = 15 * time.Second
	}
	return &client{
		config:  cfg,
		abi:     parsed,
		eth:     eth,
		signer:  signer,
		clock:   clock,
		eventID: parsed.Events[sessionCreatedEvent].ID,
	}, nil
}

// call packs a read-only method, executes it and returns the raw result
func (c *client) call(ctx context.Context, method string, args ...interface{}) ([]byte, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s call: %w", method, err)
	}

	result, err := c.eth.CallContract(ctx, ethereum.CallMsg{
		To:   &c.config.ContractAddress,
		Data: data,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s call failed: %v", domain.ErrLedgerUnavailable, method, err)
	}
	return result, nil
}

// SessionCount returns the total number of sessions ever created
func (c *client) SessionCount(ctx context.Context) (uint64, error) {
	result, err := c.call(ctx, "sessionCount")
	if err != nil {
		return 0, err
	}

	var count *big.Int
	if err := c.abi.UnpackIntoInterface(&count, "sessionCount", result); err != nil {
		return 0, fmt.Errorf("failed to unpack session count: %w", err)
	}
	return count.Uint64(), nil
}

// sessionRecord mirrors the outputs of the contract's sessions getter
type sessionRecord struct {
	Name            string
	Timestamp       *big.Int
	Instructor      common.Address
	TotalStudents   *big.Int
	AttendanceCount *big.Int
}

// GetFact returns the on-chain record for a session id
func (c *client) GetFact(ctx context.Context, id uint64) (*domain.SessionFact, error) {
	count, err := c.SessionCount(ctx)
	if err != nil {
		return nil, err
	}
	if id >= count {
		return nil, fmt.Errorf("%w: id %d out of range [0, %d)", domain.ErrSessionNotFound, id, count)
	}
	return c.fetchFact(ctx, id)
}

// fetchFact reads a single session record without the range check
func (c *client) fetchFact(ctx context.Context, id uint64) (*domain.SessionFact, error) {
	result, err := c.call(ctx, "sessions", new(big.Int).SetUint64(id))
	if err != nil {
		return nil, err
	}

	var record sessionRecord
	if err := c.abi.UnpackIntoInterface(&record, "sessions", result); err != nil {
		return nil, fmt.Errorf("failed to unpack session %d: %w", id, err)
	}

	return &domain.SessionFact{
		ID:              id,
		Name:            record.Name,
		CreatedAt:       c.clock.Unix(record.Timestamp.Int64(), 0),
		Creator:         record.Instructor.Hex(),
		RegisteredCount: record.TotalStudents.Uint64(),
		CheckedInCount:  record.AttendanceCount.Uint64(),
	}, nil
}

// ListFacts fetches all on-chain records concurrently, ordered by descending id.
// The descending order is a presentation contract relied on by callers.
func (c *client) ListFacts(ctx context.Context) ([]domain.SessionFact, error) {
	count, err := c.SessionCount(ctx)
	if err != nil {
		return nil, err
	}

	facts := make([]domain.SessionFact, count)
	if count == 0 {
		return facts, nil
	}

	type fetchResult struct {
		id  uint64
		err error
	}

	// Fan out one read per id; results land in the slot for their id so
	// completion order cannot reorder them.
	resultsCh := make(chan fetchResult, count)
	for id := uint64(0); id < count; id++ {
		go func(id uint64) {
			fact, err := c.fetchFact(ctx, id)
			if err == nil {
				facts[count-1-id] = *fact
			}
			resultsCh <- fetchResult{id: id, err: err}
		}(id)
	}

	for i := uint64(0); i < count; i++ {
		result := <-resultsCh
		if result.err != nil {
			return nil, fmt.Errorf("failed to fetch session %d: %w", result.id, result.err)
		}
	}

	return facts, nil
}

// IsRegistered reports whether the address registered for the session
func (c *client) IsRegistered(ctx context.Context, id uint64, address common.Address) (bool, error) {
	return c.predicate(ctx, "isRegistered", id, address)
}

// HasCheckedIn reports whether the address checked in to the session
func (c *client) HasCheckedIn(ctx context.Context, id uint64, address common.Address) (bool, error) {
	return c.predicate(ctx, "hasCheckedIn", id, address)
}

func (c *client) predicate(ctx context.Context, method string, id uint64, address common.Address) (bool, error) {
	result, err := c.call(ctx, method, new(big.Int).SetUint64(id), address)
	if err != nil {
		return false, err
	}

	var value bool
	if err := c.abi.UnpackIntoInterface(&value, method, result); err != nil {
		return false, fmt.Errorf("failed to unpack %s result: %w", method, err)
	}
	return value, nil
}

// SubmitCreate creates a session on-chain and recovers the assigned id
// from the confirmed receipt's SessionCreated event
func (c *client) SubmitCreate(ctx context.Context, name string) (*domain.CreateResult, error) {
	receipt, err := c.submit(ctx, "createSession", name)
	if err != nil {
		return nil, err
	}

	id, err := c.sessionIDFromReceipt(receipt)
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "session created on-chain",
		zap.Uint64("session_id", id),
		zap.String("tx_hash", receipt.TxHash.Hex()))

	return &domain.CreateResult{ID: id, TxHash: receipt.TxHash.Hex()}, nil
}

// SubmitRegister registers the signer for the session
func (c *client) SubmitRegister(ctx context.Context, id uint64) (string, error) {
	registered, err := c.IsRegistered(ctx, id, c.signer.Address())
	if err != nil {
		return "", err
	}
	if registered {
		return "", domain.ErrAlreadyRegistered
	}

	receipt, err := c.submit(ctx, "register", new(big.Int).SetUint64(id))
	if err != nil {
		return "", err
	}
	return receipt.TxHash.Hex(), nil
}

// SubmitCheckIn checks the signer in to the session
func (c *client) SubmitCheckIn(ctx context.Context, id uint64) (string, error) {
	checkedIn, err := c.HasCheckedIn(ctx, id, c.signer.Address())
	if err != nil {
		return "", err
	}
	if checkedIn {
		return "", domain.ErrAlreadyCheckedIn
	}

	receipt, err := c.submit(ctx, "checkIn", new(big.Int).SetUint64(id))
	if err != nil {
		return "", err
	}
	return receipt.TxHash.Hex(), nil
}

// SignerAddress returns the account transactions are signed with
func (c *client) SignerAddress() common.Address {
	return c.signer.Address()
}

// submit runs the estimate, sign, send, await-confirmation sequence for a
// state-changing method and returns the confirmed receipt
func (c *client) submit(ctx context.Context, method string, args ...interface{}) (*types.Receipt, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s call: %w", method, err)
	}

	from := c.signer.Address()
	msg := ethereum.CallMsg{
		From: from,
		To:   &c.config.ContractAddress,
		Data: data,
	}

	// Estimation failure usually means the call would revert on-chain.
	gasEstimate, err := c.eth.EstimateGas(ctx, msg)
	if err != nil {
		return nil, translateEstimateError(err)
	}
	gasLimit := gasEstimate * (100 + gasMarginPercent) / 100

	gasPrice, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get gas price: %v", domain.ErrLedgerUnavailable, err)
	}

	nonce, err := c.eth.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get nonce: %v", domain.ErrLedgerUnavailable, err)
	}

	chainID, err := c.eth.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get chain id: %v", domain.ErrLedgerUnavailable, err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &c.config.ContractAddress,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	signed, err := c.signer.SignTx(ctx, tx, chainID)
	if err != nil {
		if errors.Is(err, domain.ErrUserRejected) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to sign %s transaction: %w", method, err)
	}

	if err := c.eth.SendTransaction(ctx, signed); err != nil {
		return nil, translateSubmitError(err)
	}

	logger.DebugCtx(ctx, "transaction submitted",
		zap.String("method", method),
		zap.String("tx_hash", signed.Hash().Hex()),
		zap.Uint64("gas_limit", gasLimit))

	receipt, err := c.waitMined(ctx, signed.Hash())
	if err != nil {
		return nil, err
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return nil, domain.NewRevertError(fmt.Sprintf("%s transaction reverted", method))
	}

	return receipt, nil
}

// waitMined polls for the transaction receipt until it appears or the
// caller's context is cancelled. No timeout is imposed here: a submitted
// transaction cannot be cancelled locally, only its wait abandoned.
func (c *client) waitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	var receipt *types.Receipt
	operation := func() error {
		r, err := c.eth.TransactionReceipt(ctx, txHash)
		if err != nil {
			if errors.Is(err, ethereum.NotFound) {
				return fmt.Errorf("transaction %s not mined yet", txHash.Hex())
			}
			return backoff.Permanent(fmt.Errorf("%w: failed to get receipt: %v", domain.ErrLedgerUnavailable, err))
		}
		receipt = r
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.config.ReceiptInitialInterval
	b.MaxInterval = c.config.ReceiptMaxInterval
	b.MaxElapsedTime = 0

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		if errors.Is(err, domain.ErrLedgerUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: confirmation wait abandoned: %v", domain.ErrLedgerUnavailable, err)
	}
	return receipt, nil
}

// sessionIDFromReceipt decodes the SessionCreated event from a confirmed
// receipt. A confirmed create without the event is fatal: the transaction
// succeeded but the assigned id cannot be determined.
func (c *client) sessionIDFromReceipt(receipt *types.Receipt) (uint64, error) {
	for _, vLog := range receipt.Logs {
		if vLog.Address != c.config.ContractAddress {
			continue
		}
		if len(vLog.Topics) < 2 || vLog.Topics[0] != c.eventID {
			continue
		}
		// sessionId is the first indexed argument
		return new(big.Int).SetBytes(vLog.Topics[1].Bytes()).Uint64(), nil
	}
	return 0, fmt.Errorf("%w: tx %s", domain.ErrEventNotFound, receipt.TxHash.Hex())
}

// Close closes the underlying connection
func (c *client) Close() {
	c.eth.Close()
}

// translateEstimateError maps gas estimation failures into the error
// taxonomy. Estimation failing usually means the call would revert.
func translateEstimateError(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "insufficient funds") {
		return domain.ErrInsufficientFunds
	}
	return domain.NewRevertError(revertReason(err))
}

// translateSubmitError maps node errors from a transaction broadcast into
// the error taxonomy
func translateSubmitError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "insufficient funds"):
		return domain.ErrInsufficientFunds
	case strings.Contains(msg, "execution reverted"), strings.Contains(msg, "revert"):
		return domain.NewRevertError(revertReason(err))
	default:
		return fmt.Errorf("%w: failed to send transaction: %v", domain.ErrLedgerUnavailable, err)
	}
}

// revertReason extracts the human-readable reason from a node error message
func revertReason(err error) string {
	msg := err.Error()
	if idx := strings.Index(strings.ToLower(msg), "execution reverted"); idx >= 0 {
		reason := msg[idx+len("execution reverted"):]
		reason = strings.TrimLeft(reason, ": ")
		if reason != "" {
			return reason
		}
	}
	return msg
}
