package ledger

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/MrEthical07/goTimelock/permission"
)

var (
	// ErrNotFound is returned when a transaction id was never issued.
	ErrNotFound = errors.New("transaction not found")
	// ErrNotPending is returned when transitioning a transaction that is not pending.
	ErrNotPending = errors.New("transaction not pending")
	// ErrArchiveUnavailable is returned when the redis archive backend fails.
	ErrArchiveUnavailable = errors.New("ledger archive unavailable")
)

// TxID identifies a transaction. Zero is the sentinel for "does not exist";
// issued ids start at 1 and are strictly increasing.
type TxID uint64

// Status is the lifecycle state of a transaction record.
type Status uint8

const (
	StatusPending Status = iota + 1
	StatusExecuted
	StatusCancelled
	StatusRejected
)

func (s Status) Terminal() bool {
	return s == StatusExecuted || s == StatusCancelled || s == StatusRejected
}

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusExecuted:
		return "executed"
	case StatusCancelled:
		return "cancelled"
	case StatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// ExecutionType selects how the execution selector is interpreted by the
// dispatch layer.
type ExecutionType uint8

const (
	ExecutionNone ExecutionType = iota
	ExecutionStandard
	ExecutionRaw
)

// TxParams is the immutable parameter block captured at request time.
type TxParams struct {
	Requester         common.Address
	Target            common.Address
	Value             *big.Int
	GasLimit          uint64
	OperationType     permission.OperationType
	ExecutionType     ExecutionType
	FunctionSelector  permission.Selector
	ExecutionSelector permission.Selector
	CallParams        []byte
}

// Equal reports whether two parameter blocks are identical.
func (p TxParams) Equal(other TxParams) bool {
	if p.Requester != other.Requester ||
		p.Target != other.Target ||
		p.GasLimit != other.GasLimit ||
		p.OperationType != other.OperationType ||
		p.ExecutionType != other.ExecutionType ||
		p.FunctionSelector != other.FunctionSelector ||
		p.ExecutionSelector != other.ExecutionSelector {
		return false
	}
	if valueOrZero(p.Value).Cmp(valueOrZero(other.Value)) != 0 {
		return false
	}
	if len(p.CallParams) != len(other.CallParams) {
		return false
	}
	for i := range p.CallParams {
		if p.CallParams[i] != other.CallParams[i] {
			return false
		}
	}
	return true
}

func (p TxParams) clone() TxParams {
	p.Value = new(big.Int).Set(valueOrZero(p.Value))
	p.CallParams = append([]byte(nil), p.CallParams...)
	return p
}

func valueOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

// TxRecord is one unit of lifecycle tracking. Records returned by the ledger
// are copies; mutating them does not affect stored state.
type TxRecord struct {
	ID          TxID
	Status      Status
	ReleaseTime int64
	Params      TxParams
	// Message is the digest binding the record for signature purposes.
	Message [32]byte
	// FailureReason carries the downstream error when Status is StatusRejected.
	FailureReason string
}

func (r *TxRecord) clone() TxRecord {
	dup := *r
	dup.Params = r.Params.clone()
	return dup
}
