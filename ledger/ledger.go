package ledger

import (
	"errors"
	"sync"
)

// Ledger is the append-only transaction store. Membership tests and removals
// on the pending working set are O(1) (index map plus swap-remove slice).
type Ledger struct {
	mu         sync.RWMutex
	records    map[TxID]*TxRecord
	counter    TxID
	pendingIDs []TxID
	pendingIdx map[TxID]int
}

// New creates an empty [Ledger].
func New() *Ledger {
	return &Ledger{
		records:    make(map[TxID]*TxRecord),
		pendingIdx: make(map[TxID]int),
	}
}

// NextID reserves and returns the next transaction id. IDs are strictly
// increasing and never zero.
func (l *Ledger) NextID() TxID {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counter++
	return l.counter
}

// Create inserts a new PENDING record under a previously reserved id.
func (l *Ledger) Create(id TxID, params TxParams, releaseTime int64, message [32]byte) (TxRecord, error) {
	if id == 0 {
		return TxRecord{}, errors.New("transaction id cannot be zero")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.records[id]; exists {
		return TxRecord{}, errors.New("transaction id already used")
	}
	if id > l.counter {
		return TxRecord{}, errors.New("transaction id not reserved")
	}

	rec := &TxRecord{
		ID:          id,
		Status:      StatusPending,
		ReleaseTime: releaseTime,
		Params:      params.clone(),
		Message:     message,
	}
	l.records[id] = rec
	l.pendingInsert(id)
	return rec.clone(), nil
}

// Get returns a copy of the record for id.
func (l *Ledger) Get(id TxID) (TxRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rec, ok := l.records[id]
	if !ok {
		return TxRecord{}, ErrNotFound
	}
	return rec.clone(), nil
}

// MarkExecuted transitions PENDING -> EXECUTED and removes id from the
// pending set.
func (l *Ledger) MarkExecuted(id TxID) error {
	return l.terminate(id, StatusExecuted, "")
}

// MarkCancelled transitions PENDING -> CANCELLED and removes id from the
// pending set.
func (l *Ledger) MarkCancelled(id TxID) error {
	return l.terminate(id, StatusCancelled, "")
}

// MarkRejected transitions PENDING -> REJECTED, recording the validation
// failure discovered at approval time.
func (l *Ledger) MarkRejected(id TxID, reason string) error {
	return l.terminate(id, StatusRejected, reason)
}

func (l *Ledger) terminate(id TxID, status Status, reason string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[id]
	if !ok {
		return ErrNotFound
	}
	if rec.Status != StatusPending {
		return ErrNotPending
	}

	rec.Status = status
	rec.FailureReason = reason
	l.pendingRemove(id)
	return nil
}

// Demote rewrites an EXECUTED record to REJECTED with the downstream failure
// reason. The approval path commits EXECUTED before the external call; Demote
// records that the call itself failed. The id stays consumed.
func (l *Ledger) Demote(id TxID, reason string) (TxRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[id]
	if !ok {
		return TxRecord{}, ErrNotFound
	}
	if rec.Status != StatusExecuted {
		return TxRecord{}, ErrNotPending
	}

	rec.Status = StatusRejected
	rec.FailureReason = reason
	return rec.clone(), nil
}

// Reinstate rolls an EXECUTED or CANCELLED record back to PENDING and
// re-inserts it into the pending set. Used when a post-action observer or the
// archive aborts the whole transition.
func (l *Ledger) Reinstate(id TxID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[id]
	if !ok {
		return ErrNotFound
	}
	if rec.Status != StatusExecuted && rec.Status != StatusCancelled {
		return ErrNotPending
	}

	rec.Status = StatusPending
	rec.FailureReason = ""
	l.pendingInsert(id)
	return nil
}

// IsPending reports pending-set membership for id.
func (l *Ledger) IsPending(id TxID) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.pendingIdx[id]
	return ok
}

// PendingIDs returns a copy of the pending working set. Enumeration order is
// not significant; this accessor exists for observability and tests.
func (l *Ledger) PendingIDs() []TxID {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]TxID(nil), l.pendingIDs...)
}

// Count returns the total number of records ever created.
func (l *Ledger) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

func (l *Ledger) pendingInsert(id TxID) {
	l.pendingIdx[id] = len(l.pendingIDs)
	l.pendingIDs = append(l.pendingIDs, id)
}

func (l *Ledger) pendingRemove(id TxID) {
	idx, ok := l.pendingIdx[id]
	if !ok {
		return
	}
	last := len(l.pendingIDs) - 1
	if idx != last {
		moved := l.pendingIDs[last]
		l.pendingIDs[idx] = moved
		l.pendingIdx[moved] = idx
	}
	l.pendingIDs = l.pendingIDs[:last]
	delete(l.pendingIdx, id)
}
