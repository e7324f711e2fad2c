package permission

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// BatchAction identifies one administrative mutation inside a [Batch].
type BatchAction uint8

const (
	BatchCreateRole BatchAction = iota + 1
	BatchRemoveRole
	BatchAddWallet
	BatchRevokeWallet
	BatchGrantFunction
	BatchRevokeFunction
)

// BatchEntry is one ordered mutation. Which fields are read depends on Action:
// CreateRole uses Name/MaxWallets/Protected, wallet actions use Role/Wallet,
// grant actions use Role/Permission (revoke reads only Permission.Selector).
type BatchEntry struct {
	Action     BatchAction
	Role       RoleID
	Name       string
	MaxWallets int
	Protected  bool
	Wallet     common.Address
	Permission FunctionPermission
}

// Batch is an ordered list of administrative mutations applied as a single
// all-or-nothing unit. The ID correlates audit events across the request,
// approval, and application of the batch.
type Batch struct {
	ID      uuid.UUID
	Entries []BatchEntry
}

// NewBatch assigns a fresh batch ID to the given entries.
func NewBatch(entries ...BatchEntry) Batch {
	return Batch{
		ID:      uuid.New(),
		Entries: entries,
	}
}

// Apply executes every entry of the batch in order against the directory.
// Entries are applied to a private copy first; the directory adopts the result
// only if all entries succeed, so a concurrent reader never observes a partial
// batch and a failed batch leaves the directory untouched. Any entry failure
// aborts with [ErrBatchAborted] wrapping the entry's own error.
func (d *Directory) Apply(batch Batch) error {
	if len(batch.Entries) == 0 {
		return fmt.Errorf("%w: empty batch", ErrBatchAborted)
	}

	work := d.snapshot()
	for i, entry := range batch.Entries {
		if err := work.applyEntry(entry); err != nil {
			return fmt.Errorf("%w: entry %d (%s): %w", ErrBatchAborted, i, batchActionName(entry.Action), err)
		}
	}

	d.adopt(work)
	return nil
}

func (d *Directory) applyEntry(entry BatchEntry) error {
	switch entry.Action {
	case BatchCreateRole:
		_, err := d.CreateRole(entry.Name, entry.MaxWallets, entry.Protected)
		return err
	case BatchRemoveRole:
		return d.RemoveRole(entry.Role)
	case BatchAddWallet:
		return d.AddWallet(entry.Role, entry.Wallet)
	case BatchRevokeWallet:
		return d.RevokeWallet(entry.Role, entry.Wallet)
	case BatchGrantFunction:
		return d.Grant(entry.Role, entry.Permission)
	case BatchRevokeFunction:
		return d.RevokeGrant(entry.Role, entry.Permission.Selector)
	default:
		return fmt.Errorf("unknown batch action %d", entry.Action)
	}
}

// snapshot deep-copies the directory's role and membership tables. The schema
// registry is shared: batches never mutate schemas.
func (d *Directory) snapshot() *Directory {
	d.mu.RLock()
	defer d.mu.RUnlock()

	work := NewDirectory(d.registry)
	for id, role := range d.roles {
		dup := &roleState{
			name:       role.name,
			protected:  role.protected,
			maxWallets: role.maxWallets,
			wallets:    make(map[common.Address]struct{}, len(role.wallets)),
			grants:     make(map[Selector]FunctionPermission, len(role.grants)),
		}
		for w := range role.wallets {
			dup.wallets[w] = struct{}{}
		}
		for sel, grant := range role.grants {
			dup.grants[sel] = grant.clone()
		}
		work.roles[id] = dup
	}
	for wallet, held := range d.members {
		dup := make(map[RoleID]struct{}, len(held))
		for id := range held {
			dup[id] = struct{}{}
		}
		work.members[wallet] = dup
	}
	return work
}

func (d *Directory) adopt(work *Directory) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.roles = work.roles
	d.members = work.members
}

func batchActionName(a BatchAction) string {
	switch a {
	case BatchCreateRole:
		return "create-role"
	case BatchRemoveRole:
		return "remove-role"
	case BatchAddWallet:
		return "add-wallet"
	case BatchRevokeWallet:
		return "revoke-wallet"
	case BatchGrantFunction:
		return "grant-function"
	case BatchRevokeFunction:
		return "revoke-function"
	default:
		return "unknown"
	}
}
