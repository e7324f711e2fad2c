package permission

import (
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Directory holds roles, their member wallets, and their function grants.
// Grant validation consults the schema [Registry] so a granted mask can never
// exceed what the schema declares possible.
//
// After engine construction the directory is mutated only through
// [Directory.Apply], which the engine reaches via the governed batch workflow.
//
//	Docs: docs/permission.md
type Directory struct {
	registry *Registry

	mu      sync.RWMutex
	roles   map[RoleID]*roleState
	members map[common.Address]map[RoleID]struct{}
}

type roleState struct {
	name       string
	protected  bool
	maxWallets int
	wallets    map[common.Address]struct{}
	grants     map[Selector]FunctionPermission
}

// NewDirectory creates an empty role [Directory] validating grants against
// registry.
func NewDirectory(registry *Registry) *Directory {
	return &Directory{
		registry: registry,
		roles:    make(map[RoleID]*roleState),
		members:  make(map[common.Address]map[RoleID]struct{}),
	}
}

// CreateRole registers a new role and returns its derived ID.
func (d *Directory) CreateRole(name string, maxWallets int, protected bool) (RoleID, error) {
	if name == "" {
		return zeroRoleID, errors.New("role name cannot be empty")
	}
	if maxWallets <= 0 {
		return zeroRoleID, errors.New("role wallet capacity must be positive")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	id := RoleIDOf(name)
	if _, exists := d.roles[id]; exists {
		return zeroRoleID, ErrRoleExists
	}

	d.roles[id] = &roleState{
		name:       name,
		protected:  protected,
		maxWallets: maxWallets,
		wallets:    make(map[common.Address]struct{}),
		grants:     make(map[Selector]FunctionPermission),
	}
	return id, nil
}

// RemoveRole deletes an unprotected role together with its grants and members.
func (d *Directory) RemoveRole(id RoleID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	role, ok := d.roles[id]
	if !ok {
		return ErrRoleNotFound
	}
	if role.protected {
		return ErrProtectedRole
	}

	for wallet := range role.wallets {
		d.dropMembership(wallet, id)
	}
	delete(d.roles, id)
	return nil
}

// AddWallet adds a member wallet to a role.
func (d *Directory) AddWallet(id RoleID, wallet common.Address) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	role, ok := d.roles[id]
	if !ok {
		return ErrRoleNotFound
	}
	if _, exists := role.wallets[wallet]; exists {
		return ErrAlreadyMember
	}
	if len(role.wallets) >= role.maxWallets {
		return ErrRoleFull
	}

	role.wallets[wallet] = struct{}{}
	held, ok := d.members[wallet]
	if !ok {
		held = make(map[RoleID]struct{})
		d.members[wallet] = held
	}
	held[id] = struct{}{}
	return nil
}

// RevokeWallet removes a member wallet from a role. Removing the last member
// of a protected role fails with [ErrProtectedRoleUnderflow].
func (d *Directory) RevokeWallet(id RoleID, wallet common.Address) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	role, ok := d.roles[id]
	if !ok {
		return ErrRoleNotFound
	}
	if _, exists := role.wallets[wallet]; !exists {
		return ErrNotMember
	}
	if role.protected && len(role.wallets) == 1 {
		return ErrProtectedRoleUnderflow
	}

	delete(role.wallets, wallet)
	d.dropMembership(wallet, id)
	return nil
}

// Grant attaches a function permission to a role. The granted mask must be a
// subset of the schema's supported mask.
func (d *Directory) Grant(id RoleID, perm FunctionPermission) error {
	schema, ok := d.registry.Schema(perm.Selector)
	if !ok {
		return ErrUnknownSchema
	}
	if !perm.Granted.Subset(schema.Supported) {
		return ErrGrantBeyondSchema
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	role, ok := d.roles[id]
	if !ok {
		return ErrRoleNotFound
	}

	role.grants[perm.Selector] = perm.clone()
	return nil
}

// RevokeGrant detaches a function permission from a role.
func (d *Directory) RevokeGrant(id RoleID, selector Selector) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	role, ok := d.roles[id]
	if !ok {
		return ErrRoleNotFound
	}
	if _, exists := role.grants[selector]; !exists {
		return ErrGrantNotFound
	}

	delete(role.grants, selector)
	return nil
}

// Check reports whether the role's grant for selector contains action and the
// schema's supported mask also contains it. Defense in depth: a stale grant
// can never authorize beyond the current schema.
func (d *Directory) Check(id RoleID, selector Selector, action Action) bool {
	supported, ok := d.registry.Supported(selector)
	if !ok || !supported.Has(action) {
		return false
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	role, ok := d.roles[id]
	if !ok {
		return false
	}
	grant, ok := role.grants[selector]
	if !ok {
		return false
	}
	return grant.Granted.Has(action)
}

// HoldsAction reports whether any role held by wallet authorizes action on
// selector.
func (d *Directory) HoldsAction(wallet common.Address, selector Selector, action Action) bool {
	for _, id := range d.RolesOf(wallet) {
		if d.Check(id, selector, action) {
			return true
		}
	}
	return false
}

// RolesOf returns the role IDs wallet is a member of.
func (d *Directory) RolesOf(wallet common.Address) []RoleID {
	d.mu.RLock()
	defer d.mu.RUnlock()

	held, ok := d.members[wallet]
	if !ok {
		return nil
	}
	ids := make([]RoleID, 0, len(held))
	for id := range held {
		ids = append(ids, id)
	}
	return ids
}

// Role returns the public view of a role.
func (d *Directory) Role(id RoleID) (RoleInfo, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	role, ok := d.roles[id]
	if !ok {
		return RoleInfo{}, false
	}
	return RoleInfo{
		ID:          id,
		Name:        role.name,
		Protected:   role.protected,
		MaxWallets:  role.maxWallets,
		MemberCount: len(role.wallets),
	}, true
}

// Members returns the member wallets of a role.
func (d *Directory) Members(id RoleID) []common.Address {
	d.mu.RLock()
	defer d.mu.RUnlock()

	role, ok := d.roles[id]
	if !ok {
		return nil
	}
	wallets := make([]common.Address, 0, len(role.wallets))
	for w := range role.wallets {
		wallets = append(wallets, w)
	}
	return wallets
}

// IsMember reports whether wallet holds the role.
func (d *Directory) IsMember(id RoleID, wallet common.Address) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	role, ok := d.roles[id]
	if !ok {
		return false
	}
	_, exists := role.wallets[wallet]
	return exists
}

// Granted returns the function permission a role holds for selector.
func (d *Directory) Granted(id RoleID, selector Selector) (FunctionPermission, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	role, ok := d.roles[id]
	if !ok {
		return FunctionPermission{}, false
	}
	grant, ok := role.grants[selector]
	if !ok {
		return FunctionPermission{}, false
	}
	return grant.clone(), true
}

// RoleCount returns the number of roles.
func (d *Directory) RoleCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.roles)
}

func (d *Directory) dropMembership(wallet common.Address, id RoleID) {
	held, ok := d.members[wallet]
	if !ok {
		return
	}
	delete(held, id)
	if len(held) == 0 {
		delete(d.members, wallet)
	}
}
