package permission

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

var (
	walletA = common.HexToAddress("0x0000000000000000000000000000000000000001")
	walletB = common.HexToAddress("0x0000000000000000000000000000000000000002")
	walletC = common.HexToAddress("0x0000000000000000000000000000000000000003")
)

func newTestDirectory(t *testing.T) (*Directory, FunctionSchema) {
	t.Helper()

	registry := NewRegistry()
	schema := testSchema("withdraw", false)
	if err := registry.Register(schema); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return NewDirectory(registry), schema
}

func TestCreateRole(t *testing.T) {
	d, _ := newTestDirectory(t)

	id, err := d.CreateRole("treasurer", 2, false)
	if err != nil {
		t.Fatalf("CreateRole failed: %v", err)
	}
	if id != RoleIDOf("treasurer") {
		t.Fatal("role id should be derived from the name")
	}

	if _, err := d.CreateRole("treasurer", 5, false); !errors.Is(err, ErrRoleExists) {
		t.Fatalf("expected ErrRoleExists, got %v", err)
	}
	if _, err := d.CreateRole("", 2, false); err == nil {
		t.Fatal("empty name should be rejected")
	}
	if _, err := d.CreateRole("ops", 0, false); err == nil {
		t.Fatal("zero capacity should be rejected")
	}

	info, ok := d.Role(id)
	if !ok || info.Name != "treasurer" || info.MaxWallets != 2 || info.MemberCount != 0 {
		t.Fatalf("unexpected role info: %+v", info)
	}
}

func TestWalletMembershipAndCapacity(t *testing.T) {
	d, _ := newTestDirectory(t)
	id, _ := d.CreateRole("ops", 1, false)

	if err := d.AddWallet(id, walletA); err != nil {
		t.Fatalf("AddWallet failed: %v", err)
	}
	if err := d.AddWallet(id, walletA); !errors.Is(err, ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}
	if err := d.AddWallet(id, walletB); !errors.Is(err, ErrRoleFull) {
		t.Fatalf("expected ErrRoleFull, got %v", err)
	}

	// Capacity frees up once the incumbent leaves.
	if err := d.RevokeWallet(id, walletA); err != nil {
		t.Fatalf("RevokeWallet failed: %v", err)
	}
	if err := d.AddWallet(id, walletB); err != nil {
		t.Fatalf("AddWallet after revoke failed: %v", err)
	}

	if d.IsMember(id, walletA) {
		t.Fatal("walletA should no longer be a member")
	}
	if !d.IsMember(id, walletB) {
		t.Fatal("walletB should be a member")
	}
	if err := d.RevokeWallet(id, walletC); !errors.Is(err, ErrNotMember) {
		t.Fatalf("expected ErrNotMember, got %v", err)
	}
}

func TestProtectedRoleInvariants(t *testing.T) {
	d, _ := newTestDirectory(t)
	id, _ := d.CreateRole("govern", 3, true)
	if err := d.AddWallet(id, walletA); err != nil {
		t.Fatalf("AddWallet failed: %v", err)
	}

	if err := d.RemoveRole(id); !errors.Is(err, ErrProtectedRole) {
		t.Fatalf("expected ErrProtectedRole, got %v", err)
	}
	if err := d.RevokeWallet(id, walletA); !errors.Is(err, ErrProtectedRoleUnderflow) {
		t.Fatalf("expected ErrProtectedRoleUnderflow, got %v", err)
	}

	// With a second member the first may leave.
	if err := d.AddWallet(id, walletB); err != nil {
		t.Fatalf("AddWallet failed: %v", err)
	}
	if err := d.RevokeWallet(id, walletA); err != nil {
		t.Fatalf("RevokeWallet with remaining member failed: %v", err)
	}
}

func TestGrantSubsetEnforcement(t *testing.T) {
	d, schema := newTestDirectory(t)
	id, _ := d.CreateRole("ops", 2, false)

	beyond := FunctionPermission{
		Selector: schema.Selector,
		Granted:  MaskOf(ActionRequest, ActionSignApprove),
	}
	if err := d.Grant(id, beyond); !errors.Is(err, ErrGrantBeyondSchema) {
		t.Fatalf("expected ErrGrantBeyondSchema, got %v", err)
	}

	unknown := FunctionPermission{
		Selector: SelectorOf("missing(bytes)"),
		Granted:  MaskOf(ActionRequest),
	}
	if err := d.Grant(id, unknown); !errors.Is(err, ErrUnknownSchema) {
		t.Fatalf("expected ErrUnknownSchema, got %v", err)
	}

	good := FunctionPermission{
		Selector: schema.Selector,
		Granted:  MaskOf(ActionRequest, ActionCancel),
	}
	if err := d.Grant(id, good); err != nil {
		t.Fatalf("Grant failed: %v", err)
	}
	if !d.Check(id, schema.Selector, ActionRequest) {
		t.Fatal("granted action should check true")
	}
	if d.Check(id, schema.Selector, ActionApprove) {
		t.Fatal("ungranted action should check false")
	}
}

func TestCheckReconsultsSchema(t *testing.T) {
	registry := NewRegistry()
	schema := testSchema("withdraw", false)
	if err := registry.Register(schema); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	d := NewDirectory(registry)
	id, _ := d.CreateRole("ops", 2, false)
	if err := d.Grant(id, FunctionPermission{Selector: schema.Selector, Granted: MaskOf(ActionApprove)}); err != nil {
		t.Fatalf("Grant failed: %v", err)
	}

	// Narrow the schema after the grant; the stale grant must stop authorizing.
	schema.Supported = MaskOf(ActionRequest)
	if err := registry.Register(schema); err != nil {
		t.Fatalf("re-register failed: %v", err)
	}
	if d.Check(id, schema.Selector, ActionApprove) {
		t.Fatal("check must respect the current schema, not the grant alone")
	}
}

func TestHoldsActionAcrossRoles(t *testing.T) {
	d, schema := newTestDirectory(t)
	first, _ := d.CreateRole("requesters", 2, false)
	second, _ := d.CreateRole("cancellers", 2, false)

	if err := d.Grant(first, FunctionPermission{Selector: schema.Selector, Granted: MaskOf(ActionRequest)}); err != nil {
		t.Fatalf("Grant failed: %v", err)
	}
	if err := d.Grant(second, FunctionPermission{Selector: schema.Selector, Granted: MaskOf(ActionCancel)}); err != nil {
		t.Fatalf("Grant failed: %v", err)
	}
	if err := d.AddWallet(first, walletA); err != nil {
		t.Fatalf("AddWallet failed: %v", err)
	}
	if err := d.AddWallet(second, walletA); err != nil {
		t.Fatalf("AddWallet failed: %v", err)
	}

	if !d.HoldsAction(walletA, schema.Selector, ActionRequest) {
		t.Fatal("request should come from the first role")
	}
	if !d.HoldsAction(walletA, schema.Selector, ActionCancel) {
		t.Fatal("cancel should come from the second role")
	}
	if d.HoldsAction(walletA, schema.Selector, ActionApprove) {
		t.Fatal("approve was never granted")
	}
	if d.HoldsAction(walletB, schema.Selector, ActionRequest) {
		t.Fatal("non-member holds nothing")
	}

	if got := len(d.RolesOf(walletA)); got != 2 {
		t.Fatalf("expected membership in 2 roles, got %d", got)
	}
}

func TestRemoveRoleCleansMembership(t *testing.T) {
	d, _ := newTestDirectory(t)
	id, _ := d.CreateRole("ops", 2, false)
	if err := d.AddWallet(id, walletA); err != nil {
		t.Fatalf("AddWallet failed: %v", err)
	}

	if err := d.RemoveRole(id); err != nil {
		t.Fatalf("RemoveRole failed: %v", err)
	}
	if got := d.RolesOf(walletA); len(got) != 0 {
		t.Fatalf("expected no residual memberships, got %v", got)
	}
	if d.RoleCount() != 0 {
		t.Fatalf("expected no roles, got %d", d.RoleCount())
	}
	if err := d.RemoveRole(id); !errors.Is(err, ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}

func TestGrantRevocation(t *testing.T) {
	d, schema := newTestDirectory(t)
	id, _ := d.CreateRole("ops", 2, false)
	perm := FunctionPermission{Selector: schema.Selector, Granted: MaskOf(ActionRequest)}
	if err := d.Grant(id, perm); err != nil {
		t.Fatalf("Grant failed: %v", err)
	}

	if _, ok := d.Granted(id, schema.Selector); !ok {
		t.Fatal("expected grant to be visible")
	}
	if err := d.RevokeGrant(id, schema.Selector); err != nil {
		t.Fatalf("RevokeGrant failed: %v", err)
	}
	if err := d.RevokeGrant(id, schema.Selector); !errors.Is(err, ErrGrantNotFound) {
		t.Fatalf("expected ErrGrantNotFound, got %v", err)
	}
	if d.Check(id, schema.Selector, ActionRequest) {
		t.Fatal("revoked grant should not authorize")
	}
}
