package permission

import (
	"errors"
	"testing"
)

func TestApplyBatchAllOrNothing(t *testing.T) {
	d, schema := newTestDirectory(t)
	opsID := RoleIDOf("ops")

	batch := NewBatch(
		BatchEntry{Action: BatchCreateRole, Name: "ops", MaxWallets: 2},
		BatchEntry{Action: BatchAddWallet, Role: opsID, Wallet: walletA},
		BatchEntry{Action: BatchGrantFunction, Role: opsID, Permission: FunctionPermission{
			Selector: schema.Selector,
			Granted:  MaskOf(ActionRequest, ActionApprove),
		}},
	)

	if err := d.Apply(batch); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !d.IsMember(opsID, walletA) {
		t.Fatal("wallet should be a member after the batch")
	}
	if !d.Check(opsID, schema.Selector, ActionApprove) {
		t.Fatal("grant should be active after the batch")
	}
}

func TestApplyBatchAbortLeavesDirectoryUntouched(t *testing.T) {
	d, schema := newTestDirectory(t)
	opsID := RoleIDOf("ops")

	bad := NewBatch(
		BatchEntry{Action: BatchCreateRole, Name: "ops", MaxWallets: 2},
		BatchEntry{Action: BatchAddWallet, Role: opsID, Wallet: walletA},
		// Third entry exceeds the schema's supported mask: the whole batch
		// must abort, including the two entries that already succeeded.
		BatchEntry{Action: BatchGrantFunction, Role: opsID, Permission: FunctionPermission{
			Selector: schema.Selector,
			Granted:  MaskOf(ActionSignApprove),
		}},
	)

	err := d.Apply(bad)
	if !errors.Is(err, ErrBatchAborted) {
		t.Fatalf("expected ErrBatchAborted, got %v", err)
	}
	if !errors.Is(err, ErrGrantBeyondSchema) {
		t.Fatalf("expected wrapped ErrGrantBeyondSchema, got %v", err)
	}
	if _, ok := d.Role(opsID); ok {
		t.Fatal("aborted batch must not leave the created role behind")
	}
	if d.RoleCount() != 0 {
		t.Fatalf("expected empty directory, got %d roles", d.RoleCount())
	}
}

func TestApplyEmptyBatchRejected(t *testing.T) {
	d, _ := newTestDirectory(t)
	if err := d.Apply(NewBatch()); !errors.Is(err, ErrBatchAborted) {
		t.Fatalf("expected ErrBatchAborted for empty batch, got %v", err)
	}
}

func TestApplyBatchOrderMatters(t *testing.T) {
	d, _ := newTestDirectory(t)
	opsID := RoleIDOf("ops")

	// AddWallet before CreateRole must fail: entries run strictly in order.
	reversed := NewBatch(
		BatchEntry{Action: BatchAddWallet, Role: opsID, Wallet: walletA},
		BatchEntry{Action: BatchCreateRole, Name: "ops", MaxWallets: 2},
	)
	if err := d.Apply(reversed); !errors.Is(err, ErrRoleNotFound) {
		t.Fatalf("expected wrapped ErrRoleNotFound, got %v", err)
	}
}

func TestApplyBatchUnknownAction(t *testing.T) {
	d, _ := newTestDirectory(t)
	batch := NewBatch(BatchEntry{Action: BatchAction(99)})
	if err := d.Apply(batch); !errors.Is(err, ErrBatchAborted) {
		t.Fatalf("expected ErrBatchAborted, got %v", err)
	}
}

func TestBatchCodecRoundTrip(t *testing.T) {
	schemaSel := SelectorOf("withdraw(bytes)")
	batch := NewBatch(
		BatchEntry{Action: BatchCreateRole, Name: "ops", MaxWallets: 4, Protected: true},
		BatchEntry{Action: BatchAddWallet, Role: RoleIDOf("ops"), Wallet: walletB},
		BatchEntry{Action: BatchGrantFunction, Role: RoleIDOf("ops"), Permission: FunctionPermission{
			Selector:   schemaSel,
			Granted:    MaskOf(ActionRequest, ActionExecuteApprove),
			HandlerFor: []Selector{SelectorOf("exec(bytes)")},
		}},
		BatchEntry{Action: BatchRevokeFunction, Role: RoleIDOf("ops"), Permission: FunctionPermission{
			Selector: schemaSel,
		}},
	)

	data, err := EncodeBatch(batch)
	if err != nil {
		t.Fatalf("EncodeBatch failed: %v", err)
	}

	decoded, err := DecodeBatch(data)
	if err != nil {
		t.Fatalf("DecodeBatch failed: %v", err)
	}
	if decoded.ID != batch.ID {
		t.Fatalf("batch id mismatch: %s vs %s", decoded.ID, batch.ID)
	}
	if len(decoded.Entries) != len(batch.Entries) {
		t.Fatalf("expected %d entries, got %d", len(batch.Entries), len(decoded.Entries))
	}
	for i, entry := range batch.Entries {
		got := decoded.Entries[i]
		if got.Action != entry.Action || got.Role != entry.Role || got.Name != entry.Name ||
			got.MaxWallets != entry.MaxWallets || got.Protected != entry.Protected ||
			got.Wallet != entry.Wallet || got.Permission.Selector != entry.Permission.Selector ||
			got.Permission.Granted != entry.Permission.Granted {
			t.Fatalf("entry %d mismatch:\n got %+v\nwant %+v", i, got, entry)
		}
	}
}

func TestDecodeBatchRejectsGarbage(t *testing.T) {
	if _, err := DecodeBatch(nil); err == nil {
		t.Fatal("nil input should fail")
	}
	if _, err := DecodeBatch([]byte{0xFF, 0x01}); err == nil {
		t.Fatal("unknown version should fail")
	}

	batch := NewBatch(BatchEntry{Action: BatchCreateRole, Name: "ops", MaxWallets: 1})
	data, err := EncodeBatch(batch)
	if err != nil {
		t.Fatalf("EncodeBatch failed: %v", err)
	}
	if _, err := DecodeBatch(data[:len(data)-1]); err == nil {
		t.Fatal("truncated input should fail")
	}
	if _, err := DecodeBatch(append(data, 0x00)); err == nil {
		t.Fatal("trailing bytes should fail")
	}
}
