package goTimelock

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/MrEthical07/goTimelock/ledger"
	"github.com/MrEthical07/goTimelock/metatx"
	"github.com/MrEthical07/goTimelock/permission"
)

// newMetaEngine adds a signer role holding the sign-side actions for the
// payment schema. The executors role from defaultSeeds holds the
// execute-side actions, so approverAddr doubles as the broadcaster.
func newMetaEngine(t *testing.T) (*Engine, *recordingExecutor, *fakeClock, *ecdsa.PrivateKey) {
	t.Helper()

	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}

	engine, exec, clock := newTestEngine(t, func(b *Builder) {
		b.WithRoles(RoleSeed{
			Name:       "signers",
			MaxWallets: 2,
			Members:    []common.Address{metatx.SignerOf(key)},
			Grants: []permission.FunctionPermission{{
				Selector: paySelector,
				Granted: permission.MaskOf(
					permission.ActionSignApprove,
					permission.ActionSignCancel,
					permission.ActionSignRequestApprove,
				),
			}},
		})
	})
	return engine, exec, clock, key
}

func signedApproval(t *testing.T, clock *fakeClock, key *ecdsa.PrivateKey, rec ledger.TxRecord, nonce uint64) metatx.MetaTransaction {
	t.Helper()

	mt := metatx.MetaTransaction{
		Params:   rec.Params,
		TxID:     rec.ID,
		Nonce:    nonce,
		Deadline: clock.unix + 600,
		ChainID:  1,
	}
	if err := metatx.Sign(&mt, key); err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	return mt
}

func TestApproveMetaBypassesTimeLock(t *testing.T) {
	engine, exec, clock, key := newMetaEngine(t)
	rec := mustRequest(t, engine)

	// No clock advance: the signed path skips the remaining wait.
	mt := signedApproval(t, clock, key, rec, 1)
	done, err := engine.ApproveMeta(context.Background(), approverAddr, mt)
	if err != nil {
		t.Fatalf("ApproveMeta failed: %v", err)
	}
	if done.Status != ledger.StatusExecuted {
		t.Fatalf("expected EXECUTED, got %s", done.Status)
	}
	if exec.calls != 1 {
		t.Fatal("executor should have run")
	}
	if counter(t, engine, MetricMetaApproved) != 1 {
		t.Fatal("expected meta_approved counter 1")
	}
}

func TestApproveMetaDualPermission(t *testing.T) {
	engine, _, clock, key := newMetaEngine(t)
	ctx := context.Background()
	rec := mustRequest(t, engine)
	mt := signedApproval(t, clock, key, rec, 1)

	// The broadcaster must independently hold the execute-side action.
	if _, err := engine.ApproveMeta(ctx, outsiderAddr, mt); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for unauthorized broadcaster, got %v", err)
	}

	// The failed authorization must not burn the nonce: the same envelope
	// still goes through with an authorized broadcaster.
	done, err := engine.ApproveMeta(ctx, approverAddr, mt)
	if err != nil {
		t.Fatalf("ApproveMeta after denied broadcast failed: %v", err)
	}
	if done.Status != ledger.StatusExecuted {
		t.Fatalf("expected EXECUTED, got %s", done.Status)
	}
}

func TestApproveMetaSignerMustHoldSignAction(t *testing.T) {
	engine, _, clock, _ := newMetaEngine(t)
	rec := mustRequest(t, engine)

	// A valid signature from a key outside the signer role.
	strangerKey, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}
	mt := signedApproval(t, clock, strangerKey, rec, 1)

	if _, err := engine.ApproveMeta(context.Background(), approverAddr, mt); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for unauthorized signer, got %v", err)
	}
	got, _ := engine.Tx(rec.ID)
	if got.Status != ledger.StatusPending {
		t.Fatal("record must stay pending after a denied signer")
	}
}

func TestApproveMetaReplayRejected(t *testing.T) {
	engine, _, clock, key := newMetaEngine(t)
	ctx := context.Background()
	rec := mustRequest(t, engine)
	mt := signedApproval(t, clock, key, rec, 1)

	if _, err := engine.ApproveMeta(ctx, approverAddr, mt); err != nil {
		t.Fatalf("first ApproveMeta failed: %v", err)
	}
	if _, err := engine.ApproveMeta(ctx, approverAddr, mt); !errors.Is(err, ErrReplayDetected) {
		t.Fatalf("expected ErrReplayDetected, got %v", err)
	}
	if counter(t, engine, MetricReplayDetected) != 1 {
		t.Fatal("expected replay_detected counter 1")
	}
}

func TestApproveMetaExpired(t *testing.T) {
	engine, _, clock, key := newMetaEngine(t)
	rec := mustRequest(t, engine)
	mt := signedApproval(t, clock, key, rec, 1)

	clock.advance(20 * time.Minute) // past the 600s deadline
	if _, err := engine.ApproveMeta(context.Background(), approverAddr, mt); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestApproveMetaWrongChain(t *testing.T) {
	engine, _, clock, key := newMetaEngine(t)
	rec := mustRequest(t, engine)

	mt := metatx.MetaTransaction{
		Params:   rec.Params,
		TxID:     rec.ID,
		Nonce:    1,
		Deadline: clock.unix + 600,
		ChainID:  999,
	}
	if err := metatx.Sign(&mt, key); err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	if _, err := engine.ApproveMeta(context.Background(), approverAddr, mt); !errors.Is(err, ErrWrongChain) {
		t.Fatalf("expected ErrWrongChain, got %v", err)
	}
}

func TestApproveMetaPayloadMismatchRejectsRecord(t *testing.T) {
	engine, exec, clock, key := newMetaEngine(t)
	rec := mustRequest(t, engine)

	// A legitimately signed envelope whose parameters differ from the
	// ledger record. The record is consumed as REJECTED.
	mismatched := rec
	mismatched.Params.GasLimit += 1
	mt := signedApproval(t, clock, key, mismatched, 1)

	done, err := engine.ApproveMeta(context.Background(), approverAddr, mt)
	if !errors.Is(err, ErrPayloadMismatch) {
		t.Fatalf("expected ErrPayloadMismatch, got %v", err)
	}
	if done.Status != ledger.StatusRejected {
		t.Fatalf("expected REJECTED, got %s", done.Status)
	}
	if exec.calls != 0 {
		t.Fatal("mismatched payload must not execute")
	}
	if engine.ledger.IsPending(rec.ID) {
		t.Fatal("rejected record must leave the pending set")
	}
}

func TestCancelMeta(t *testing.T) {
	engine, exec, clock, key := newMetaEngine(t)
	rec := mustRequest(t, engine)

	mt := signedApproval(t, clock, key, rec, 1)
	done, err := engine.CancelMeta(context.Background(), approverAddr, mt)
	if err != nil {
		t.Fatalf("CancelMeta failed: %v", err)
	}
	if done.Status != ledger.StatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", done.Status)
	}
	if exec.calls != 0 {
		t.Fatal("cancellation must not execute anything")
	}
	if counter(t, engine, MetricMetaCancelled) != 1 {
		t.Fatal("expected meta_cancelled counter 1")
	}
}

func TestRequestAndApproveMeta(t *testing.T) {
	engine, exec, clock, key := newMetaEngine(t)

	params := paymentParams()
	params.OperationType = payOperation
	mt := metatx.MetaTransaction{
		Params:   params,
		TxID:     0,
		Nonce:    7,
		Deadline: clock.unix + 600,
		ChainID:  1,
	}
	if err := metatx.Sign(&mt, key); err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	done, err := engine.RequestAndApproveMeta(context.Background(), approverAddr, mt)
	if err != nil {
		t.Fatalf("RequestAndApproveMeta failed: %v", err)
	}
	if done.Status != ledger.StatusExecuted {
		t.Fatalf("expected EXECUTED, got %s", done.Status)
	}
	if done.Params.Requester != metatx.SignerOf(key) {
		t.Fatal("zero requester must be filled with the recovered signer")
	}
	if exec.calls != 1 {
		t.Fatal("executor should have run once")
	}
	if counter(t, engine, MetricMetaRequestApproved) != 1 {
		t.Fatal("expected meta_request_approved counter 1")
	}
}

func TestRequestAndApproveMetaRejectsNonZeroTxID(t *testing.T) {
	engine, _, clock, key := newMetaEngine(t)
	rec := mustRequest(t, engine)

	mt := signedApproval(t, clock, key, rec, 1)
	if _, err := engine.RequestAndApproveMeta(context.Background(), approverAddr, mt); !errors.Is(err, ErrPayloadMismatch) {
		t.Fatalf("expected ErrPayloadMismatch for non-zero tx id, got %v", err)
	}
}

func TestRequestAndApproveMetaSchemaValidation(t *testing.T) {
	engine, _, clock, key := newMetaEngine(t)
	ctx := context.Background()

	params := paymentParams()
	params.FunctionSelector = permission.SelectorOf("missing(bytes)")
	mt := metatx.MetaTransaction{Params: params, Nonce: 1, Deadline: clock.unix + 600, ChainID: 1}
	if err := metatx.Sign(&mt, key); err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if _, err := engine.RequestAndApproveMeta(ctx, approverAddr, mt); !errors.Is(err, ErrUnknownSchema) {
		t.Fatalf("expected ErrUnknownSchema, got %v", err)
	}

	params = paymentParams()
	params.OperationType = permission.OperationTypeOf("OTHER")
	mt = metatx.MetaTransaction{Params: params, Nonce: 2, Deadline: clock.unix + 600, ChainID: 1}
	if err := metatx.Sign(&mt, key); err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if _, err := engine.RequestAndApproveMeta(ctx, approverAddr, mt); !errors.Is(err, ErrPayloadMismatch) {
		t.Fatalf("expected ErrPayloadMismatch, got %v", err)
	}
}

func TestRequestAndApproveMetaWhitelistDenialLeavesNoState(t *testing.T) {
	engine, exec, clock, key := newMetaEngine(t)
	ctx := context.Background()

	// No whitelist wired: the external target must be denied before any
	// record is created or the nonce consumed.
	params := paymentParams()
	params.OperationType = payOperation
	params.Target = targetAddr
	mt := metatx.MetaTransaction{Params: params, Nonce: 11, Deadline: clock.unix + 600, ChainID: 1}
	if err := metatx.Sign(&mt, key); err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	if _, err := engine.RequestAndApproveMeta(ctx, approverAddr, mt); !errors.Is(err, ErrTargetNotWhitelisted) {
		t.Fatalf("expected ErrTargetNotWhitelisted, got %v", err)
	}
	if len(engine.PendingTransactions()) != 0 {
		t.Fatal("denied request-and-approve must not create a ledger record")
	}
	if exec.calls != 0 {
		t.Fatal("executor must not run on a denied dispatch")
	}

	// The very same envelope must still be valid once the target is allowed,
	// proving the denial did not burn the signer's nonce.
	wl := NewStaticWhitelist()
	wl.Allow(payExecutor, targetAddr)
	engine.whitelist = wl

	done, err := engine.RequestAndApproveMeta(ctx, approverAddr, mt)
	if err != nil {
		t.Fatalf("resubmission after whitelisting failed: %v", err)
	}
	if done.Status != ledger.StatusExecuted {
		t.Fatalf("expected EXECUTED, got %s", done.Status)
	}
	if exec.calls != 1 {
		t.Fatal("executor should have run once after whitelisting")
	}
}

func TestRequestAndApproveMetaNoExecutorLeavesNoState(t *testing.T) {
	engine, _, clock, key := newMetaEngine(t)
	delete(engine.executors, payExecutor)

	params := paymentParams()
	params.OperationType = payOperation
	mt := metatx.MetaTransaction{Params: params, Nonce: 12, Deadline: clock.unix + 600, ChainID: 1}
	if err := metatx.Sign(&mt, key); err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	if _, err := engine.RequestAndApproveMeta(context.Background(), approverAddr, mt); !errors.Is(err, ErrNoExecutor) {
		t.Fatalf("expected ErrNoExecutor, got %v", err)
	}
	if len(engine.PendingTransactions()) != 0 {
		t.Fatal("missing executor must abort before any ledger record exists")
	}
}
