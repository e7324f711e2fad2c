package permission

import (
	"github.com/ethereum/go-ethereum/crypto"
)

// Selector is a fixed-width function entry-point identifier.
type Selector [4]byte

// OperationType tags the governance category a function belongs to.
type OperationType [32]byte

// RoleID identifies a role. IDs are derived from the role name, so a batch
// can reference a role created earlier in the same batch.
type RoleID [32]byte

var (
	zeroSelector Selector
	zeroRoleID   RoleID
)

// SelectorOf derives a selector from a function signature string, taking the
// first four bytes of its keccak256 hash.
func SelectorOf(signature string) Selector {
	var s Selector
	copy(s[:], crypto.Keccak256([]byte(signature))[:4])
	return s
}

// OperationTypeOf derives an operation type tag from a name.
func OperationTypeOf(name string) OperationType {
	return OperationType(crypto.Keccak256Hash([]byte(name)))
}

// RoleIDOf derives the role ID for a role name.
func RoleIDOf(name string) RoleID {
	return RoleID(crypto.Keccak256Hash([]byte(name)))
}

// IsZero reports whether s is the empty selector.
func (s Selector) IsZero() bool {
	return s == zeroSelector
}

// FunctionSchema declares an entry point and the actions it supports.
//
// FunctionSchema instances are registered during initialization or through the
// governed registration workflow and are treated as immutable while protected.
type FunctionSchema struct {
	Selector      Selector
	Name          string
	OperationType OperationType
	Supported     Mask16
	Protected     bool
	// HandlerFor lists the execution selectors this handler is permitted to
	// invoke when one of its transactions is approved.
	HandlerFor []Selector
}

// PermitsExecution reports whether exec is among the schema's handler-for set.
func (s *FunctionSchema) PermitsExecution(exec Selector) bool {
	for _, h := range s.HandlerFor {
		if h == exec {
			return true
		}
	}
	return false
}

func (s *FunctionSchema) clone() *FunctionSchema {
	dup := *s
	dup.HandlerFor = append([]Selector(nil), s.HandlerFor...)
	return &dup
}

// FunctionPermission is an edge from a role to a function selector, granting a
// subset of the schema's supported actions.
type FunctionPermission struct {
	Selector   Selector
	Granted    Mask16
	HandlerFor []Selector
}

func (p FunctionPermission) clone() FunctionPermission {
	p.HandlerFor = append([]Selector(nil), p.HandlerFor...)
	return p
}

// RoleInfo is the public view of a role. Member wallets are exposed through
// [Directory.Members].
type RoleInfo struct {
	ID          RoleID
	Name        string
	Protected   bool
	MaxWallets  int
	MemberCount int
}
