package goTimelock

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/MrEthical07/goTimelock/permission"
)

// StaticWhitelist is a fixed in-memory [TargetWhitelist], convenient for
// assemblies that do not bring their own whitelist storage.
type StaticWhitelist struct {
	mu      sync.RWMutex
	allowed map[permission.Selector]map[common.Address]struct{}
}

func NewStaticWhitelist() *StaticWhitelist {
	return &StaticWhitelist{
		allowed: make(map[permission.Selector]map[common.Address]struct{}),
	}
}

// Allow whitelists target for selector.
func (w *StaticWhitelist) Allow(selector permission.Selector, target common.Address) {
	w.mu.Lock()
	defer w.mu.Unlock()

	targets, ok := w.allowed[selector]
	if !ok {
		targets = make(map[common.Address]struct{})
		w.allowed[selector] = targets
	}
	targets[target] = struct{}{}
}

// Allowed reports whether target is whitelisted for selector. A selector with
// no entries denies everything.
func (w *StaticWhitelist) Allowed(selector permission.Selector, target common.Address) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	targets, ok := w.allowed[selector]
	if !ok {
		return false
	}
	_, ok = targets[target]
	return ok
}
