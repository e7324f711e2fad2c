package metatx

import (
	"context"
	"encoding/hex"
	"fmt"
	"strconv"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goTimelock/permission"
)

// NonceStore tracks consumed nonces per signer/selector pair.
type NonceStore interface {
	Used(ctx context.Context, signer common.Address, selector permission.Selector, nonce uint64) (bool, error)
	Consume(ctx context.Context, signer common.Address, selector permission.Selector, nonce uint64) error
}

func nonceKey(signer common.Address, selector permission.Selector, nonce uint64) string {
	return hex.EncodeToString(signer[:]) + ":" + hex.EncodeToString(selector[:]) + ":" + strconv.FormatUint(nonce, 10)
}

// MemoryNonceStore is the default in-process [NonceStore].
type MemoryNonceStore struct {
	mu   sync.RWMutex
	used map[string]struct{}
}

func NewMemoryNonceStore() *MemoryNonceStore {
	return &MemoryNonceStore{
		used: make(map[string]struct{}),
	}
}

func (s *MemoryNonceStore) Used(_ context.Context, signer common.Address, selector permission.Selector, nonce uint64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.used[nonceKey(signer, selector, nonce)]
	return ok, nil
}

func (s *MemoryNonceStore) Consume(_ context.Context, signer common.Address, selector permission.Selector, nonce uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := nonceKey(signer, selector, nonce)
	if _, ok := s.used[key]; ok {
		return ErrReplayDetected
	}
	s.used[key] = struct{}{}
	return nil
}

// RedisNonceStore is a Redis-backed [NonceStore] for deployments where several
// engine instances share replay state.
type RedisNonceStore struct {
	redis  redis.UniversalClient
	prefix string
}

// NewRedisNonceStore creates a [RedisNonceStore]. prefix defaults to "mtn".
func NewRedisNonceStore(redisClient redis.UniversalClient, prefix string) *RedisNonceStore {
	if prefix == "" {
		prefix = "mtn"
	}
	return &RedisNonceStore{
		redis:  redisClient,
		prefix: prefix,
	}
}

func (s *RedisNonceStore) key(signer common.Address, selector permission.Selector, nonce uint64) string {
	return s.prefix + ":" + nonceKey(signer, selector, nonce)
}

func (s *RedisNonceStore) Used(ctx context.Context, signer common.Address, selector permission.Selector, nonce uint64) (bool, error) {
	n, err := s.redis.Exists(ctx, s.key(signer, selector, nonce)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrNonceUnavailable, err)
	}
	return n > 0, nil
}

func (s *RedisNonceStore) Consume(ctx context.Context, signer common.Address, selector permission.Selector, nonce uint64) error {
	ok, err := s.redis.SetNX(ctx, s.key(signer, selector, nonce), 1, 0).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNonceUnavailable, err)
	}
	if !ok {
		return ErrReplayDetected
	}
	return nil
}
