package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Archive is a Redis write-through copy of terminal records. The engine feeds
// it after every terminal transition; a write failure propagates and the
// transition is rolled back, so the archive never trails the ledger.
type Archive struct {
	redis  redis.UniversalClient
	prefix string
}

// NewArchive creates an [Archive] on the given client. prefix defaults to "txl".
func NewArchive(redisClient redis.UniversalClient, prefix string) *Archive {
	if prefix == "" {
		prefix = "txl"
	}
	return &Archive{
		redis:  redisClient,
		prefix: prefix,
	}
}

func (a *Archive) key(id TxID) string {
	return a.prefix + ":" + strconv.FormatUint(uint64(id), 10)
}

// Put persists a terminal record. Records are keyed by id with no TTL; a
// later terminal transition for the same id (executed rewritten to rejected)
// overwrites the earlier copy.
func (a *Archive) Put(ctx context.Context, rec TxRecord) error {
	encoded, err := EncodeRecord(&rec)
	if err != nil {
		return err
	}
	if err := a.redis.Set(ctx, a.key(rec.ID), encoded, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrArchiveUnavailable, err)
	}
	return nil
}

// Get loads an archived record.
func (a *Archive) Get(ctx context.Context, id TxID) (TxRecord, error) {
	data, err := a.redis.Get(ctx, a.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return TxRecord{}, ErrNotFound
		}
		return TxRecord{}, fmt.Errorf("%w: %v", ErrArchiveUnavailable, err)
	}

	rec, err := DecodeRecord(data)
	if err != nil {
		return TxRecord{}, err
	}
	return *rec, nil
}
