package ledger

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
)

// StorageKey is the key the serialized booking array lives under.
const StorageKey = "ticketmaster-bookings"

// Record is one row of the durable key/value table backing the ledger.
type Record struct {
	bun.BaseModel `bun:"table:kv_store"`

	Key   string `bun:"key,pk"`
	Value []byte `bun:"value"`
}

// Store is the durable key/value layer the ledger serializes into.
type Store interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
}

// ErrKeyNotFound reports an absent key; the ledger treats it as empty.
var ErrKeyNotFound = errors.New("ledger: key not found")

type DB struct {
	Bun *bun.DB
}

// Init creates the key/value table if it does not exist yet.
func (d *DB) Init() error {
	_, err := d.Bun.NewCreateTable().
		Model((*Record)(nil)).
		IfNotExists().
		Exec(context.Background())
	return err
}

func (d *DB) Get(key string) ([]byte, error) {
	var rec Record
	err := d.Bun.NewSelect().
		Model(&rec).
		Where("key = ?", key).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec.Value, nil
}

func (d *DB) Put(key string, value []byte) error {
	rec := Record{Key: key, Value: value}
	_, err := d.Bun.NewInsert().
		Model(&rec).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(context.Background())
	return err
}
