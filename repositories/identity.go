package repositories

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

var (
	identityPrefix = []byte("identity:")
	privateKeyKey  = []byte("identity:private_key")
	nicknameKey    = []byte("identity:nickname")
)

// IdentityRepository keeps what makes a node recognisable across restarts:
// its transport private key and the last nickname used.
type IdentityRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewIdentityRepository(db *badger.DB, log *slog.Logger) *IdentityRepository {
	return &IdentityRepository{db: db, log: log}
}

// LoadOrCreateKey returns the stored private key, generating and storing one on first use.
// The key is opaque bytes, marshalled by the transport that owns it.
func (r *IdentityRepository) LoadOrCreateKey(generate func() ([]byte, error)) ([]byte, error) {
	key, found, err := r.get(privateKeyKey)
	if err != nil {
		return nil, err
	}
	if found {
		return key, nil
	}

	key, err = generate()
	if err != nil {
		return nil, fmt.Errorf("generate private key: %w", err)
	}
	if err := r.set(privateKeyKey, key); err != nil {
		return nil, err
	}
	r.log.Info("New node identity created")
	return key, nil
}

// ResolveNickname picks the local display name: the configured one, else the
// last one used, else a fresh "Village-xxxx". The result is remembered.
func (r *IdentityRepository) ResolveNickname(configured string) (string, error) {
	if configured != "" {
		return configured, r.set(nicknameKey, []byte(configured))
	}

	stored, found, err := r.get(nicknameKey)
	if err != nil {
		return "", err
	}
	if found && len(stored) > 0 {
		return string(stored), nil
	}

	nickname := "Village-" + uuid.NewString()[:4]
	return nickname, r.set(nicknameKey, []byte(nickname))
}

// IdentityEntry describes one stored identity record without exposing secrets.
type IdentityEntry struct {
	Key   string
	Size  int
	Value string
}

// Entries lists every identity record. The private key value is never returned.
func (r *IdentityRepository) Entries() ([]IdentityEntry, error) {
	var entries []IdentityEntry
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(identityPrefix); it.ValidForPrefix(identityPrefix); it.Next() {
			item := it.Item()
			entry := IdentityEntry{Key: string(item.KeyCopy(nil)), Size: int(item.ValueSize())}
			if !bytes.Equal(item.Key(), privateKeyKey) {
				value, err := item.ValueCopy(nil)
				if err != nil {
					return err
				}
				entry.Value = string(value)
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan identity: %w", err)
	}
	return entries, nil
}

func (r *IdentityRepository) get(key []byte) ([]byte, bool, error) {
	var value []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return value, true, nil
}

func (r *IdentityRepository) set(key, value []byte) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
