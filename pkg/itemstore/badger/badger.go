package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/marmos91/sharefs/pkg/itemstore"
	"github.com/marmos91/sharefs/pkg/sharefile"
)

// Key layout:
//
//	i:<id>              -> JSON-encoded sharefile.Item (no children)
//	c:<parent>:<child>  -> empty; child index for ListChildren prefix scans
const (
	prefixItem  = "i:"
	prefixChild = "c:"
)

func keyItem(id string) []byte {
	return []byte(prefixItem + id)
}

func keyChildPrefix(parentID string) []byte {
	return []byte(prefixChild + parentID + ":")
}

func keyChild(parentID, id string) []byte {
	return append(keyChildPrefix(parentID), id...)
}

// BadgerItemStore persists items in an embedded BadgerDB.
//
// Survives restarts, so a sandbox tree can be reused across CLI invocations.
type BadgerItemStore struct {
	db *badgerdb.DB
}

// BadgerItemStoreConfig configures the store.
type BadgerItemStoreConfig struct {
	// DBPath is the database directory. Created if missing.
	DBPath string

	// InMemory runs Badger without touching disk. DBPath is ignored.
	InMemory bool

	// BadgerOptions overrides every other setting when non-nil.
	BadgerOptions *badgerdb.Options
}

// NewBadgerItemStore opens (or creates) the database.
func NewBadgerItemStore(ctx context.Context, config BadgerItemStoreConfig) (*BadgerItemStore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var opts badgerdb.Options
	switch {
	case config.BadgerOptions != nil:
		opts = *config.BadgerOptions
	case config.InMemory:
		opts = badgerdb.DefaultOptions("").WithInMemory(true)
	default:
		if config.DBPath == "" {
			return nil, fmt.Errorf("badger item store: db path is required")
		}
		opts = badgerdb.DefaultOptions(config.DBPath)
	}

	// Item records are small JSON documents; compression does not pay off.
	opts = opts.WithLoggingLevel(badgerdb.WARNING).WithCompression(options.None)

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB at %s: %w", config.DBPath, err)
	}

	return &BadgerItemStore{db: db}, nil
}

func getItemTxn(txn *badgerdb.Txn, id string) (*sharefile.Item, error) {
	entry, err := txn.Get(keyItem(id))
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return nil, fmt.Errorf("item %s: %w", id, itemstore.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	var item sharefile.Item
	err = entry.Value(func(val []byte) error {
		return json.Unmarshal(val, &item)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decode item %s: %w", id, err)
	}
	return &item, nil
}

func (s *BadgerItemStore) GetItem(ctx context.Context, id string) (*sharefile.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var item *sharefile.Item
	err := s.db.View(func(txn *badgerdb.Txn) error {
		var err error
		item, err = getItemTxn(txn, id)
		return err
	})
	return item, err
}

func (s *BadgerItemStore) PutItem(ctx context.Context, item *sharefile.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if item == nil || item.ID == "" {
		return fmt.Errorf("item id is required")
	}

	data, err := json.Marshal(itemstore.Strip(item))
	if err != nil {
		return fmt.Errorf("failed to encode item %s: %w", item.ID, err)
	}

	return s.db.Update(func(txn *badgerdb.Txn) error {
		old, err := getItemTxn(txn, item.ID)
		switch {
		case err == nil:
			if old.ParentID != item.ParentID && old.ParentID != "" {
				if err := txn.Delete(keyChild(old.ParentID, old.ID)); err != nil {
					return err
				}
			}
		case !errors.Is(err, itemstore.ErrNotFound):
			return err
		}

		if err := txn.Set(keyItem(item.ID), data); err != nil {
			return err
		}
		if item.ParentID != "" {
			return txn.Set(keyChild(item.ParentID, item.ID), nil)
		}
		return nil
	})
}

func (s *BadgerItemStore) DeleteItem(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badgerdb.Txn) error {
		item, err := getItemTxn(txn, id)
		if err != nil {
			return err
		}
		if item.ParentID != "" {
			if err := txn.Delete(keyChild(item.ParentID, id)); err != nil {
				return err
			}
		}
		return txn.Delete(keyItem(id))
	})
}

func (s *BadgerItemStore) ListChildren(ctx context.Context, parentID string) ([]*sharefile.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]*sharefile.Item, 0)
	err := s.db.View(func(txn *badgerdb.Txn) error {
		prefix := keyChildPrefix(parentID)

		opts := badgerdb.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().Key()
			if len(key) <= len(prefix) {
				continue
			}
			childID := string(key[len(prefix):])

			child, err := getItemTxn(txn, childID)
			if errors.Is(err, itemstore.ErrNotFound) {
				// Dangling index entry; skip it.
				continue
			}
			if err != nil {
				return err
			}
			out = append(out, child)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *BadgerItemStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close BadgerDB: %w", err)
	}
	return nil
}
