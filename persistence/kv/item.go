package kv

import (
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/flarexio/core/model"

	"github.com/flarexio/grocerize/conf"
	"github.com/flarexio/grocerize/item"
)

const (
	itemPrefix = "items/"
	namePrefix = "names/"
)

func NewItemRepository(cfg conf.Persistence) (item.Repository, error) {
	opts := badger.DefaultOptions(cfg.Host + "/" + cfg.Name)
	if cfg.InMem {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}

	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &itemRepository{db}, nil
}

type record struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Amount    int       `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newRecord(i *item.Item) *record {
	return &record{
		ID:        i.ID.String(),
		Name:      i.Name,
		Amount:    i.Amount,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

func (r *record) reconstitute() (*item.Item, error) {
	id, err := item.ParseID(r.ID)
	if err != nil {
		return nil, err
	}

	return &item.Item{
		ID:     id,
		Name:   r.Name,
		Amount: r.Amount,
		Model: model.Model{
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		},
	}, nil
}

func itemKey(id string) []byte {
	return []byte(itemPrefix + id)
}

func nameKey(name string) []byte {
	return []byte(namePrefix + name)
}

type itemRepository struct {
	db *badger.DB
}

func (repo *itemRepository) Store(i *item.Item) error {
	r := newRecord(i)

	data, err := json.Marshal(r)
	if err != nil {
		return err
	}

	return repo.db.Update(func(txn *badger.Txn) error {
		// Drop the name index of the previous version when the item was renamed
		old, err := get(txn, itemKey(r.ID))
		if err != nil && !errors.Is(err, item.ErrItemNotFound) {
			return err
		}

		if old != nil && old.Name != r.Name {
			if err := txn.Delete(nameKey(old.Name)); err != nil {
				return err
			}
		}

		if err := txn.Set(itemKey(r.ID), data); err != nil {
			return err
		}

		return txn.Set(nameKey(r.Name), []byte(r.ID))
	})
}

func (repo *itemRepository) Delete(id item.ItemID) error {
	return repo.db.Update(func(txn *badger.Txn) error {
		r, err := get(txn, itemKey(id.String()))
		if err != nil {
			return err
		}

		if err := txn.Delete(nameKey(r.Name)); err != nil {
			return err
		}

		return txn.Delete(itemKey(r.ID))
	})
}

func (repo *itemRepository) DeleteAll() error {
	return repo.db.DropPrefix([]byte(itemPrefix), []byte(namePrefix))
}

func (repo *itemRepository) ListAll(order item.Order) ([]*item.Item, error) {
	results := make([]*item.Item, 0)

	err := repo.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(itemPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			data, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}

			var r *record
			if err := json.Unmarshal(data, &r); err != nil {
				return err
			}

			i, err := r.reconstitute()
			if err != nil {
				return err
			}

			results = append(results, i)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	// keys are ULIDs, so iteration order is insertion order
	switch order {
	case item.Alphabetical:
		slices.SortStableFunc(results, func(a, b *item.Item) int {
			return strings.Compare(a.Name, b.Name)
		})
	default:
		slices.Reverse(results)
	}

	return results, nil
}

func (repo *itemRepository) Find(id item.ItemID) (*item.Item, error) {
	var i *item.Item

	err := repo.db.View(func(txn *badger.Txn) error {
		r, err := get(txn, itemKey(id.String()))
		if err != nil {
			return err
		}

		i, err = r.reconstitute()
		return err
	})

	return i, err
}

func (repo *itemRepository) FindByName(name string) (*item.Item, error) {
	var i *item.Item

	err := repo.db.View(func(txn *badger.Txn) error {
		entry, err := txn.Get(nameKey(name))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return item.ErrItemNotFound
			}

			return err
		}

		id, err := entry.ValueCopy(nil)
		if err != nil {
			return err
		}

		r, err := get(txn, itemKey(string(id)))
		if err != nil {
			return err
		}

		i, err = r.reconstitute()
		return err
	})

	return i, err
}

func (repo *itemRepository) Count() (int, error) {
	count := 0

	err := repo.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(itemPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}

		return nil
	})

	return count, err
}

func (repo *itemRepository) Close() error {
	return repo.db.Close()
}

func get(txn *badger.Txn, key []byte) (*record, error) {
	entry, err := txn.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, item.ErrItemNotFound
		}

		return nil, err
	}

	data, err := entry.ValueCopy(nil)
	if err != nil {
		return nil, err
	}

	var r *record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}

	return r, nil
}
