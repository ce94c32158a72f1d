package inmem

import (
	"slices"
	"strings"
	"sync"

	"github.com/flarexio/grocerize/item"
)

func NewItemRepository() (item.Repository, error) {
	return &itemRepository{
		items: make(map[item.ItemID]item.Item),
	}, nil
}

type itemRepository struct {
	items map[item.ItemID]item.Item
	sync.RWMutex
}

func (repo *itemRepository) Store(i *item.Item) error {
	repo.Lock()
	defer repo.Unlock()

	stored := *i
	stored.ClearEvents()

	repo.items[i.ID] = stored
	return nil
}

func (repo *itemRepository) Delete(id item.ItemID) error {
	repo.Lock()
	defer repo.Unlock()

	if _, ok := repo.items[id]; !ok {
		return item.ErrItemNotFound
	}

	delete(repo.items, id)
	return nil
}

func (repo *itemRepository) DeleteAll() error {
	repo.Lock()
	defer repo.Unlock()

	clear(repo.items)
	return nil
}

func (repo *itemRepository) ListAll(order item.Order) ([]*item.Item, error) {
	repo.RLock()
	defer repo.RUnlock()

	results := make([]*item.Item, 0, len(repo.items))
	for _, i := range repo.items {
		results = append(results, &i)
	}

	switch order {
	case item.Alphabetical:
		slices.SortFunc(results, func(a, b *item.Item) int {
			if c := strings.Compare(a.Name, b.Name); c != 0 {
				return c
			}

			return strings.Compare(a.ID.String(), b.ID.String())
		})
	default:
		slices.SortFunc(results, func(a, b *item.Item) int {
			return strings.Compare(b.ID.String(), a.ID.String())
		})
	}

	return results, nil
}

func (repo *itemRepository) Find(id item.ItemID) (*item.Item, error) {
	repo.RLock()
	defer repo.RUnlock()

	i, ok := repo.items[id]
	if !ok {
		return nil, item.ErrItemNotFound
	}

	return &i, nil
}

func (repo *itemRepository) FindByName(name string) (*item.Item, error) {
	repo.RLock()
	defer repo.RUnlock()

	for _, i := range repo.items {
		if i.Name == name {
			return &i, nil
		}
	}

	return nil, item.ErrItemNotFound
}

func (repo *itemRepository) Count() (int, error) {
	repo.RLock()
	defer repo.RUnlock()

	return len(repo.items), nil
}

func (repo *itemRepository) Close() error {
	return nil
}
