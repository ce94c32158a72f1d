package db

import (
	"errors"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/flarexio/grocerize/conf"
	"github.com/flarexio/grocerize/item"
)

func NewItemRepository(cfg conf.Persistence) (item.Repository, error) {
	filename := cfg.Host + "/" + cfg.Name + ".db"
	if cfg.InMem {
		filename = "file::memory:?cache=shared"
	}

	db, err := gorm.Open(sqlite.Open(filename), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&Item{}); err != nil {
		return nil, err
	}

	repo := new(itemRepository)
	repo.db = db
	return repo, nil
}

type itemRepository struct {
	db *gorm.DB
}

func (repo *itemRepository) DB() *gorm.DB {
	return repo.db
}

func (repo *itemRepository) Store(i *item.Item) error {
	data := NewItem(i) // convert Domain to Data model
	return repo.db.Save(data).Error
}

func (repo *itemRepository) Delete(id item.ItemID) error {
	result := repo.db.Delete(&Item{}, "id = ?", id.String())
	if err := result.Error; err != nil {
		return err
	}

	if result.RowsAffected == 0 {
		return item.ErrItemNotFound
	}

	return nil
}

// DeleteAll removes every row, soft-deleted ones included.
func (repo *itemRepository) DeleteAll() error {
	return repo.db.Exec("DELETE FROM items").Error
}

func (repo *itemRepository) ListAll(order item.Order) ([]*item.Item, error) {
	var items []*Item

	tx := repo.db
	switch order {
	case item.Alphabetical:
		tx = tx.Order("name ASC").Order("id ASC")
	default:
		tx = tx.Order("id DESC")
	}

	if err := tx.Find(&items).Error; err != nil {
		return nil, err
	}

	results := make([]*item.Item, 0, len(items))
	for _, i := range items {
		result, err := i.reconstitute()
		if err != nil {
			return nil, err
		}

		results = append(results, result)
	}

	return results, nil
}

func (repo *itemRepository) Find(id item.ItemID) (*item.Item, error) {
	return repo.take("id = ?", id.String())
}

func (repo *itemRepository) FindByName(name string) (*item.Item, error) {
	return repo.take("name = ?", name)
}

func (repo *itemRepository) take(query string, args ...any) (*item.Item, error) {
	var i *Item

	result := repo.db.Take(&i, append([]any{query}, args...)...)
	if err := result.Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, item.ErrItemNotFound
		}

		return nil, err
	}

	return i.reconstitute()
}

func (repo *itemRepository) Count() (int, error) {
	var count int64
	if err := repo.db.Model(&Item{}).Count(&count).Error; err != nil {
		return 0, err
	}

	return int(count), nil
}

func (repo *itemRepository) Close() error {
	sqlDB, err := repo.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}
