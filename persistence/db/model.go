package db

import (
	"time"

	"gorm.io/gorm"

	"github.com/flarexio/core/model"

	"github.com/flarexio/grocerize/item"
)

// Database exposes the underlying gorm handle of a repository.
type Database interface {
	DB() *gorm.DB
}

type DataModel struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

type Item struct {
	ID     string `gorm:"primaryKey"`
	Name   string `gorm:"index"`
	Amount int
	DataModel
}

func NewItem(i *item.Item) *Item {
	return &Item{
		ID:     i.ID.String(),
		Name:   i.Name,
		Amount: i.Amount,
		DataModel: DataModel{
			CreatedAt: i.CreatedAt,
			UpdatedAt: i.UpdatedAt,
			DeletedAt: gorm.DeletedAt{
				Time:  i.DeletedAt,
				Valid: !i.DeletedAt.IsZero(),
			},
		},
	}
}

func (i *Item) reconstitute() (*item.Item, error) {
	id, err := item.ParseID(i.ID)
	if err != nil {
		return nil, err
	}

	result := &item.Item{
		ID:     id,
		Name:   i.Name,
		Amount: i.Amount,
		Model: model.Model{
			CreatedAt: i.CreatedAt,
			UpdatedAt: i.UpdatedAt,
		},
	}

	if i.DeletedAt.Valid {
		result.DeletedAt = i.DeletedAt.Time
	}

	return result, nil
}
