package persistence

import (
	"errors"

	"github.com/flarexio/grocerize/conf"
	"github.com/flarexio/grocerize/item"
	"github.com/flarexio/grocerize/persistence/db"
	"github.com/flarexio/grocerize/persistence/inmem"
	"github.com/flarexio/grocerize/persistence/kv"
)

func NewItemRepository(cfg conf.Persistence) (item.Repository, error) {
	switch cfg.Driver {
	case conf.SQLite:
		return db.NewItemRepository(cfg)
	case conf.BadgerDB:
		return kv.NewItemRepository(cfg)
	case conf.InMem:
		return inmem.NewItemRepository()
	default:
		return nil, errors.New("driver not supported")
	}
}
