package kv

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/flarexio/grocerize/conf"
	"github.com/flarexio/grocerize/persistence/persistencetest"
)

type itemRepositoryTestSuite struct {
	persistencetest.RepositoryTestSuite
}

func (suite *itemRepositoryTestSuite) SetupSuite() {
	cfg := conf.Persistence{
		Driver: conf.BadgerDB,
		Name:   "grocerize",
		InMem:  true,
	}

	items, err := NewItemRepository(cfg)
	if err != nil {
		suite.Fail(err.Error())
		return
	}

	suite.Items = items
}

func (suite *itemRepositoryTestSuite) TearDownSuite() {
	suite.Items.DeleteAll()
	suite.Items.Close()
}

func TestItemRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(itemRepositoryTestSuite))
}
