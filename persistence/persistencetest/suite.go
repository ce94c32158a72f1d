// Package persistencetest holds the behaviour every item.Repository driver
// has to share.
package persistencetest

import (
	"github.com/stretchr/testify/suite"

	"github.com/flarexio/grocerize/item"
)

type RepositoryTestSuite struct {
	suite.Suite
	Items item.Repository

	apples *item.Item
}

func (suite *RepositoryTestSuite) SetupTest() {
	if err := suite.Items.DeleteAll(); err != nil {
		suite.FailNow(err.Error())
	}

	suite.apples = suite.store("apples", 3)
}

func (suite *RepositoryTestSuite) store(name string, amount int) *item.Item {
	i, err := item.NewItem(name, amount)
	suite.Require().NoError(err)

	err = suite.Items.Store(i)
	suite.Require().NoError(err)

	return i
}

func (suite *RepositoryTestSuite) TestFind() {
	i, err := suite.Items.Find(suite.apples.ID)
	suite.NoError(err)
	suite.Equal(suite.apples.ID, i.ID)
	suite.Equal("apples", i.Name)
	suite.Equal(3, i.Amount)
}

func (suite *RepositoryTestSuite) TestFindNotFound() {
	_, err := suite.Items.Find(item.MakeID())
	suite.ErrorIs(err, item.ErrItemNotFound)
}

func (suite *RepositoryTestSuite) TestFindByName() {
	i, err := suite.Items.FindByName("apples")
	suite.NoError(err)
	suite.Equal(suite.apples.ID, i.ID)

	_, err = suite.Items.FindByName("Apples")
	suite.ErrorIs(err, item.ErrItemNotFound)
}

func (suite *RepositoryTestSuite) TestStoreUpdatesExisting() {
	i, err := suite.Items.Find(suite.apples.ID)
	suite.Require().NoError(err)

	err = i.Merge(2)
	suite.Require().NoError(err)

	err = suite.Items.Store(i)
	suite.Require().NoError(err)

	found, err := suite.Items.Find(suite.apples.ID)
	suite.NoError(err)
	suite.Equal(5, found.Amount)

	count, err := suite.Items.Count()
	suite.NoError(err)
	suite.Equal(1, count)
}

func (suite *RepositoryTestSuite) TestRenameUpdatesNameLookup() {
	i, err := suite.Items.Find(suite.apples.ID)
	suite.Require().NoError(err)

	err = i.Update("pears", 3)
	suite.Require().NoError(err)

	err = suite.Items.Store(i)
	suite.Require().NoError(err)

	_, err = suite.Items.FindByName("apples")
	suite.ErrorIs(err, item.ErrItemNotFound)

	found, err := suite.Items.FindByName("pears")
	suite.NoError(err)
	suite.Equal(suite.apples.ID, found.ID)
}

func (suite *RepositoryTestSuite) TestListAllRecent() {
	suite.store("bread", 1)
	suite.store("carrots", 2)

	items, err := suite.Items.ListAll(item.Recent)
	suite.NoError(err)
	suite.Require().Len(items, 3)
	suite.Equal("carrots", items[0].Name)
	suite.Equal("bread", items[1].Name)
	suite.Equal("apples", items[2].Name)
}

func (suite *RepositoryTestSuite) TestListAllAlphabetical() {
	suite.store("carrots", 2)
	suite.store("bread", 1)

	items, err := suite.Items.ListAll(item.Alphabetical)
	suite.NoError(err)
	suite.Require().Len(items, 3)
	suite.Equal("apples", items[0].Name)
	suite.Equal("bread", items[1].Name)
	suite.Equal("carrots", items[2].Name)
}

func (suite *RepositoryTestSuite) TestDelete() {
	bread := suite.store("bread", 1)

	err := suite.Items.Delete(suite.apples.ID)
	suite.NoError(err)

	_, err = suite.Items.Find(suite.apples.ID)
	suite.ErrorIs(err, item.ErrItemNotFound)

	_, err = suite.Items.FindByName("apples")
	suite.ErrorIs(err, item.ErrItemNotFound)

	items, err := suite.Items.ListAll(item.Recent)
	suite.NoError(err)
	suite.Require().Len(items, 1)
	suite.Equal(bread.ID, items[0].ID)

	err = suite.Items.Delete(suite.apples.ID)
	suite.ErrorIs(err, item.ErrItemNotFound)
}

func (suite *RepositoryTestSuite) TestDeleteAll() {
	suite.store("bread", 1)

	count, err := suite.Items.Count()
	suite.NoError(err)
	suite.Equal(2, count)

	err = suite.Items.DeleteAll()
	suite.NoError(err)

	count, err = suite.Items.Count()
	suite.NoError(err)
	suite.Equal(0, count)

	items, err := suite.Items.ListAll(item.Alphabetical)
	suite.NoError(err)
	suite.Empty(items)
}
