package item

type Repository interface {
	// Command

	Store(i *Item) error
	Delete(id ItemID) error
	DeleteAll() error

	// Query

	ListAll(order Order) ([]*Item, error)
	Find(id ItemID) (*Item, error)
	FindByName(name string) (*Item, error)
	Count() (int, error)

	Close() error
}
