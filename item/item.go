package item

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/flarexio/core/model"
)

var (
	ErrItemNotFound  = errors.New("item not found")
	ErrEmptyName     = errors.New("item name is empty")
	ErrInvalidAmount = errors.New("item amount must be between 1 and the largest int")
	ErrInvalidOrder  = errors.New("invalid order")
)

type Order int

const (
	Recent Order = iota
	Alphabetical
)

func ParseOrder(order string) (Order, error) {
	order = strings.ToLower(order)
	switch order {
	case "", "recent":
		return Recent, nil
	case "alpha", "alphabetical":
		return Alphabetical, nil
	default:
		return -1, ErrInvalidOrder
	}
}

func (o Order) String() string {
	switch o {
	case Recent:
		return "recent"
	case Alphabetical:
		return "alpha"
	default:
		return "unknown"
	}
}

type ItemID ulid.ULID

func MakeID() ItemID {
	return ItemID(ulid.Make())
}

func ParseID(id string) (ItemID, error) {
	itemID, err := ulid.Parse(id)
	if err != nil {
		return ItemID{}, err
	}
	return ItemID(itemID), nil
}

func (id ItemID) String() string {
	return ulid.ULID(id).String()
}

func (id ItemID) Time() time.Time {
	ms := ulid.ULID(id).Time()
	return ulid.Time(ms)
}

func (id ItemID) MarshalJSON() ([]byte, error) {
	jsonStr := `"` + id.String() + `"`
	return []byte(jsonStr), nil
}

func (id *ItemID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	itemID, err := ParseID(s)
	if err != nil {
		return err
	}

	*id = itemID
	return nil
}

// Item is a single grocery list entry. A stored item always has a name and
// an amount of at least one.
type Item struct {
	ID     ItemID `json:"id"`
	Name   string `json:"name"`
	Amount int    `json:"amount"`
	model.Model

	events []*Event
}

func NewItem(name string, amount int) (*Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	if amount < 1 {
		return nil, ErrInvalidAmount
	}

	id := MakeID()

	i := &Item{
		ID:     id,
		Name:   name,
		Amount: amount,
		Model: model.Model{
			CreatedAt: id.Time(),
			UpdatedAt: id.Time(),
		},
	}

	i.addEvent(ItemAdded)
	return i, nil
}

// Merge folds the amount of a newly parsed entry into an existing item.
func (i *Item) Merge(amount int) error {
	if amount < 1 || amount > math.MaxInt-i.Amount {
		return ErrInvalidAmount
	}

	i.Amount += amount
	i.UpdatedAt = time.Now()

	i.addEvent(ItemMerged)
	return nil
}

func (i *Item) Update(name string, amount int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	if amount < 1 {
		return ErrInvalidAmount
	}

	i.Name = name
	i.Amount = amount
	i.UpdatedAt = time.Now()

	i.addEvent(ItemUpdated)
	return nil
}

func (i *Item) Increment() error {
	if i.Amount == math.MaxInt {
		return ErrInvalidAmount
	}

	i.Amount++
	i.UpdatedAt = time.Now()

	i.addEvent(ItemUpdated)
	return nil
}

// Decrement lowers the amount by one and reports whether the item ran out
// and should be removed from the list.
func (i *Item) Decrement() bool {
	i.Amount--
	i.UpdatedAt = time.Now()

	if i.Amount <= 0 {
		i.Remove()
		return true
	}

	i.addEvent(ItemUpdated)
	return false
}

func (i *Item) Remove() {
	now := time.Now()
	i.UpdatedAt = now
	i.DeletedAt = now

	i.addEvent(ItemRemoved)
}

func (i *Item) addEvent(name EventName) {
	i.events = append(i.events, NewEvent(name, i))
}

// Events returns the events recorded since the item was loaded.
func (i *Item) Events() []*Event {
	return i.events
}

// ClearEvents drops the recorded events once they have been published.
func (i *Item) ClearEvents() {
	i.events = nil
}
