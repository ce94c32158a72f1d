package item

import (
	"context"
	"time"
)

type EventName int

const (
	ItemAdded EventName = iota
	ItemMerged
	ItemUpdated
	ItemRemoved
	ListCleared
	ListSent
)

func (name EventName) String() string {
	switch name {
	case ItemAdded:
		return "item_added"
	case ItemMerged:
		return "item_merged"
	case ItemUpdated:
		return "item_updated"
	case ItemRemoved:
		return "item_removed"
	case ListCleared:
		return "list_cleared"
	case ListSent:
		return "list_sent"
	default:
		return "unknown"
	}
}

type Event struct {
	Name       string    `json:"name"`
	ItemID     *ItemID   `json:"item_id,omitempty"`
	Item       *Item     `json:"item,omitempty"`
	Recipient  string    `json:"recipient,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewEvent(name EventName, i *Item) *Event {
	snapshot := *i
	snapshot.events = nil

	return &Event{
		Name:       name.String(),
		ItemID:     &snapshot.ID,
		Item:       &snapshot,
		OccurredAt: time.Now(),
	}
}

func NewListClearedEvent() *Event {
	return &Event{
		Name:       ListCleared.String(),
		OccurredAt: time.Now(),
	}
}

func NewListSentEvent(recipient string) *Event {
	return &Event{
		Name:       ListSent.String(),
		Recipient:  recipient,
		OccurredAt: time.Now(),
	}
}

func (e *Event) EventName() string {
	return e.Name
}

type EventPublisher interface {
	Publish(ctx context.Context, e *Event) error
	Close() error
}
