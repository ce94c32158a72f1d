package grocerize

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/flarexio/grocerize/item"
	"github.com/flarexio/grocerize/mailer"
)

type Service interface {
	AddItem(ctx context.Context, text string) (*item.Item, error)
	Items(ctx context.Context, order item.Order) ([]*item.Item, error)
	Item(ctx context.Context, id item.ItemID) (*item.Item, error)
	Count(ctx context.Context) (int, error)
	UpdateItem(ctx context.Context, id item.ItemID, name string, amount int) (*item.Item, error)
	IncrementItem(ctx context.Context, id item.ItemID) (*item.Item, error)
	DecrementItem(ctx context.Context, id item.ItemID) (*item.Item, error)
	DeleteItem(ctx context.Context, id item.ItemID) error
	ClearItems(ctx context.Context) error
	SendList(ctx context.Context, email string, order item.Order) error
}

type ServiceMiddleware func(Service) Service

func NewService(items item.Repository, sender mailer.Sender, resolver mailer.Resolver, events item.EventPublisher) Service {
	return &service{
		items:    items,
		sender:   sender,
		resolver: resolver,
		events:   events,
		now:      time.Now,
	}
}

type service struct {
	items    item.Repository
	sender   mailer.Sender
	resolver mailer.Resolver
	events   item.EventPublisher
	now      func() time.Time
}

func (svc *service) AddItem(ctx context.Context, text string) (*item.Item, error) {
	amount, name, err := item.Parse(text)
	if err != nil {
		return nil, err
	}

	// Merge into an existing entry with the same name
	existing, err := svc.items.FindByName(name)
	if err == nil {
		if err := existing.Merge(amount); err != nil {
			return nil, err
		}

		if err := svc.items.Store(existing); err != nil {
			return nil, err
		}

		svc.publish(ctx, existing.Events()...)
		return existing, nil
	}

	if !errors.Is(err, item.ErrItemNotFound) {
		return nil, err
	}

	i, err := item.NewItem(name, amount)
	if err != nil {
		return nil, err
	}

	if err := svc.items.Store(i); err != nil {
		return nil, err
	}

	svc.publish(ctx, i.Events()...)
	return i, nil
}

func (svc *service) Items(ctx context.Context, order item.Order) ([]*item.Item, error) {
	return svc.items.ListAll(order)
}

func (svc *service) Item(ctx context.Context, id item.ItemID) (*item.Item, error) {
	return svc.items.Find(id)
}

func (svc *service) Count(ctx context.Context) (int, error) {
	return svc.items.Count()
}

func (svc *service) UpdateItem(ctx context.Context, id item.ItemID, name string, amount int) (*item.Item, error) {
	i, err := svc.items.Find(id)
	if err != nil {
		return nil, err
	}

	if err := i.Update(name, amount); err != nil {
		return nil, err
	}

	// Renaming onto another entry folds both into one
	other, err := svc.items.FindByName(i.Name)
	if err == nil && other.ID != i.ID {
		if err := other.Merge(i.Amount); err != nil {
			return nil, err
		}

		if err := svc.items.Store(other); err != nil {
			return nil, err
		}

		i.ClearEvents()
		i.Remove()

		if err := svc.items.Delete(i.ID); err != nil {
			return nil, err
		}

		svc.publish(ctx, i.Events()...)
		svc.publish(ctx, other.Events()...)
		return other, nil
	}

	if err != nil && !errors.Is(err, item.ErrItemNotFound) {
		return nil, err
	}

	if err := svc.items.Store(i); err != nil {
		return nil, err
	}

	svc.publish(ctx, i.Events()...)
	return i, nil
}

func (svc *service) IncrementItem(ctx context.Context, id item.ItemID) (*item.Item, error) {
	i, err := svc.items.Find(id)
	if err != nil {
		return nil, err
	}

	if err := i.Increment(); err != nil {
		return nil, err
	}

	if err := svc.items.Store(i); err != nil {
		return nil, err
	}

	svc.publish(ctx, i.Events()...)
	return i, nil
}

func (svc *service) DecrementItem(ctx context.Context, id item.ItemID) (*item.Item, error) {
	i, err := svc.items.Find(id)
	if err != nil {
		return nil, err
	}

	if removed := i.Decrement(); removed {
		if err := svc.items.Delete(i.ID); err != nil {
			return nil, err
		}
	} else {
		if err := svc.items.Store(i); err != nil {
			return nil, err
		}
	}

	svc.publish(ctx, i.Events()...)
	return i, nil
}

func (svc *service) DeleteItem(ctx context.Context, id item.ItemID) error {
	i, err := svc.items.Find(id)
	if err != nil {
		return err
	}

	i.Remove()

	if err := svc.items.Delete(i.ID); err != nil {
		return err
	}

	svc.publish(ctx, i.Events()...)
	return nil
}

func (svc *service) ClearItems(ctx context.Context) error {
	if err := svc.items.DeleteAll(); err != nil {
		return err
	}

	svc.publish(ctx, item.NewListClearedEvent())
	return nil
}

func (svc *service) SendList(ctx context.Context, email string, order item.Order) error {
	email = strings.TrimSpace(email)

	if err := mailer.ValidateDomain(ctx, svc.resolver, email); err != nil {
		return err
	}

	items, err := svc.items.ListAll(order)
	if err != nil {
		return err
	}

	msg := &mailer.Message{
		To:      email,
		Subject: "Grocery List for " + svc.now().Format("02/01/2006"),
		Body:    FormatList(items),
	}

	if err := svc.sender.Send(ctx, msg); err != nil {
		return err
	}

	svc.publish(ctx, item.NewListSentEvent(email))
	return nil
}

// FormatList renders one "<amount> <name>" line per item.
func FormatList(items []*item.Item) string {
	var b strings.Builder
	for _, i := range items {
		b.WriteString(strconv.Itoa(i.Amount))
		b.WriteString(" ")
		b.WriteString(i.Name)
		b.WriteString("\n")
	}

	return b.String()
}

func (svc *service) publish(ctx context.Context, events ...*item.Event) {
	if svc.events == nil {
		return
	}

	for _, e := range events {
		if err := svc.events.Publish(ctx, e); err != nil {
			zap.L().Warn("event not published",
				zap.String("event", e.EventName()),
				zap.Error(err),
			)
		}
	}
}
