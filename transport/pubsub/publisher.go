package pubsub

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"

	"github.com/flarexio/grocerize/item"
)

// Topic builds <subject>.<item id>.<event name>. List-wide events carry
// "_" in place of the item id.
func Topic(subject string, e *item.Event) string {
	id := "_"
	if e.ItemID != nil {
		id = e.ItemID.String()
	}

	return subject + "." + id + "." + e.Name
}

func NewNATSPublisher(url string, subject string, name string) (item.EventPublisher, error) {
	nc, err := nats.Connect(url, nats.Name(name))
	if err != nil {
		return nil, err
	}

	if subject == "" {
		subject = "groceries"
	}

	return &natsPublisher{nc, subject}, nil
}

type natsPublisher struct {
	nc      *nats.Conn
	subject string
}

func (p *natsPublisher) Publish(ctx context.Context, e *item.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	return p.nc.Publish(Topic(p.subject, e), data)
}

func (p *natsPublisher) Close() error {
	return p.nc.Drain()
}

func NewNopPublisher() item.EventPublisher {
	return nopPublisher{}
}

type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, e *item.Event) error {
	return nil
}

func (nopPublisher) Close() error {
	return nil
}
