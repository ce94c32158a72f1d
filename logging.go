package grocerize

import (
	"context"

	"go.uber.org/zap"

	"github.com/flarexio/grocerize/item"
)

func LoggingMiddleware(log *zap.Logger) ServiceMiddleware {
	return func(next Service) Service {
		return &loggingMiddleware{
			log.With(
				zap.String("service", "grocerize"),
				zap.String("middleware", "logging"),
			),
			next,
		}
	}
}

type loggingMiddleware struct {
	log  *zap.Logger
	next Service
}

func (mw *loggingMiddleware) AddItem(ctx context.Context, text string) (*item.Item, error) {
	log := mw.log.With(
		zap.String("action", "add_item"),
		zap.String("text", text),
	)

	i, err := mw.next.AddItem(ctx, text)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}

	log.Info("item added",
		zap.String("item_id", i.ID.String()),
		zap.String("name", i.Name),
		zap.Int("amount", i.Amount),
	)
	return i, nil
}

func (mw *loggingMiddleware) Items(ctx context.Context, order item.Order) ([]*item.Item, error) {
	log := mw.log.With(
		zap.String("action", "items"),
		zap.String("order", order.String()),
	)

	items, err := mw.next.Items(ctx, order)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}

	log.Debug("items listed", zap.Int("count", len(items)))
	return items, nil
}

func (mw *loggingMiddleware) Item(ctx context.Context, id item.ItemID) (*item.Item, error) {
	log := mw.log.With(
		zap.String("action", "item"),
		zap.String("item_id", id.String()),
	)

	i, err := mw.next.Item(ctx, id)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}

	log.Debug("item found")
	return i, nil
}

func (mw *loggingMiddleware) Count(ctx context.Context) (int, error) {
	count, err := mw.next.Count(ctx)
	if err != nil {
		mw.log.Error(err.Error(), zap.String("action", "count"))
		return 0, err
	}

	return count, nil
}

func (mw *loggingMiddleware) UpdateItem(ctx context.Context, id item.ItemID, name string, amount int) (*item.Item, error) {
	log := mw.log.With(
		zap.String("action", "update_item"),
		zap.String("item_id", id.String()),
		zap.String("name", name),
		zap.Int("amount", amount),
	)

	i, err := mw.next.UpdateItem(ctx, id, name, amount)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}

	log.Info("item updated")
	return i, nil
}

func (mw *loggingMiddleware) IncrementItem(ctx context.Context, id item.ItemID) (*item.Item, error) {
	log := mw.log.With(
		zap.String("action", "increment_item"),
		zap.String("item_id", id.String()),
	)

	i, err := mw.next.IncrementItem(ctx, id)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}

	log.Info("item incremented", zap.Int("amount", i.Amount))
	return i, nil
}

func (mw *loggingMiddleware) DecrementItem(ctx context.Context, id item.ItemID) (*item.Item, error) {
	log := mw.log.With(
		zap.String("action", "decrement_item"),
		zap.String("item_id", id.String()),
	)

	i, err := mw.next.DecrementItem(ctx, id)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}

	if i.Amount <= 0 {
		log.Info("item ran out and was removed")
		return i, nil
	}

	log.Info("item decremented", zap.Int("amount", i.Amount))
	return i, nil
}

func (mw *loggingMiddleware) DeleteItem(ctx context.Context, id item.ItemID) error {
	log := mw.log.With(
		zap.String("action", "delete_item"),
		zap.String("item_id", id.String()),
	)

	if err := mw.next.DeleteItem(ctx, id); err != nil {
		log.Error(err.Error())
		return err
	}

	log.Info("item deleted")
	return nil
}

func (mw *loggingMiddleware) ClearItems(ctx context.Context) error {
	log := mw.log.With(
		zap.String("action", "clear_items"),
	)

	if err := mw.next.ClearItems(ctx); err != nil {
		log.Error(err.Error())
		return err
	}

	log.Info("list cleared")
	return nil
}

func (mw *loggingMiddleware) SendList(ctx context.Context, email string, order item.Order) error {
	log := mw.log.With(
		zap.String("action", "send_list"),
		zap.String("email", email),
		zap.String("order", order.String()),
	)

	if err := mw.next.SendList(ctx, email, order); err != nil {
		log.Error(err.Error())
		return err
	}

	log.Info("list sent")
	return nil
}
