package grocerize

import (
	"context"
	"errors"

	"github.com/go-kit/kit/endpoint"

	"github.com/flarexio/grocerize/item"
)

var ErrInvalidRequest = errors.New("invalid request")

type EndpointSet struct {
	AddItem       endpoint.Endpoint
	Items         endpoint.Endpoint
	Item          endpoint.Endpoint
	UpdateItem    endpoint.Endpoint
	IncrementItem endpoint.Endpoint
	DecrementItem endpoint.Endpoint
	DeleteItem    endpoint.Endpoint
	ClearItems    endpoint.Endpoint
	SendList      endpoint.Endpoint
}

func NewEndpointSet(svc Service) EndpointSet {
	return EndpointSet{
		AddItem:       AddItemEndpoint(svc),
		Items:         ItemsEndpoint(svc),
		Item:          ItemEndpoint(svc),
		UpdateItem:    UpdateItemEndpoint(svc),
		IncrementItem: IncrementItemEndpoint(svc),
		DecrementItem: DecrementItemEndpoint(svc),
		DeleteItem:    DeleteItemEndpoint(svc),
		ClearItems:    ClearItemsEndpoint(svc),
		SendList:      SendListEndpoint(svc),
	}
}

type AddItemRequest struct {
	Text string `json:"text" form:"text" binding:"required"`
}

func AddItemEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (response any, err error) {
		req, ok := request.(AddItemRequest)
		if !ok {
			return nil, ErrInvalidRequest
		}

		return svc.AddItem(ctx, req.Text)
	}
}

type ItemsResponse struct {
	Order string       `json:"order"`
	Count int          `json:"count"`
	Items []*item.Item `json:"items"`
}

func ItemsEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (response any, err error) {
		order, ok := request.(item.Order)
		if !ok {
			return nil, ErrInvalidRequest
		}

		items, err := svc.Items(ctx, order)
		if err != nil {
			return nil, err
		}

		count, err := svc.Count(ctx)
		if err != nil {
			return nil, err
		}

		resp := ItemsResponse{
			Order: order.String(),
			Count: count,
			Items: items,
		}

		return resp, nil
	}
}

func ItemEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (response any, err error) {
		id, ok := request.(item.ItemID)
		if !ok {
			return nil, ErrInvalidRequest
		}

		return svc.Item(ctx, id)
	}
}

type UpdateItemRequest struct {
	ID     item.ItemID `json:"-" form:"-"`
	Name   string      `json:"name" form:"name"`
	Amount int         `json:"amount" form:"amount"`
}

func UpdateItemEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (response any, err error) {
		req, ok := request.(UpdateItemRequest)
		if !ok {
			return nil, ErrInvalidRequest
		}

		return svc.UpdateItem(ctx, req.ID, req.Name, req.Amount)
	}
}

func IncrementItemEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (response any, err error) {
		id, ok := request.(item.ItemID)
		if !ok {
			return nil, ErrInvalidRequest
		}

		return svc.IncrementItem(ctx, id)
	}
}

func DecrementItemEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (response any, err error) {
		id, ok := request.(item.ItemID)
		if !ok {
			return nil, ErrInvalidRequest
		}

		return svc.DecrementItem(ctx, id)
	}
}

func DeleteItemEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (response any, err error) {
		id, ok := request.(item.ItemID)
		if !ok {
			return nil, ErrInvalidRequest
		}

		return nil, svc.DeleteItem(ctx, id)
	}
}

func ClearItemsEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (response any, err error) {
		return nil, svc.ClearItems(ctx)
	}
}

type SendListRequest struct {
	Email string     `json:"email" form:"email" binding:"required"`
	Order item.Order `json:"-" form:"-"`
}

func SendListEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (response any, err error) {
		req, ok := request.(SendListRequest)
		if !ok {
			return nil, ErrInvalidRequest
		}

		return nil, svc.SendList(ctx, req.Email, req.Order)
	}
}
