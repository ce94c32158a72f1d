package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/kit/endpoint"

	"github.com/flarexio/grocerize"
	"github.com/flarexio/grocerize/item"
	"github.com/flarexio/grocerize/mailer"
)

// RegisterAPI mounts the JSON API on r, usually the /api/v1 group.
func RegisterAPI(r gin.IRouter, endpoints grocerize.EndpointSet) {
	// GET /items?order=alpha
	r.GET("/items", ItemsHandler(endpoints.Items))

	// POST /items
	r.POST("/items", AddItemHandler(endpoints.AddItem))

	// DELETE /items
	r.DELETE("/items", ClearItemsHandler(endpoints.ClearItems))

	// GET /items/:id
	r.GET("/items/:id", ItemHandler(endpoints.Item))

	// PUT /items/:id
	r.PUT("/items/:id", UpdateItemHandler(endpoints.UpdateItem))

	// DELETE /items/:id
	r.DELETE("/items/:id", DeleteItemHandler(endpoints.DeleteItem))

	// PATCH /items/:id/increment
	r.PATCH("/items/:id/increment", ItemHandler(endpoints.IncrementItem))

	// PATCH /items/:id/decrement
	r.PATCH("/items/:id/decrement", ItemHandler(endpoints.DecrementItem))

	// POST /list/send?order=alpha
	r.POST("/list/send", SendListHandler(endpoints.SendList))
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, item.ErrItemNotFound):
		return http.StatusNotFound

	case errors.Is(err, item.ErrEmptyName),
		errors.Is(err, item.ErrInvalidAmount),
		errors.Is(err, item.ErrInvalidOrder),
		errors.Is(err, mailer.ErrInvalidEmail),
		errors.Is(err, mailer.ErrNoMXRecord),
		errors.Is(err, grocerize.ErrInvalidRequest):
		return http.StatusBadRequest

	default:
		return http.StatusExpectationFailed
	}
}

func abort(c *gin.Context, code int, err error) {
	c.Abort()
	c.Error(err)
	c.String(code, err.Error())
}

func itemID(c *gin.Context) (item.ItemID, error) {
	id, err := item.ParseID(c.Param("id"))
	if err != nil {
		return item.ItemID{}, item.ErrItemNotFound
	}

	return id, nil
}

func ItemsHandler(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := item.ParseOrder(c.Query("order"))
		if err != nil {
			abort(c, http.StatusBadRequest, err)
			return
		}

		resp, err := endpoint(c, order)
		if err != nil {
			abort(c, statusCode(err), err)
			return
		}

		c.JSON(http.StatusOK, &resp)
	}
}

func AddItemHandler(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req grocerize.AddItemRequest
		if err := c.ShouldBind(&req); err != nil {
			abort(c, http.StatusBadRequest, err)
			return
		}

		resp, err := endpoint(c, req)
		if err != nil {
			abort(c, statusCode(err), err)
			return
		}

		c.JSON(http.StatusCreated, &resp)
	}
}

// ItemHandler serves every endpoint that takes a bare item ID.
func ItemHandler(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := itemID(c)
		if err != nil {
			abort(c, http.StatusNotFound, err)
			return
		}

		resp, err := endpoint(c, id)
		if err != nil {
			abort(c, statusCode(err), err)
			return
		}

		c.JSON(http.StatusOK, &resp)
	}
}

func UpdateItemHandler(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := itemID(c)
		if err != nil {
			abort(c, http.StatusNotFound, err)
			return
		}

		var req grocerize.UpdateItemRequest
		if err := c.ShouldBind(&req); err != nil {
			abort(c, http.StatusBadRequest, err)
			return
		}
		req.ID = id

		resp, err := endpoint(c, req)
		if err != nil {
			abort(c, statusCode(err), err)
			return
		}

		c.JSON(http.StatusOK, &resp)
	}
}

func DeleteItemHandler(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := itemID(c)
		if err != nil {
			abort(c, http.StatusNotFound, err)
			return
		}

		if _, err := endpoint(c, id); err != nil {
			abort(c, statusCode(err), err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func ClearItemsHandler(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := endpoint(c, nil); err != nil {
			abort(c, statusCode(err), err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func SendListHandler(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := item.ParseOrder(c.Query("order"))
		if err != nil {
			abort(c, http.StatusBadRequest, err)
			return
		}

		var req grocerize.SendListRequest
		if err := c.ShouldBind(&req); err != nil {
			abort(c, http.StatusBadRequest, err)
			return
		}
		req.Order = order

		if _, err := endpoint(c, req); err != nil {
			abort(c, statusCode(err), err)
			return
		}

		c.JSON(http.StatusAccepted, gin.H{"email": req.Email, "order": order.String()})
	}
}
