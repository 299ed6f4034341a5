package grab

import (
	"context"
	"strconv"
)

// Item is a sellable product in the connector catalog. Price is in the
// smallest currency unit.
type Item struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	Price      int    `json:"price"`
	CategoryID string `json:"category_id"`
	IsActive   int    `json:"is_active"`
}

// ItemPage is one page of the item listing.
type ItemPage struct {
	Items []Item `json:"data"`
	Total int    `json:"total"`
}

// NewItem is the shape submitted on item create.
type NewItem struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Price      int    `json:"price"`
	CategoryID string `json:"category_id,omitempty"`
	IsActive   int    `json:"is_active"`
}

// UpdateItemParams is the subset of fields PUT /items/:id accepts. Nil
// pointers are omitted from the request body.
type UpdateItemParams struct {
	Name     *string `json:"name,omitempty"`
	Price    *int    `json:"price,omitempty"`
	IsActive *int    `json:"is_active,omitempty"`
}

type itemResponse struct {
	Data Item `json:"data"`
}

// GetItem fetches a single item by id.
func (c *Client) GetItem(ctx context.Context, id string) (Item, error) {
	result := &itemResponse{}

	_, err := handleError(c.req(ctx, result).
		SetPathParams(map[string]string{"id": id}).
		Get("/items/{id}"))

	return result.Data, err
}

// SyncItemProfit asks the connector to recompute the store-level profit for
// the item with the given SKU.
func (c *Client) SyncItemProfit(ctx context.Context, sku string) (string, error) {
	result := &messageResponse{}

	_, err := handleError(c.req(ctx, result).
		SetBody(map[string]string{"sku": sku}).
		Post("/items/store"))

	return result.Message, err
}

// ListItems fetches one page of items, optionally filtered by a search term.
func (c *Client) ListItems(ctx context.Context, page int, query string) (ItemPage, error) {
	result := &ItemPage{}

	req := c.req(ctx, result).SetQueryParam("page", strconv.Itoa(page))
	if query != "" {
		req.SetQueryParam("q", query)
	}

	_, err := handleError(req.Get("/items"))

	return *result, err
}

// CreateItem adds a single item to the catalog.
func (c *Client) CreateItem(ctx context.Context, item NewItem) (string, error) {
	result := &messageResponse{}

	_, err := handleError(c.req(ctx, result).
		SetBody(item).
		Post("/items"))

	return result.Message, err
}

// UpdateItem updates a subset of an item's fields by id.
func (c *Client) UpdateItem(ctx context.Context, id string, params UpdateItemParams) (string, error) {
	result := &messageResponse{}

	_, err := handleError(c.req(ctx, result).
		SetPathParams(map[string]string{"id": id}).
		SetBody(params).
		Put("/items/{id}"))

	return result.Message, err
}

// DeleteItem removes an item from the catalog by id.
func (c *Client) DeleteItem(ctx context.Context, id string) (string, error) {
	result := &messageResponse{}

	_, err := handleError(c.req(ctx, result).
		SetPathParams(map[string]string{"id": id}).
		Delete("/items/{id}"))

	return result.Message, err
}

// UpdateStoreItem updates a store-scoped item override by id.
func (c *Client) UpdateStoreItem(ctx context.Context, id string, params UpdateItemParams) (string, error) {
	result := &messageResponse{}

	_, err := handleError(c.req(ctx, result).
		SetPathParams(map[string]string{"id": id}).
		SetBody(params).
		Put("/items/store/{id}"))

	return result.Message, err
}

// DeleteStoreItem removes a store-scoped item override by id.
func (c *Client) DeleteStoreItem(ctx context.Context, id string) (string, error) {
	result := &messageResponse{}

	_, err := handleError(c.req(ctx, result).
		SetPathParams(map[string]string{"id": id}).
		Delete("/items/store/{id}"))

	return result.Message, err
}

// CountItems returns the aggregate item count.
func (c *Client) CountItems(ctx context.Context) (int, error) {
	result := &summaryResponse{}

	_, err := handleError(c.req(ctx, result).
		Get("/items/summary"))

	return result.Data.Count, err
}
