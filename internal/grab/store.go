package grab

import (
	"context"
	"strconv"
)

// Store is a merchant store registered with the connector.
type Store struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	MerchantID string `json:"merchant_id"`
	Address    string `json:"address"`
	IsActive   int    `json:"is_active"`
}

// StorePage is one page of the store listing.
type StorePage struct {
	Stores []Store `json:"data"`
	Total  int     `json:"total"`
}

// MenuItem is one entry of a store's menu as Grab sees it, used to inspect
// what the marketplace currently serves for a merchant.
type MenuItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Price     int    `json:"price"`
	Available bool   `json:"available"`
}

// NewStore is the shape submitted on store create.
type NewStore struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	MerchantID string `json:"merchant_id"`
	Address    string `json:"address,omitempty"`
	IsActive   int    `json:"is_active"`
}

// UpdateStoreParams is the subset of fields PUT /stores/:id accepts. Nil
// pointers are omitted from the request body.
type UpdateStoreParams struct {
	Name     *string `json:"name,omitempty"`
	Address  *string `json:"address,omitempty"`
	IsActive *int    `json:"is_active,omitempty"`
}

type storeResponse struct {
	Data Store `json:"data"`
}

type menuResponse struct {
	Data []MenuItem `json:"data"`
}

// ListStores fetches one page of stores.
func (c *Client) ListStores(ctx context.Context, page, pageSize int) (StorePage, error) {
	result := &StorePage{}

	_, err := handleError(c.req(ctx, result).
		SetQueryParams(map[string]string{
			"page":      strconv.Itoa(page),
			"page_size": strconv.Itoa(pageSize),
		}).
		Get("/stores"))

	return *result, err
}

// GetStore fetches a single store by id.
func (c *Client) GetStore(ctx context.Context, id string) (Store, error) {
	result := &storeResponse{}

	_, err := handleError(c.req(ctx, result).
		SetPathParams(map[string]string{"id": id}).
		Get("/stores/{id}"))

	return result.Data, err
}

// CreateStore registers a new store with the connector.
func (c *Client) CreateStore(ctx context.Context, store NewStore) (string, error) {
	result := &messageResponse{}

	_, err := handleError(c.req(ctx, result).
		SetBody(store).
		Post("/stores"))

	return result.Message, err
}

// UpdateStore updates a subset of a store's fields by id.
func (c *Client) UpdateStore(ctx context.Context, id string, params UpdateStoreParams) (string, error) {
	result := &messageResponse{}

	_, err := handleError(c.req(ctx, result).
		SetPathParams(map[string]string{"id": id}).
		SetBody(params).
		Put("/stores/{id}"))

	return result.Message, err
}

// DeleteStore removes a store by id.
func (c *Client) DeleteStore(ctx context.Context, id string) (string, error) {
	result := &messageResponse{}

	_, err := handleError(c.req(ctx, result).
		SetPathParams(map[string]string{"id": id}).
		Delete("/stores/{id}"))

	return result.Message, err
}

// ResyncStore asks the connector to push the store's catalog to Grab again.
func (c *Client) ResyncStore(ctx context.Context, id string) (string, error) {
	result := &messageResponse{}

	_, err := handleError(c.req(ctx, result).
		SetPathParams(map[string]string{"id": id}).
		Put("/stores/resync/{id}"))

	return result.Message, err
}

// GetStoreMenu fetches the menu Grab currently has for a merchant.
func (c *Client) GetStoreMenu(ctx context.Context, merchantID string) ([]MenuItem, error) {
	result := &menuResponse{}

	_, err := handleError(c.req(ctx, result).
		SetQueryParam("merchantID", merchantID).
		Get("/items/menu"))

	return result.Data, err
}

// CountStores returns the aggregate store count.
func (c *Client) CountStores(ctx context.Context) (int, error) {
	result := &summaryResponse{}

	_, err := handleError(c.req(ctx, result).
		Get("/stores/summary"))

	return result.Data.Count, err
}
