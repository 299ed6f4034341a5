package grab

import (
	"context"
	"strconv"
)

// Order is a marketplace order the connector has received for a store.
type Order struct {
	ID        string `json:"id"`
	OrderID   string `json:"order_id"`
	StoreCode string `json:"store_code"`
	State     string `json:"state"`
	Amount    int    `json:"amount"`
	CreatedAt string `json:"created_at"`
}

// OrderPage is one page of the order listing.
type OrderPage struct {
	Orders []Order `json:"data"`
	Total  int     `json:"total"`
}

// OrderFilter narrows the order listing. Zero values are omitted.
type OrderFilter struct {
	StoreCode string
	Date      string // YYYY-MM-DD
	Page      int
}

// ManualOrder is the shape submitted when an order missed by the webhook is
// entered by hand.
type ManualOrder struct {
	OrderID   string `json:"order_id"`
	StoreCode string `json:"store_code"`
	Amount    int    `json:"amount"`
}

// OrderSummary aggregates order counts and revenue over a date range.
type OrderSummary struct {
	Count  int `json:"count"`
	Amount int `json:"amount"`
}

type orderSummaryResponse struct {
	Data OrderSummary `json:"data"`
}

// ListOrders fetches one page of orders matching the filter.
func (c *Client) ListOrders(ctx context.Context, filter OrderFilter) (OrderPage, error) {
	result := &OrderPage{}

	req := c.req(ctx, result)
	if filter.StoreCode != "" {
		req.SetQueryParam("store_code", filter.StoreCode)
	}
	if filter.Date != "" {
		req.SetQueryParam("date", filter.Date)
	}
	if filter.Page > 0 {
		req.SetQueryParam("page", strconv.Itoa(filter.Page))
	}

	_, err := handleError(req.Get("/orders"))

	return *result, err
}

// SubmitManualOrder records an order that never arrived through the webhook.
func (c *Client) SubmitManualOrder(ctx context.Context, order ManualOrder) (string, error) {
	result := &messageResponse{}

	_, err := handleError(c.req(ctx, result).
		SetBody(order).
		Post("/orders/submit-manual"))

	return result.Message, err
}

// FinishOrder manually transitions a stuck order to its terminal state.
func (c *Client) FinishOrder(ctx context.Context, id string) (string, error) {
	result := &messageResponse{}

	_, err := handleError(c.req(ctx, result).
		SetPathParams(map[string]string{"id": id}).
		Put("/orders/state-manual/{id}"))

	return result.Message, err
}

// OrderTotals aggregates orders over an inclusive date range (YYYY-MM-DD).
func (c *Client) OrderTotals(ctx context.Context, startDate, endDate string) (OrderSummary, error) {
	result := &orderSummaryResponse{}

	_, err := handleError(c.req(ctx, result).
		SetQueryParams(map[string]string{
			"start_date": startDate,
			"end_date":   endDate,
		}).
		Get("/orders/summary"))

	return result.Data, err
}
