package grab

import (
	"context"
	"strconv"
)

// SyncLog is one entry of the connector's sync journal. Type selects the
// journal ("menu", "order", "webhook").
type SyncLog struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	Detail    string `json:"detail"`
	CreatedAt string `json:"created_at"`
}

// SyncLogPage is one page of a sync journal.
type SyncLogPage struct {
	Logs  []SyncLog `json:"data"`
	Total int       `json:"total"`
}

// SyncLogFilter narrows a journal listing. Zero values are omitted.
type SyncLogFilter struct {
	Page     int
	PageSize int
	Name     string
	Query    string
}

// MartLog is one GrabMart integration log entry. Status can be flipped to
// "resolved" once an operator has dealt with it.
type MartLog struct {
	ID                string `json:"id"`
	PartnerMerchantID string `json:"partner_merchant_id"`
	Status            string `json:"status"`
	Payload           string `json:"payload"`
	CreatedAt         string `json:"created_at"`
}

// MartLogPage is one page of GrabMart logs.
type MartLogPage struct {
	Logs  []MartLog `json:"data"`
	Total int       `json:"total"`
}

type namesResponse struct {
	Data []string `json:"data"`
}

// ListSyncLogs fetches one page of the given sync journal.
func (c *Client) ListSyncLogs(ctx context.Context, logType string, filter SyncLogFilter) (SyncLogPage, error) {
	result := &SyncLogPage{}

	req := c.req(ctx, result).SetPathParams(map[string]string{"type": logType})
	if filter.Page > 0 {
		req.SetQueryParam("page", strconv.Itoa(filter.Page))
	}
	if filter.PageSize > 0 {
		req.SetQueryParam("page_size", strconv.Itoa(filter.PageSize))
	}
	if filter.Name != "" {
		req.SetQueryParam("name", filter.Name)
	}
	if filter.Query != "" {
		req.SetQueryParam("q", filter.Query)
	}

	_, err := handleError(req.Get("/logs/{type}"))

	return *result, err
}

// ListSyncLogNames fetches the distinct entry names of a journal, used to
// offer name filters.
func (c *Client) ListSyncLogNames(ctx context.Context, logType string) ([]string, error) {
	result := &namesResponse{}

	_, err := handleError(c.req(ctx, result).
		SetPathParams(map[string]string{"type": logType}).
		Get("/logs/name/{type}"))

	return result.Data, err
}

// ListMartLogs fetches one page of GrabMart logs, optionally filtered by a
// search term and partner merchant.
func (c *Client) ListMartLogs(ctx context.Context, page int, query, partnerMerchantID string) (MartLogPage, error) {
	result := &MartLogPage{}

	req := c.req(ctx, result).SetQueryParam("page", strconv.Itoa(page))
	if query != "" {
		req.SetQueryParam("q", query)
	}
	if partnerMerchantID != "" {
		req.SetQueryParam("partnerMerchantId", partnerMerchantID)
	}

	_, err := handleError(req.Get("/grabmart-logs"))

	return *result, err
}

// ListPartnerMerchants fetches the partner merchant ids present in the
// GrabMart logs.
func (c *Client) ListPartnerMerchants(ctx context.Context) ([]string, error) {
	result := &namesResponse{}

	_, err := handleError(c.req(ctx, result).
		Get("/grabmart-logs/partner-merchants"))

	return result.Data, err
}

// ResolveMartLog marks a GrabMart log entry as handled.
func (c *Client) ResolveMartLog(ctx context.Context, id string) (string, error) {
	result := &messageResponse{}

	_, err := handleError(c.req(ctx, result).
		SetPathParams(map[string]string{"id": id}).
		SetBody(map[string]string{"status": "resolved"}).
		Put("/grabmart-logs/{id}"))

	return result.Message, err
}
