package grab

import "context"

// Category is a node of the merchant category tree. The connector returns the
// tree pre-nested: SubCategory holds the children and the client never
// reconstructs parent/child links itself.
type Category struct {
	ID               string     `json:"id"`
	Code             string     `json:"code"`
	Name             string     `json:"name"`
	ParentCategoryID *string    `json:"parent_category_id"`
	IsActive         int        `json:"is_active"`
	SubCategory      []Category `json:"sub_category"`
}

// NewCategory is the shape submitted on batch create. ParentCode refers to
// another category's code (bulk import); ParentCategoryID refers to an id
// (inline add). Only one of the two is set.
type NewCategory struct {
	Code             string  `json:"code"`
	ParentCode       *string `json:"parent_code,omitempty"`
	ParentCategoryID *string `json:"parent_category_id,omitempty"`
	Name             string  `json:"name"`
	IsActive         int     `json:"is_active"`
}

// BatchRow is one row of a batch create response. Reason is set on failures.
type BatchRow struct {
	Code   string `json:"code"`
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// BatchResult reports per-row outcomes of a batch create. Failed rows do not
// roll back the successes.
type BatchResult struct {
	Success []BatchRow `json:"success"`
	Failed  []BatchRow `json:"failed"`
}

// UpdateCategoryParams is the subset of fields PUT /categories/:id accepts.
// Nil pointers are omitted from the request body.
type UpdateCategoryParams struct {
	Name     *string `json:"name,omitempty"`
	Code     *string `json:"code,omitempty"`
	IsActive *int    `json:"is_active,omitempty"`
}

type categoriesResponse struct {
	Data []Category `json:"data"`
}

type categoryResponse struct {
	Data Category `json:"data"`
}

type batchCreateResponse struct {
	Data BatchResult `json:"data"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type summaryResponse struct {
	Data struct {
		Count int `json:"count"`
	} `json:"data"`
}

// ListCategories fetches the full category tree. An optional status filter
// ("active"/"inactive") narrows the result. The nested tree is verified for
// structural integrity before being returned; a malformed tree fails the whole
// fetch rather than being rendered.
func (c *Client) ListCategories(ctx context.Context, status string) ([]Category, error) {
	result := &categoriesResponse{}

	req := c.req(ctx, result)
	if status != "" {
		req.SetQueryParam("status", status)
	}

	_, err := handleError(req.Get("/categories"))
	if err != nil {
		return nil, err
	}

	if err := VerifyTree(result.Data); err != nil {
		return nil, err
	}

	return result.Data, nil
}

// GetCategory fetches a single category by id.
func (c *Client) GetCategory(ctx context.Context, id string) (Category, error) {
	result := &categoryResponse{}

	_, err := handleError(c.req(ctx, result).
		SetPathParams(map[string]string{"id": id}).
		Get("/categories/{id}"))

	return result.Data, err
}

// CreateCategories submits a batch of new categories in one call. The
// connector reports per-row success and failure; a failed row does not block
// the other rows in the batch.
func (c *Client) CreateCategories(ctx context.Context, rows []NewCategory) (BatchResult, error) {
	result := &batchCreateResponse{}

	_, err := handleError(c.req(ctx, result).
		SetBody(rows).
		Post("/categories"))

	return result.Data, err
}

// UpdateCategory updates a subset of a category's fields by id.
func (c *Client) UpdateCategory(ctx context.Context, id string, params UpdateCategoryParams) (string, error) {
	result := &messageResponse{}

	_, err := handleError(c.req(ctx, result).
		SetPathParams(map[string]string{"id": id}).
		SetBody(params).
		Put("/categories/{id}"))

	return result.Message, err
}

// DeleteCategory deletes a category by id.
func (c *Client) DeleteCategory(ctx context.Context, id string) (string, error) {
	result := &messageResponse{}

	_, err := handleError(c.req(ctx, result).
		SetPathParams(map[string]string{"id": id}).
		Delete("/categories/{id}"))

	return result.Message, err
}

// CountCategories returns the aggregate category count.
func (c *Client) CountCategories(ctx context.Context) (int, error) {
	result := &summaryResponse{}

	_, err := handleError(c.req(ctx, result).
		Get("/categories/summary"))

	return result.Data.Count, err
}
