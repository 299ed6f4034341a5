package grab

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// APIError is a failing connector response (>399 status code). Message is the
// server-supplied reason when the body carried one, otherwise a generic
// description of the failed request.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// errorBody is the connector's standard error envelope.
type errorBody struct {
	Message string `json:"message"`
}

type ClientOpts struct {
	BaseURL string
	Auth    string
}

// Client talks to the merchant connector REST API.
type Client struct {
	httpClient *resty.Client
	baseURL    string
	auth       string
}

func NewClient(opts ClientOpts) *Client {
	c := Client{baseURL: opts.BaseURL}
	if opts.Auth != "" {
		c.auth = opts.Auth
	}
	c.httpClient = resty.New().
		SetDebug(false).
		SetBaseURL(c.baseURL).
		SetHeaders(
			map[string]string{
				"Accept":       "application/json",
				"Content-Type": "application/json",
			},
		)

	return &c
}

// SetAuth sets the authorization header value used for subsequent requests.
func (c *Client) SetAuth(auth string) {
	c.auth = auth
}

// GetAuth returns the authorization header value
func (c *Client) GetAuth() string {
	return c.auth
}

func (c *Client) req(ctx context.Context, result any) *resty.Request {
	request := c.httpClient.
		NewRequest().
		SetContext(ctx).
		SetError(&errorBody{})

	if c.auth != "" {
		request.SetHeader("Authorization", c.auth)
	}
	if result != nil {
		request.SetResult(result)
	}

	return request
}

// handleError is a generic error handler for failing responses. Without this,
// failing responses would have nil error. The server's message field is
// preferred so the operator sees the actual reason, matching the dashboard's
// behavior of falling back to a default message only when the body has none.
func handleError(res *resty.Response, err error) (*resty.Response, error) {
	if err != nil {
		return res, err
	}
	if res.IsError() {
		msg := ""
		if body, ok := res.Error().(*errorBody); ok && body != nil {
			msg = body.Message
		}
		if msg == "" {
			msg = fmt.Sprintf("request failed: %s %s (status: %d)", res.Request.Method, res.Request.URL, res.StatusCode())
		}
		return res, &APIError{StatusCode: res.StatusCode(), Message: msg}
	}

	return res, nil
}
