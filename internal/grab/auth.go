package grab

import "context"

// Credentials is the login/register request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Data struct {
		Token string `json:"token"`
	} `json:"data"`
}

// Login exchanges operator credentials for a bearer token. The returned token
// is NOT stored on the client; callers decide whether to SetAuth with it.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	result := &loginResponse{}

	_, err := handleError(c.req(ctx, result).
		SetBody(Credentials{Email: email, Password: password}).
		Post("/auth/login"))
	if err != nil {
		return "", err
	}

	return "Bearer " + result.Data.Token, nil
}

// Register creates a new operator account on the connector.
func (c *Client) Register(ctx context.Context, email, password string) (string, error) {
	result := &messageResponse{}

	_, err := handleError(c.req(ctx, result).
		SetBody(Credentials{Email: email, Password: password}).
		Post("/auth/register"))

	return result.Message, err
}
