package grab

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogin(t *testing.T) {
	var req *http.Request
	var body []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req = r
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"token":"tok-abc"}}`))
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL})
	token, err := client.Login(context.Background(), "ops@example.com", "hunter2")
	assert.Nil(t, err)
	assert.Equal(t, "/auth/login", req.URL.Path)
	assert.JSONEq(t, `{"email":"ops@example.com","password":"hunter2"}`, string(body))
	assert.Equal(t, "Bearer tok-abc", token)
	// Login never stores the token itself.
	assert.Equal(t, "", client.GetAuth())
}

func TestLoginBadCredentials(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid credentials"}`))
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL})
	_, err := client.Login(context.Background(), "ops@example.com", "wrong")
	assert.ErrorContains(t, err, "invalid credentials")
}

func TestRegister(t *testing.T) {
	var req *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req = r
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"account created"}`))
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL})
	msg, err := client.Register(context.Background(), "new@example.com", "hunter2")
	assert.Nil(t, err)
	assert.Equal(t, "/auth/register", req.URL.Path)
	assert.Equal(t, "account created", msg)
}
