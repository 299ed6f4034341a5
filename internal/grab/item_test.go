package grab

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetItem(t *testing.T) {
	var req *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req = r
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"id":"i1","code":"SKU-1","name":"Iced Tea","price":15000,"is_active":1}}`))
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL})
	item, err := client.GetItem(context.Background(), "i1")
	assert.Nil(t, err)
	assert.Equal(t, "/items/i1", req.URL.Path)
	assert.Equal(t, "SKU-1", item.Code)
	assert.Equal(t, 15000, item.Price)
}

func TestSyncItemProfit(t *testing.T) {
	var req *http.Request
	var body []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req = r
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"profit sync queued"}`))
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL})
	msg, err := client.SyncItemProfit(context.Background(), "SKU-1")
	assert.Nil(t, err)
	assert.Equal(t, "profit sync queued", msg)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/items/store", req.URL.Path)
	assert.JSONEq(t, `{"sku":"SKU-1"}`, string(body))
}

func TestUpdateStoreItem(t *testing.T) {
	var req *http.Request
	var body []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req = r
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"override updated"}`))
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL})
	price := 18000
	msg, err := client.UpdateStoreItem(context.Background(), "i1", UpdateItemParams{Price: &price})
	assert.Nil(t, err)
	assert.Equal(t, "override updated", msg)
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/items/store/i1", req.URL.Path)
	assert.JSONEq(t, `{"price":18000}`, string(body))
}

func TestDeleteStoreItem(t *testing.T) {
	var req *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req = r
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"override removed"}`))
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL})
	msg, err := client.DeleteStoreItem(context.Background(), "i1")
	assert.Nil(t, err)
	assert.Equal(t, "override removed", msg)
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "/items/store/i1", req.URL.Path)
}
