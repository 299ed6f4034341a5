package grab

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListOrders(t *testing.T) {
	var req *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req = r
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"id":"o1","order_id":"GF-123","store_code":"ST-001","state":"ACCEPTED","amount":45000}],"total":1}`))
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL})
	page, err := client.ListOrders(context.Background(), OrderFilter{
		StoreCode: "ST-001",
		Date:      "2024-03-01",
		Page:      2,
	})
	assert.Nil(t, err)
	assert.Equal(t, "/orders", req.URL.Path)
	assert.Equal(t, "ST-001", req.URL.Query().Get("store_code"))
	assert.Equal(t, "2024-03-01", req.URL.Query().Get("date"))
	assert.Equal(t, "2", req.URL.Query().Get("page"))
	assert.Len(t, page.Orders, 1)
	assert.Equal(t, "GF-123", page.Orders[0].OrderID)
	assert.Equal(t, 1, page.Total)
}

func TestListOrdersEmptyFilter(t *testing.T) {
	var req *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req = r
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[],"total":0}`))
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL})
	_, err := client.ListOrders(context.Background(), OrderFilter{})
	assert.Nil(t, err)
	assert.Equal(t, "", req.URL.RawQuery)
}

func TestSubmitManualOrder(t *testing.T) {
	var req *http.Request
	var body []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req = r
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"order recorded"}`))
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL})
	msg, err := client.SubmitManualOrder(context.Background(), ManualOrder{
		OrderID:   "GF-999",
		StoreCode: "ST-002",
		Amount:    12000,
	})
	assert.Nil(t, err)
	assert.Equal(t, "order recorded", msg)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/orders/submit-manual", req.URL.Path)
	assert.JSONEq(t, `{"order_id":"GF-999","store_code":"ST-002","amount":12000}`, string(body))
}

func TestFinishOrder(t *testing.T) {
	var req *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req = r
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"order finished"}`))
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL})
	msg, err := client.FinishOrder(context.Background(), "o1")
	assert.Nil(t, err)
	assert.Equal(t, "order finished", msg)
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/orders/state-manual/o1", req.URL.Path)
}

func TestOrderTotals(t *testing.T) {
	var req *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req = r
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"count":42,"amount":1800000}}`))
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL})
	summary, err := client.OrderTotals(context.Background(), "2024-03-01", "2024-03-31")
	assert.Nil(t, err)
	assert.Equal(t, "/orders/summary", req.URL.Path)
	assert.Equal(t, "2024-03-01", req.URL.Query().Get("start_date"))
	assert.Equal(t, "2024-03-31", req.URL.Query().Get("end_date"))
	assert.Equal(t, 42, summary.Count)
	assert.Equal(t, 1800000, summary.Amount)
}
