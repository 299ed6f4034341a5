package grab

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListCategories(t *testing.T) {
	var req *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req = r
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"id":"1","code":"drinks","name":"Drinks","parent_category_id":null,"is_active":1,"sub_category":[{"id":"2","code":"soda","name":"Soda","parent_category_id":"1","is_active":1,"sub_category":[]}]}]}`))
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{
		BaseURL: ts.URL,
		Auth:    "Bearer foo",
	})
	categories, err := client.ListCategories(context.Background(), "")
	assert.Nil(t, err)
	assert.Equal(t, "/categories", req.URL.Path)
	assert.Equal(t, "Bearer foo", req.Header.Get("Authorization"))
	assert.Len(t, categories, 1)
	assert.Equal(t, "drinks", categories[0].Code)
	assert.Len(t, categories[0].SubCategory, 1)
	assert.Equal(t, "Soda", categories[0].SubCategory[0].Name)
}

func TestListCategoriesStatusFilter(t *testing.T) {
	var req *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req = r
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[]}`))
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL})
	_, err := client.ListCategories(context.Background(), "active")
	assert.Nil(t, err)
	assert.Equal(t, "status=active", req.URL.RawQuery)
}

func TestListCategoriesRejectsMalformedTree(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// child claims a parent other than the node it is nested under
		w.Write([]byte(`{"data":[{"id":"1","code":"a","name":"A","sub_category":[{"id":"2","code":"b","name":"B","parent_category_id":"9"}]}]}`))
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL})
	_, err := client.ListCategories(context.Background(), "")
	assert.ErrorContains(t, err, "category tree integrity")
}

func TestCreateCategories(t *testing.T) {
	var req *http.Request
	var body []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req = r
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"success":[{"code":"drinks"}],"failed":[{"code":"soda","reason":"duplicate code"}]}}`))
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL})
	parent := "drinks"
	result, err := client.CreateCategories(context.Background(), []NewCategory{
		{Code: "drinks", Name: "Drinks", IsActive: 1},
		{Code: "soda", ParentCode: &parent, Name: "Soda", IsActive: 1},
	})
	assert.Nil(t, err)
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "/categories", req.URL.Path)
	assert.JSONEq(t, `[
		{"code":"drinks","name":"Drinks","is_active":1},
		{"code":"soda","parent_code":"drinks","name":"Soda","is_active":1}
	]`, string(body))
	assert.Len(t, result.Success, 1)
	assert.Len(t, result.Failed, 1)
	assert.Equal(t, "duplicate code", result.Failed[0].Reason)
}

func TestGetCategory(t *testing.T) {
	var req *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req = r
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"id":"42","code":"drinks","name":"Drinks","parent_category_id":null,"is_active":1,"sub_category":[]}}`))
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL})
	category, err := client.GetCategory(context.Background(), "42")
	assert.Nil(t, err)
	assert.Equal(t, "/categories/42", req.URL.Path)
	assert.Equal(t, "drinks", category.Code)
	assert.Equal(t, "Drinks", category.Name)
}

func TestUpdateCategory(t *testing.T) {
	var req *http.Request
	var body []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req = r
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"category updated"}`))
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL})
	name := "Hot Drinks"
	msg, err := client.UpdateCategory(context.Background(), "42", UpdateCategoryParams{Name: &name})
	assert.Nil(t, err)
	assert.Equal(t, "PUT", req.Method)
	assert.Equal(t, "/categories/42", req.URL.Path)
	assert.JSONEq(t, `{"name":"Hot Drinks"}`, string(body))
	assert.Equal(t, "category updated", msg)
}

func TestDeleteCategory(t *testing.T) {
	var req *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req = r
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"category deleted"}`))
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL})
	msg, err := client.DeleteCategory(context.Background(), "42")
	assert.Nil(t, err)
	assert.Equal(t, "DELETE", req.Method)
	assert.Equal(t, "/categories/42", req.URL.Path)
	assert.Equal(t, "category deleted", msg)
}

func TestCountCategories(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"count":17}}`))
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL})
	count, err := client.CountCategories(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, 17, count)
}

func TestAPIErrorUsesServerMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"category code already exists"}`))
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL})
	_, err := client.CreateCategories(context.Background(), []NewCategory{{Code: "x", Name: "X"}})
	assert.Error(t, err)
	apiErr, ok := err.(*APIError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "category code already exists", apiErr.Message)
}

func TestAPIErrorFallbackMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL})
	_, err := client.DeleteCategory(context.Background(), "42")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
	assert.Contains(t, err.Error(), "status: 500")
}
