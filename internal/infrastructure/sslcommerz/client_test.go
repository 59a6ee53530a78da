package sslcommerz

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitSession_PostsFormAndReturnsGatewayURL(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, initPath, r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		got = r.PostForm
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":         "SUCCESS",
			"sessionkey":     "sess-1",
			"GatewayPageURL": "https://sandbox.sslcommerz.com/EasyCheckOut/sess-1",
		})
	}))
	defer srv.Close()

	c := &Client{StoreID: "store", StorePasswd: "secret", BaseURL: srv.URL}
	resp, err := c.InitSession(context.Background(), InitRequest{
		TotalAmount:    decimal.NewFromInt(500),
		Currency:       "BDT",
		TranID:         "AB12CD",
		SuccessURL:     "http://localhost:5000/payment/success/AB12CD",
		FailURL:        "http://localhost:5000/payment/fail/AB12CD",
		CancelURL:      "http://localhost:5000/payment/cancel/AB12CD",
		ProductName:    "Salad, Soup",
		ShippingMethod: "Courier",
		Customer:       Customer{Name: "Customer Name", City: "Dhaka"},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://sandbox.sslcommerz.com/EasyCheckOut/sess-1", resp.GatewayPageURL)

	assert.Equal(t, "store", got.Get("store_id"))
	assert.Equal(t, "secret", got.Get("store_passwd"))
	assert.Equal(t, "500.00", got.Get("total_amount"))
	assert.Equal(t, "BDT", got.Get("currency"))
	assert.Equal(t, "AB12CD", got.Get("tran_id"))
	assert.Equal(t, "Salad, Soup", got.Get("product_name"))
	assert.Equal(t, "Dhaka", got.Get("ship_city"))
	assert.Empty(t, got.Get("ipn_url"))
}

func TestInitSession_FailedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":       "FAILED",
			"failedreason": "Store Credential Error Or Store is De-active",
		})
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL}
	_, err := c.InitSession(context.Background(), InitRequest{TranID: "AB12CD", Currency: "BDT"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Store Credential Error")
}

func TestInitSession_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL}
	_, err := c.InitSession(context.Background(), InitRequest{TranID: "AB12CD"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad gateway")
}

func TestInitSession_RequiresTranID(t *testing.T) {
	c := &Client{BaseURL: "http://127.0.0.1:0"}
	_, err := c.InitSession(context.Background(), InitRequest{})
	require.Error(t, err)
}
