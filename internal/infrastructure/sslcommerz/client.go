// Package sslcommerz is a minimal client for the SSLCommerz hosted checkout
// session API.
package sslcommerz

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	SandboxBaseURL = "https://sandbox.sslcommerz.com"
	LiveBaseURL    = "https://securepay.sslcommerz.com"

	initPath = "/gwprocess/v4/api.php"
)

type Client struct {
	StoreID     string
	StorePasswd string
	Live        bool
	// BaseURL overrides the sandbox/live host, mostly for tests.
	BaseURL string
	HTTP    *http.Client
}

type Customer struct {
	Name     string
	Email    string
	Address  string
	City     string
	State    string
	Postcode string
	Country  string
	Phone    string
}

type InitRequest struct {
	TotalAmount     decimal.Decimal
	Currency        string
	TranID          string
	SuccessURL      string
	FailURL         string
	CancelURL       string
	IPNURL          string
	ProductName     string
	ProductCategory string
	ProductProfile  string
	ShippingMethod  string
	Customer        Customer
}

type InitResponse struct {
	Status         string `json:"status"`
	FailedReason   string `json:"failedreason"`
	SessionKey     string `json:"sessionkey"`
	GatewayPageURL string `json:"GatewayPageURL"`
}

// InitSession opens a hosted checkout session. A response whose status is not
// SUCCESS, or that carries no GatewayPageURL, is an error.
func (c *Client) InitSession(ctx context.Context, req InitRequest) (InitResponse, error) {
	if strings.TrimSpace(req.TranID) == "" {
		return InitResponse{}, errors.New("tran_id required")
	}
	values := req.values()
	values.Set("store_id", c.StoreID)
	values.Set("store_passwd", c.StorePasswd)
	var out InitResponse
	if err := c.postForm(ctx, initPath, values, &out); err != nil {
		return out, err
	}
	if !strings.EqualFold(out.Status, "SUCCESS") || strings.TrimSpace(out.GatewayPageURL) == "" {
		reason := strings.TrimSpace(out.FailedReason)
		if reason == "" {
			reason = "session status " + out.Status
		}
		return out, errors.New(reason)
	}
	return out, nil
}

func (r InitRequest) values() url.Values {
	values := url.Values{}
	values.Set("total_amount", r.TotalAmount.StringFixed(2))
	values.Set("currency", r.Currency)
	values.Set("tran_id", r.TranID)
	values.Set("success_url", r.SuccessURL)
	values.Set("fail_url", r.FailURL)
	values.Set("cancel_url", r.CancelURL)
	if r.IPNURL != "" {
		values.Set("ipn_url", r.IPNURL)
	}
	values.Set("product_name", r.ProductName)
	values.Set("product_category", r.ProductCategory)
	values.Set("product_profile", r.ProductProfile)
	values.Set("shipping_method", r.ShippingMethod)

	cus := r.Customer
	values.Set("cus_name", cus.Name)
	values.Set("cus_email", cus.Email)
	values.Set("cus_add1", cus.Address)
	values.Set("cus_city", cus.City)
	values.Set("cus_state", cus.State)
	values.Set("cus_postcode", cus.Postcode)
	values.Set("cus_country", cus.Country)
	values.Set("cus_phone", cus.Phone)
	if !strings.EqualFold(r.ShippingMethod, "NO") {
		values.Set("ship_name", cus.Name)
		values.Set("ship_add1", cus.Address)
		values.Set("ship_city", cus.City)
		values.Set("ship_state", cus.State)
		values.Set("ship_postcode", cus.Postcode)
		values.Set("ship_country", cus.Country)
	}
	return values
}

func (c *Client) postForm(ctx context.Context, path string, values url.Values, out any) error {
	base := strings.TrimSpace(c.BaseURL)
	if base == "" {
		base = SandboxBaseURL
		if c.Live {
			base = LiveBaseURL
		}
	}
	u := strings.TrimRight(base, "/") + path
	hc := c.HTTP
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(values.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return errors.New(strings.TrimSpace(string(body)))
	}
	return json.Unmarshal(body, out)
}
