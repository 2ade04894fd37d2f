package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"cinephoria/internal/shared/apperrors"
	"cinephoria/internal/shared/config"
)

// PayPalGateway talks to the PayPal REST API (v2 checkout orders, client credentials auth)
type PayPalGateway struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type amount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type createOrderRequest struct {
	Intent        string         `json:"intent"`
	PurchaseUnits []purchaseUnit `json:"purchase_units"`
}

type purchaseUnit struct {
	Amount   amount             `json:"amount"`
	Payments *paymentCollection `json:"payments,omitempty"`
}

type paymentCollection struct {
	Captures []capture `json:"captures"`
}

type capture struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount amount `json:"amount"`
}

type orderResponse struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	PurchaseUnits []purchaseUnit `json:"purchase_units"`
}

func NewPayPalGateway(cfg config.PaymentConfig) *PayPalGateway {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}

	return &PayPalGateway{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (g *PayPalGateway) CreateOrder(ctx context.Context, total float64, currency string) (string, error) {
	body := createOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []purchaseUnit{{
			Amount: amount{CurrencyCode: currency, Value: strconv.FormatFloat(total, 'f', 2, 64)},
		}},
	}

	var order orderResponse
	if err := g.doJSON(ctx, http.MethodPost, "/v2/checkout/orders", body, http.StatusCreated, &order); err != nil {
		return "", err
	}
	if order.ID == "" {
		return "", apperrors.New(apperrors.KindUpstream, "paypal returned an order without id")
	}
	return order.ID, nil
}

func (g *PayPalGateway) CaptureOrder(ctx context.Context, orderID string) (*Capture, error) {
	var order orderResponse
	path := "/v2/checkout/orders/" + url.PathEscape(orderID) + "/capture"
	if err := g.doJSON(ctx, http.MethodPost, path, nil, http.StatusCreated, &order); err != nil {
		return nil, err
	}

	result := &Capture{OrderID: order.ID, Status: order.Status}
	for _, unit := range order.PurchaseUnits {
		if unit.Payments == nil {
			continue
		}
		for _, c := range unit.Payments.Captures {
			value, err := strconv.ParseFloat(c.Amount.Value, 64)
			if err != nil {
				return nil, apperrors.Wrap(apperrors.KindUpstream, "paypal returned an unreadable amount", err)
			}
			result.Amount += value
			result.Currency = c.Amount.CurrencyCode
		}
	}
	return result, nil
}

func (g *PayPalGateway) doJSON(ctx context.Context, method, path string, body interface{}, wantStatus int, out interface{}) error {
	token, err := g.token(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.KindUpstream, "paypal request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return apperrors.New(apperrors.KindUpstream, fmt.Sprintf("paypal %s %s returned %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(detail))))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrap(apperrors.KindUpstream, "failed to decode paypal response", err)
	}
	return nil
}

// token returns a cached access token, fetching a new one shortly before expiry
func (g *PayPalGateway) token(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.accessToken != "" && time.Now().Before(g.tokenExpiry) {
		return g.accessToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.SetBasicAuth(g.clientID, g.clientSecret)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindUpstream, "paypal token request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperrors.New(apperrors.KindUpstream, fmt.Sprintf("paypal token request returned %d", resp.StatusCode))
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", apperrors.Wrap(apperrors.KindUpstream, "failed to decode paypal token", err)
	}

	g.accessToken = tr.AccessToken
	// refresh a minute early
	g.tokenExpiry = time.Now().Add(time.Duration(tr.ExpiresIn)*time.Second - time.Minute)
	return g.accessToken, nil
}
