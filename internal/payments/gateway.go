package payments

import (
	"context"
	"fmt"
	"strings"

	"cinephoria/internal/shared/config"
)

const (
	ProviderSandbox = "sandbox"
	ProviderPayPal  = "paypal"

	StatusCompleted = "COMPLETED"
)

// Gateway is the external payment collaborator
type Gateway interface {
	CreateOrder(ctx context.Context, amount float64, currency string) (string, error)
	CaptureOrder(ctx context.Context, orderID string) (*Capture, error)
}

// Capture is the outcome of capturing an order. Only StatusCompleted means the money moved.
type Capture struct {
	OrderID  string
	Status   string
	Amount   float64
	Currency string
}

// NewGateway builds the gateway named by cfg.Provider
func NewGateway(cfg config.PaymentConfig) (Gateway, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderSandbox, "":
		return NewSandboxGateway(), nil
	case ProviderPayPal:
		if cfg.ClientID == "" || cfg.ClientSecret == "" {
			return nil, fmt.Errorf("paypal provider requires PAYPAL_CLIENT_ID and PAYPAL_CLIENT_SECRET")
		}
		return NewPayPalGateway(cfg), nil
	default:
		return nil, fmt.Errorf("unknown payment provider %q", cfg.Provider)
	}
}
