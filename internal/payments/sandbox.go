package payments

import (
	"context"
	"sync"

	"cinephoria/internal/shared/apperrors"

	"github.com/google/uuid"
)

// SandboxGateway approves every order in process. Used for development and tests.
type SandboxGateway struct {
	mu     sync.Mutex
	orders map[string]Capture
}

func NewSandboxGateway() *SandboxGateway {
	return &SandboxGateway{orders: make(map[string]Capture)}
}

func (g *SandboxGateway) CreateOrder(ctx context.Context, total float64, currency string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := "SANDBOX-" + uuid.NewString()
	g.orders[id] = Capture{OrderID: id, Status: "CREATED", Amount: total, Currency: currency}
	return id, nil
}

// CaptureOrder completes a known order. Capturing twice fails like a real provider does.
func (g *SandboxGateway) CaptureOrder(ctx context.Context, orderID string) (*Capture, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	order, ok := g.orders[orderID]
	if !ok {
		return nil, apperrors.New(apperrors.KindUpstream, "sandbox order not found")
	}
	if order.Status == StatusCompleted {
		return nil, apperrors.New(apperrors.KindUpstream, "sandbox order already captured")
	}

	order.Status = StatusCompleted
	g.orders[orderID] = order
	return &order, nil
}
