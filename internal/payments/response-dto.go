package payments

type CreateOrderResponse struct {
	OrderID string `json:"order_id"`
}
