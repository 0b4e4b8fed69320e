package httpx

// OrderResponse is the aggregated result returned for POST /api/orders.
// Partial collaborator failures are visible only through Services; the HTTP
// status stays 200.
type OrderResponse struct {
	Success    bool         `json:"success"`
	OrderID    string       `json:"orderId"`
	PaymentURL *string      `json:"paymentUrl"`
	Services   ServiceFlags `json:"services"`
}

// ServiceFlags reports which collaborators succeeded for this order.
type ServiceFlags struct {
	Sheets     bool `json:"sheets"`
	Email      bool `json:"email"`
	AdminEmail bool `json:"adminEmail"`
}

// ErrorResponse is the generic failure body.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// HealthResponse reports liveness and which collaborators are configured.
type HealthResponse struct {
	Status   string         `json:"status"`
	Services HealthServices `json:"services"`
}

type HealthServices struct {
	Stripe bool `json:"stripe"`
	Resend bool `json:"resend"`
	Sheets bool `json:"sheets"`
}

// WebhookAck acknowledges a processed webhook delivery.
type WebhookAck struct {
	Received bool `json:"received"`
}
