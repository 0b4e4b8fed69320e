package httpx

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/megami-llc/order-server/internal/cache"
	"github.com/megami-llc/order-server/internal/orchestrator"
	"github.com/megami-llc/order-server/internal/order"
	"github.com/megami-llc/order-server/internal/orderlog"
	"github.com/megami-llc/order-server/internal/payment"
)

// webhook bodies are small; cap reads well above any real event size.
const maxWebhookBody = 1 << 16

// seenEventTTL bounds how long processed webhook event IDs are remembered.
const seenEventTTL = 24 * time.Hour

// OrderProcessor runs the order workflow and aggregates the outcome.
type OrderProcessor interface {
	Process(ctx context.Context, req order.Request) orchestrator.Result
}

// EventVerifier verifies webhook signatures and extracts the order ID.
type EventVerifier interface {
	WebhookConfigured() bool
	VerifyEvent(payload []byte, sigHeader string) (payment.Event, error)
}

// PaymentStatusUpdater rewrites an order's payment status in the ledger.
type PaymentStatusUpdater interface {
	UpdatePaymentStatus(ctx context.Context, orderID, status string) error
}

// Handler serves the storefront API.
type Handler struct {
	orchestrator OrderProcessor
	verifier     EventVerifier
	statuses     PaymentStatusUpdater
	seen         cache.SeenStore     // nil: webhook dedupe disabled
	log          orderlog.Repository // nil: audit logging disabled
	health       HealthServices
}

// NewHandler wires the handler. seen and log may be nil.
func NewHandler(
	op OrderProcessor,
	ev EventVerifier,
	su PaymentStatusUpdater,
	seen cache.SeenStore,
	log orderlog.Repository,
	health HealthServices,
) *Handler {
	return &Handler{
		orchestrator: op,
		verifier:     ev,
		statuses:     su,
		seen:         seen,
		log:          log,
		health:       health,
	}
}

// CreateOrder validates the submitted order and runs the workflow. Partial
// collaborator failures still yield a 200; only an unexpected panic in the
// workflow produces the generic 500.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.ErrorContext(r.Context(), "order processing panicked", "panic", rec)
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to process order"})
		}
	}()

	var req order.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	res := h.orchestrator.Process(r.Context(), req)

	writeJSON(w, http.StatusOK, OrderResponse{
		Success:    true,
		OrderID:    res.OrderID,
		PaymentURL: res.PaymentURL,
		Services: ServiceFlags{
			Sheets:     res.Sheets,
			Email:      res.Email,
			AdminEmail: res.AdminEmail,
		},
	})
}

// StripeWebhook verifies and processes asynchronous payment events. The raw
// body is required for signature verification. Bad or missing signatures and
// missing configuration reject with 400; once verified, processing failures
// are logged but still acknowledged so the processor stops redelivering.
func (h *Handler) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.verifier == nil || !h.verifier.WebhookConfigured() {
		http.Error(w, "Webhook not configured", http.StatusBadRequest)
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	event, err := h.verifier.VerifyEvent(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		slog.WarnContext(ctx, "webhook rejected", "error", err)
		http.Error(w, "Webhook Error: signature verification failed", http.StatusBadRequest)
		return
	}

	if h.seen != nil {
		first, err := h.seen.MarkSeen(ctx, event.ID, seenEventTTL)
		if err != nil {
			// Dedupe is best-effort; process the event anyway.
			slog.WarnContext(ctx, "webhook dedupe unavailable", "event_id", event.ID, "error", err)
		} else if !first {
			slog.InfoContext(ctx, "duplicate webhook delivery dropped", "event_id", event.ID)
			writeJSON(w, http.StatusOK, WebhookAck{Received: true})
			return
		}
	}

	if event.Type == payment.EventCheckoutCompleted {
		h.handlePaymentCompleted(ctx, event)
	}

	writeJSON(w, http.StatusOK, WebhookAck{Received: true})
}

func (h *Handler) handlePaymentCompleted(ctx context.Context, event payment.Event) {
	slog.InfoContext(ctx, "payment completed", "order_id", event.OrderID, "event_id", event.ID)
	if event.OrderID == "" {
		slog.WarnContext(ctx, "completed checkout session carries no order id", "event_id", event.ID)
		return
	}

	if h.statuses != nil {
		if err := h.statuses.UpdatePaymentStatus(ctx, event.OrderID, "paid"); err != nil {
			slog.ErrorContext(ctx, "payment status update failed", "order_id", event.OrderID, "error", err)
		}
	}

	if h.log != nil {
		entry := orderlog.NewEntry(ctx, event.OrderID, orderlog.EventPaymentCompleted, event.ID)
		if err := h.log.Save(ctx, entry); err != nil {
			slog.WarnContext(ctx, "order audit log write failed", "order_id", event.OrderID, "error", err)
		}
	}
}

// Health reports liveness and the configured flag per collaborator.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "OK",
		Services: h.health,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
