// Package orderlog defines a local append-only audit trail of order
// processing. Each collaborator outcome (ledger append, email sends,
// checkout attempt) and each verified payment completion becomes one
// immutable event row, correlated with the distributed trace via trace_id.
//
// The log is purely observational: the order path never fails because a log
// write failed, and a nil Repository disables logging entirely.
package orderlog

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Event names a single order-processing outcome.
type Event string

const (
	EventReceived Event = "received"

	EventLedgerOK     Event = "ledger_ok"
	EventLedgerFailed Event = "ledger_failed"

	EventEmailOK     Event = "email_ok"
	EventEmailFailed Event = "email_failed"

	EventAdminEmailOK     Event = "admin_email_ok"
	EventAdminEmailFailed Event = "admin_email_failed"

	EventCheckoutOK      Event = "checkout_ok"
	EventCheckoutFailed  Event = "checkout_failed"
	EventCheckoutSkipped Event = "checkout_skipped"

	EventPaymentCompleted Event = "payment_completed"
)

// Entry is one row in the order_events table.
type Entry struct {
	OrderID string
	Event   Event

	// Detail carries the failure reason or other free-form context.
	Detail string

	// TraceID and SpanID link the row to the active OTel trace, when any.
	TraceID string
	SpanID  string

	CreatedAt time.Time
}

// Repository is the port for persisting audit entries. The table is
// append-only; Save always inserts a new row.
type Repository interface {
	Save(ctx context.Context, entry *Entry) error
}

// NewEntry builds an Entry with trace identifiers extracted from ctx.
// Both are empty when no span is active (e.g. in tests).
func NewEntry(ctx context.Context, orderID string, event Event, detail string) *Entry {
	entry := &Entry{
		OrderID:   orderID,
		Event:     event,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		entry.TraceID = sc.TraceID().String()
		entry.SpanID = sc.SpanID().String()
	}
	return entry
}
