// Package orchestrator sequences the order workflow: price the request,
// assign an ID, fan out to the ledger and the two notification emails, then
// attempt a checkout session for card orders.
//
// Every collaborator failure is contained at its call site and surfaced as a
// boolean flag in the aggregated Result; no failure cancels a sibling call
// and nothing is retried or rolled back.
package orchestrator

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/megami-llc/order-server/internal/ledger"
	"github.com/megami-llc/order-server/internal/mailer"
	"github.com/megami-llc/order-server/internal/order"
	"github.com/megami-llc/order-server/internal/orderlog"
)

// LedgerWriter appends one row per order to the external ledger.
type LedgerWriter interface {
	Append(ctx context.Context, rec order.Record) error
}

// Mailer sends the two order notification emails.
type Mailer interface {
	SendConfirmation(ctx context.Context, rec order.Record) error
	SendAdminAlert(ctx context.Context, rec order.Record) error
}

// CheckoutCreator requests a hosted payment session from the processor.
type CheckoutCreator interface {
	Configured() bool
	CreateCheckoutSession(ctx context.Context, rec order.Record) (string, error)
}

// Result is the aggregated outcome of one order request.
type Result struct {
	OrderID string
	// PaymentURL is nil unless a checkout session was created.
	PaymentURL *string
	Sheets     bool
	Email      bool
	AdminEmail bool
}

// Orchestrator runs the order workflow. It holds only read-only collaborator
// handles; there is no cross-request state.
type Orchestrator struct {
	ledger   LedgerWriter
	mailer   Mailer
	checkout CheckoutCreator
	log      orderlog.Repository // nil disables audit logging
}

func New(lw LedgerWriter, m Mailer, cc CheckoutCreator, log orderlog.Repository) *Orchestrator {
	return &Orchestrator{ledger: lw, mailer: m, checkout: cc, log: log}
}

// Process runs the full workflow for one validated request.
func (o *Orchestrator) Process(ctx context.Context, req order.Request) Result {
	rec := order.NewRecord(req)
	res := Result{OrderID: rec.ID}

	slog.InfoContext(ctx, "processing order",
		"order_id", rec.ID,
		"payment_method", string(rec.PaymentMethod),
		"subtotal", rec.Subtotal,
		"shipping", rec.Shipping,
		"total", rec.Total,
	)
	o.record(ctx, rec.ID, orderlog.EventReceived, "")

	// The three collaborator calls share no state and may run concurrently;
	// each records its own outcome and never returns an error, so one
	// failure cannot cancel a sibling.
	g := new(errgroup.Group)
	g.Go(func() error {
		res.Sheets = o.appendLedger(ctx, rec)
		return nil
	})
	g.Go(func() error {
		res.Email = o.sendConfirmation(ctx, rec)
		return nil
	})
	g.Go(func() error {
		res.AdminEmail = o.sendAdminAlert(ctx, rec)
		return nil
	})
	_ = g.Wait()

	res.PaymentURL = o.attemptCheckout(ctx, rec)

	return res
}

func (o *Orchestrator) appendLedger(ctx context.Context, rec order.Record) bool {
	err := o.ledger.Append(ctx, rec)
	if err == nil {
		o.record(ctx, rec.ID, orderlog.EventLedgerOK, "")
		return true
	}
	if errors.Is(err, ledger.ErrNotConfigured) {
		slog.WarnContext(ctx, "ledger not configured, skipping append", "order_id", rec.ID)
	} else {
		slog.ErrorContext(ctx, "ledger append failed", "order_id", rec.ID, "error", err)
	}
	o.record(ctx, rec.ID, orderlog.EventLedgerFailed, err.Error())
	return false
}

func (o *Orchestrator) sendConfirmation(ctx context.Context, rec order.Record) bool {
	err := o.mailer.SendConfirmation(ctx, rec)
	if err == nil {
		o.record(ctx, rec.ID, orderlog.EventEmailOK, "")
		return true
	}
	if errors.Is(err, mailer.ErrNotConfigured) {
		slog.WarnContext(ctx, "email service not configured, skipping confirmation", "order_id", rec.ID)
	} else {
		slog.ErrorContext(ctx, "confirmation email failed", "order_id", rec.ID, "error", err)
	}
	o.record(ctx, rec.ID, orderlog.EventEmailFailed, err.Error())
	return false
}

func (o *Orchestrator) sendAdminAlert(ctx context.Context, rec order.Record) bool {
	err := o.mailer.SendAdminAlert(ctx, rec)
	if err == nil {
		o.record(ctx, rec.ID, orderlog.EventAdminEmailOK, "")
		return true
	}
	if errors.Is(err, mailer.ErrNotConfigured) {
		slog.WarnContext(ctx, "admin email not configured, skipping alert", "order_id", rec.ID)
	} else {
		slog.ErrorContext(ctx, "admin alert email failed", "order_id", rec.ID, "error", err)
	}
	o.record(ctx, rec.ID, orderlog.EventAdminEmailFailed, err.Error())
	return false
}

// attemptCheckout creates a checkout session for card orders. A processor
// error degrades to a nil URL rather than failing the order; bank-transfer
// orders are confirmed out-of-band and skip the processor entirely.
func (o *Orchestrator) attemptCheckout(ctx context.Context, rec order.Record) *string {
	if rec.PaymentMethod != order.PaymentCreditCard || o.checkout == nil || !o.checkout.Configured() {
		o.record(ctx, rec.ID, orderlog.EventCheckoutSkipped, string(rec.PaymentMethod))
		return nil
	}

	url, err := o.checkout.CreateCheckoutSession(ctx, rec)
	if err != nil {
		slog.ErrorContext(ctx, "checkout session creation failed", "order_id", rec.ID, "error", err)
		o.record(ctx, rec.ID, orderlog.EventCheckoutFailed, err.Error())
		return nil
	}

	slog.InfoContext(ctx, "checkout session created", "order_id", rec.ID)
	o.record(ctx, rec.ID, orderlog.EventCheckoutOK, "")
	return &url
}

// record appends an audit event; failures are logged and swallowed so the
// order path never depends on the audit log.
func (o *Orchestrator) record(ctx context.Context, orderID string, event orderlog.Event, detail string) {
	if o.log == nil {
		return
	}
	if err := o.log.Save(ctx, orderlog.NewEntry(ctx, orderID, event, detail)); err != nil {
		slog.WarnContext(ctx, "order audit log write failed", "order_id", orderID, "event", string(event), "error", err)
	}
}
