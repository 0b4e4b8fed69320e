// Package payment wraps the Stripe integration: hosted checkout-session
// creation for card orders and signature verification of webhook events.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/megami-llc/order-server/internal/catalog"
	"github.com/megami-llc/order-server/internal/order"
)

// ErrNotConfigured is returned when the Stripe secret key or the webhook
// signing secret is missing for the attempted operation.
var ErrNotConfigured = errors.New("payment: stripe not configured")

const currency = "jpy"

// EventCheckoutCompleted is the processor event confirming a paid checkout.
const EventCheckoutCompleted = "checkout.session.completed"

// Event is the verified webhook payload, reduced to what the handler needs.
type Event struct {
	ID   string
	Type string
	// OrderID is the correlation metadata attached when the checkout
	// session was created. Empty for event types that carry none.
	OrderID string
}

// Client creates checkout sessions and verifies webhook signatures.
type Client struct {
	api           *client.API
	webhookSecret string
	baseURL       string
}

// New builds a Client. secretKey may be empty; checkout-session creation is
// then disabled. webhookSecret may be empty; event verification is then
// disabled. baseURL is where Stripe redirects the customer after checkout.
func New(secretKey, webhookSecret, baseURL string) *Client {
	c := &Client{webhookSecret: webhookSecret, baseURL: baseURL}
	if secretKey != "" {
		c.api = client.New(secretKey, nil)
	}
	return c
}

// Configured reports whether checkout sessions can be created.
func (c *Client) Configured() bool {
	return c.api != nil
}

// WebhookConfigured reports whether webhook events can be verified.
func (c *Client) WebhookConfigured() bool {
	return c.api != nil && c.webhookSecret != ""
}

// CreateCheckoutSession requests a hosted checkout session for the order and
// returns its redirect URL. The order ID travels as session metadata so the
// completion webhook can be correlated back.
func (c *Client) CreateCheckoutSession(ctx context.Context, rec order.Record) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	params := &stripe.CheckoutSessionParams{
		Params:             stripe.Params{Context: ctx},
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:          buildLineItems(rec),
		SuccessURL:         stripe.String(c.baseURL + "/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:          stripe.String(c.baseURL + "/cancel"),
	}
	params.AddMetadata("orderId", rec.ID)

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("payment: create checkout session for %s: %w", rec.ID, err)
	}
	return sess.URL, nil
}

// VerifyEvent checks the webhook signature and extracts the order ID from a
// completed checkout session.
func (c *Client) VerifyEvent(payload []byte, sigHeader string) (Event, error) {
	if !c.WebhookConfigured() {
		return Event{}, ErrNotConfigured
	}

	ev, err := webhook.ConstructEvent(payload, sigHeader, c.webhookSecret)
	if err != nil {
		return Event{}, fmt.Errorf("payment: webhook signature verification failed: %w", err)
	}

	out := Event{ID: ev.ID, Type: string(ev.Type)}
	if out.Type == EventCheckoutCompleted {
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(ev.Data.Raw, &sess); err != nil {
			return Event{}, fmt.Errorf("payment: decode checkout session: %w", err)
		}
		out.OrderID = sess.Metadata["orderId"]
	}
	return out, nil
}

// buildLineItems maps purchased quantities to checkout line items, plus one
// shipping line when shipping is charged.
func buildLineItems(rec order.Record) []*stripe.CheckoutSessionLineItemParams {
	var items []*stripe.CheckoutSessionLineItemParams

	addProduct := func(p catalog.Product, qty int) {
		if qty <= 0 {
			return
		}
		items = append(items, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String(p.Name),
					Description: stripe.String(p.Code),
				},
				UnitAmount: stripe.Int64(p.Price),
			},
			Quantity: stripe.Int64(int64(qty)),
		})
	}

	addProduct(catalog.Megami, rec.MegamiQuantity)
	addProduct(catalog.Leaflet, rec.LeafletQuantity)

	if rec.Shipping > 0 {
		items = append(items, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String("送料"),
				},
				UnitAmount: stripe.Int64(rec.Shipping),
			},
			Quantity: stripe.Int64(1),
		})
	}

	return items
}
