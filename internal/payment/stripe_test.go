package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/megami-llc/order-server/internal/order"
)

func testRecord() order.Record {
	return order.Record{
		Request: order.Request{
			MegamiQuantity:  1,
			LeafletQuantity: 2,
			PaymentMethod:   order.PaymentCreditCard,
		},
		ID:       "ORD-1756700000000-abc123def",
		Subtotal: 3938,
		Shipping: 1100,
		Total:    5038,
	}
}

func TestBuildLineItems(t *testing.T) {
	items := buildLineItems(testRecord())
	require.Len(t, items, 3, "two products plus the shipping line")

	assert.Equal(t, "I am MEGAMI フェイシャルパック", *items[0].PriceData.ProductData.Name)
	assert.Equal(t, "MGM-001", *items[0].PriceData.ProductData.Description)
	assert.Equal(t, int64(3894), *items[0].PriceData.UnitAmount)
	assert.Equal(t, int64(1), *items[0].Quantity)
	assert.Equal(t, "jpy", *items[0].PriceData.Currency)

	assert.Equal(t, "MGM-002", *items[1].PriceData.ProductData.Description)
	assert.Equal(t, int64(2), *items[1].Quantity)

	assert.Equal(t, "送料", *items[2].PriceData.ProductData.Name)
	assert.Equal(t, int64(1100), *items[2].PriceData.UnitAmount)
	assert.Equal(t, int64(1), *items[2].Quantity)
}

func TestBuildLineItemsFreeShipping(t *testing.T) {
	rec := testRecord()
	rec.LeafletQuantity = 0
	rec.MegamiQuantity = 8
	rec.Shipping = 0

	items := buildLineItems(rec)
	require.Len(t, items, 1, "no shipping line when shipping is waived")
	assert.Equal(t, int64(8), *items[0].Quantity)
}

func TestCreateCheckoutSessionNotConfigured(t *testing.T) {
	c := New("", "", "http://localhost:8080")
	assert.False(t, c.Configured())

	_, err := c.CreateCheckoutSession(context.Background(), testRecord())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestVerifyEventNotConfigured(t *testing.T) {
	t.Run("no webhook secret", func(t *testing.T) {
		c := New("sk_test_123", "", "http://localhost:8080")
		assert.False(t, c.WebhookConfigured())

		_, err := c.VerifyEvent([]byte(`{}`), "sig")
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("no client", func(t *testing.T) {
		c := New("", "whsec_test", "http://localhost:8080")
		_, err := c.VerifyEvent([]byte(`{}`), "sig")
		assert.ErrorIs(t, err, ErrNotConfigured)
	})
}

func TestVerifyEventBadSignature(t *testing.T) {
	c := New("sk_test_123", "whsec_test_secret", "http://localhost:8080")
	require.True(t, c.WebhookConfigured())

	_, err := c.VerifyEvent([]byte(`{"id":"evt_1","type":"checkout.session.completed"}`), "t=1,v1=deadbeef")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotConfigured)
}
