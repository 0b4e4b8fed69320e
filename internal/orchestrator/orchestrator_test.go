package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/megami-llc/order-server/internal/ledger"
	"github.com/megami-llc/order-server/internal/mailer"
	"github.com/megami-llc/order-server/internal/order"
	"github.com/megami-llc/order-server/internal/orderlog"
)

type fakeLedger struct {
	mu    sync.Mutex
	calls int
	rec   order.Record
	err   error
}

func (f *fakeLedger) Append(_ context.Context, rec order.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.rec = rec
	return f.err
}

type fakeMailer struct {
	mu         sync.Mutex
	confirmErr error
	adminErr   error
	confirms   int
	alerts     int
}

func (f *fakeMailer) SendConfirmation(_ context.Context, _ order.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirms++
	return f.confirmErr
}

func (f *fakeMailer) SendAdminAlert(_ context.Context, _ order.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts++
	return f.adminErr
}

type fakeCheckout struct {
	configured bool
	url        string
	err        error
	calls      int
}

func (f *fakeCheckout) Configured() bool { return f.configured }

func (f *fakeCheckout) CreateCheckoutSession(_ context.Context, _ order.Record) (string, error) {
	f.calls++
	return f.url, f.err
}

type memLog struct {
	mu      sync.Mutex
	entries []*orderlog.Entry
}

func (m *memLog) Save(_ context.Context, entry *orderlog.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memLog) events() []orderlog.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]orderlog.Event, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Event
	}
	return out
}

func cardRequest() order.Request {
	return order.Request{
		MegamiQuantity: 1,
		OrderType:      order.OrderTypeFirst,
		LastName:       "山田",
		FirstName:      "花子",
		Email:          "hanako@example.com",
		PaymentMethod:  order.PaymentCreditCard,
	}
}

func TestProcessAllSucceed(t *testing.T) {
	lw := &fakeLedger{}
	fm := &fakeMailer{}
	fc := &fakeCheckout{configured: true, url: "https://checkout.stripe.com/pay/cs_test_1"}
	alog := &memLog{}

	res := New(lw, fm, fc, alog).Process(context.Background(), cardRequest())

	assert.True(t, res.Sheets)
	assert.True(t, res.Email)
	assert.True(t, res.AdminEmail)
	require.NotNil(t, res.PaymentURL)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_test_1", *res.PaymentURL)
	assert.NotEmpty(t, res.OrderID)

	assert.Equal(t, 1, lw.calls)
	assert.Equal(t, 1, fm.confirms)
	assert.Equal(t, 1, fm.alerts)
	assert.Equal(t, 1, fc.calls)

	// Pricing flows into the ledger record.
	assert.Equal(t, int64(3894), lw.rec.Subtotal)
	assert.Equal(t, int64(1100), lw.rec.Shipping)
	assert.Equal(t, int64(4994), lw.rec.Total)

	assert.Contains(t, alog.events(), orderlog.EventReceived)
	assert.Contains(t, alog.events(), orderlog.EventLedgerOK)
	assert.Contains(t, alog.events(), orderlog.EventCheckoutOK)
}

func TestProcessLedgerFailureIsNonFatal(t *testing.T) {
	lw := &fakeLedger{err: ledger.ErrNotConfigured}
	fm := &fakeMailer{}
	fc := &fakeCheckout{configured: true, url: "https://checkout.stripe.com/pay/cs_test_2"}

	res := New(lw, fm, fc, nil).Process(context.Background(), cardRequest())

	assert.False(t, res.Sheets)
	assert.True(t, res.Email)
	assert.True(t, res.AdminEmail)
	assert.NotNil(t, res.PaymentURL)
}

func TestProcessEmailFailuresAreIndependent(t *testing.T) {
	lw := &fakeLedger{}
	fm := &fakeMailer{confirmErr: errors.New("resend unavailable"), adminErr: mailer.ErrNotConfigured}
	fc := &fakeCheckout{configured: true, url: "https://example.com"}

	res := New(lw, fm, fc, nil).Process(context.Background(), cardRequest())

	assert.True(t, res.Sheets)
	assert.False(t, res.Email)
	assert.False(t, res.AdminEmail)
	assert.Equal(t, 1, fm.confirms)
	assert.Equal(t, 1, fm.alerts)
}

func TestProcessBankTransferSkipsCheckout(t *testing.T) {
	lw := &fakeLedger{}
	fm := &fakeMailer{}
	fc := &fakeCheckout{configured: true, url: "https://example.com"}
	alog := &memLog{}

	req := cardRequest()
	req.PaymentMethod = order.PaymentBankTransfer

	res := New(lw, fm, fc, alog).Process(context.Background(), req)

	assert.Nil(t, res.PaymentURL)
	assert.Zero(t, fc.calls)
	assert.Contains(t, alog.events(), orderlog.EventCheckoutSkipped)
}

func TestProcessCheckoutErrorDegrades(t *testing.T) {
	lw := &fakeLedger{}
	fm := &fakeMailer{}
	fc := &fakeCheckout{configured: true, err: errors.New("stripe 500")}
	alog := &memLog{}

	res := New(lw, fm, fc, alog).Process(context.Background(), cardRequest())

	// Processor failure degrades to no payment URL; nothing else changes.
	assert.Nil(t, res.PaymentURL)
	assert.True(t, res.Sheets)
	assert.True(t, res.Email)
	assert.True(t, res.AdminEmail)
	assert.Contains(t, alog.events(), orderlog.EventCheckoutFailed)
}

func TestProcessCheckoutUnconfiguredSkips(t *testing.T) {
	lw := &fakeLedger{}
	fm := &fakeMailer{}
	fc := &fakeCheckout{configured: false}

	res := New(lw, fm, fc, nil).Process(context.Background(), cardRequest())

	assert.Nil(t, res.PaymentURL)
	assert.Zero(t, fc.calls)
}
