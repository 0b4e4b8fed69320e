// Package ledger appends order rows to the Google Sheets ledger.
//
// The spreadsheet is the only durable record of an order this system keeps:
// one row per order, columns A–Q in a fixed layout. The Sheets API is hidden
// behind a small values port so the writer can be tested without the network.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/megami-llc/order-server/internal/order"
)

// ErrNotConfigured is returned when the spreadsheet credentials or ID are
// missing. The caller reports the ledger as unavailable; no network call is
// attempted.
var ErrNotConfigured = errors.New("ledger: google sheets not configured")

// ErrOrderNotFound is returned by UpdatePaymentStatus when no ledger row
// carries the given order ID.
var ErrOrderNotFound = errors.New("ledger: order not found")

// appendRange covers the full row layout; Sheets finds the first free row.
const appendRange = "A:Q"

// PaymentStatusPending is the status written on append; the webhook rewrites
// it to PaymentStatusPaid once the processor confirms the charge.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// ValuesAPI is the slice of the Sheets values API the writer needs.
type ValuesAPI interface {
	Append(ctx context.Context, spreadsheetID, readRange string, row []any) error
	Get(ctx context.Context, spreadsheetID, readRange string) ([][]any, error)
	Update(ctx context.Context, spreadsheetID, writeRange string, row []any) error
}

// Writer appends order rows and updates their payment status.
type Writer struct {
	api           ValuesAPI
	spreadsheetID string
	loc           *time.Location
}

// New builds a Writer. api may be nil when the service account is not
// configured; every method then returns ErrNotConfigured.
func New(api ValuesAPI, spreadsheetID string) *Writer {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		loc = time.UTC
	}
	return &Writer{api: api, spreadsheetID: spreadsheetID, loc: loc}
}

func (w *Writer) configured() bool {
	return w.api != nil && w.spreadsheetID != ""
}

// Append writes one ledger row for the order. Columns A–Q: timestamp,
// order ID, order type, name, kana name, salon, email, phone, address,
// delivery time, megami qty, leaflet qty, subtotal, shipping, total,
// payment method, payment status.
func (w *Writer) Append(ctx context.Context, rec order.Record) error {
	if !w.configured() {
		return ErrNotConfigured
	}

	row := []any{
		rec.CreatedAt.In(w.loc).Format("2006/01/02 15:04:05"),
		rec.ID,
		rec.OrderType,
		rec.FullName(),
		rec.KanaName(),
		rec.SalonName,
		rec.Email,
		rec.Phone,
		rec.FullAddress(),
		rec.DeliveryTime,
		rec.MegamiQuantity,
		rec.LeafletQuantity,
		rec.Subtotal,
		rec.Shipping,
		rec.Total,
		string(rec.PaymentMethod),
		PaymentStatusPending,
	}

	if err := w.api.Append(ctx, w.spreadsheetID, appendRange, row); err != nil {
		return fmt.Errorf("ledger: append order %s: %w", rec.ID, err)
	}
	return nil
}

// UpdatePaymentStatus locates the order's row by scanning the order-ID
// column and rewrites its payment-status cell. The rewrite is idempotent,
// so webhook redeliveries are harmless.
func (w *Writer) UpdatePaymentStatus(ctx context.Context, orderID, status string) error {
	if !w.configured() {
		return ErrNotConfigured
	}

	rows, err := w.api.Get(ctx, w.spreadsheetID, "B:B")
	if err != nil {
		return fmt.Errorf("ledger: scan order ids: %w", err)
	}

	for i, row := range rows {
		if len(row) > 0 && fmt.Sprint(row[0]) == orderID {
			// Sheets rows are 1-based.
			cell := fmt.Sprintf("Q%d", i+1)
			if err := w.api.Update(ctx, w.spreadsheetID, cell, []any{status}); err != nil {
				return fmt.Errorf("ledger: update status for %s: %w", orderID, err)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
}

// sheetsValues adapts *sheets.Service to the ValuesAPI port.
type sheetsValues struct {
	svc *sheets.Service
}

// NewService builds the ValuesAPI backed by the real Sheets API, authorised
// through a JWT service account.
func NewService(ctx context.Context, privateKey, clientEmail string) (ValuesAPI, error) {
	conf := &jwt.Config{
		Email:      clientEmail,
		PrivateKey: []byte(privateKey),
		Scopes:     []string{sheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}

	svc, err := sheets.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("ledger: init sheets service: %w", err)
	}
	return &sheetsValues{svc: svc}, nil
}

func (s *sheetsValues) Append(ctx context.Context, spreadsheetID, readRange string, row []any) error {
	vr := &sheets.ValueRange{Values: [][]any{row}}
	_, err := s.svc.Spreadsheets.Values.Append(spreadsheetID, readRange, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

func (s *sheetsValues) Get(ctx context.Context, spreadsheetID, readRange string) ([][]any, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (s *sheetsValues) Update(ctx context.Context, spreadsheetID, writeRange string, row []any) error {
	vr := &sheets.ValueRange{Values: [][]any{row}}
	_, err := s.svc.Spreadsheets.Values.Update(spreadsheetID, writeRange, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}
