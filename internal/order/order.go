// Package order defines the order domain types shared by every collaborator:
// the validated customer request, the priced order record, and the order ID
// generator.
package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/megami-llc/order-server/internal/catalog"
)

// PaymentMethod is the customer's chosen payment channel.
type PaymentMethod string

const (
	PaymentCreditCard   PaymentMethod = "credit_card"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
)

// OrderType distinguishes a first order from a repeat one.
const OrderTypeFirst = "first"

// Request is the customer-submitted order form. Field names mirror the
// storefront's JSON payload.
type Request struct {
	MegamiQuantity  int           `json:"megamiQuantity"`
	LeafletQuantity int           `json:"leafletQuantity"`
	OrderType       string        `json:"orderType"`
	LastName        string        `json:"lastName"`
	FirstName       string        `json:"firstName"`
	LastNameKana    string        `json:"lastNameKana"`
	FirstNameKana   string        `json:"firstNameKana"`
	SalonName       string        `json:"salonName"`
	Email           string        `json:"email"`
	Phone           string        `json:"phone"`
	PostalCode      string        `json:"postalCode"`
	Prefecture      string        `json:"prefecture"`
	City            string        `json:"city"`
	Address         string        `json:"address"`
	Building        string        `json:"building"`
	DeliveryTime    string        `json:"deliveryTime"`
	PaymentMethod   PaymentMethod `json:"paymentMethod"`
}

// Validate checks the fields the orchestration depends on. The storefront
// form enforces the rest.
func (r Request) Validate() error {
	if r.MegamiQuantity < 0 || r.LeafletQuantity < 0 {
		return errors.New("order: quantities must be non-negative")
	}
	if r.MegamiQuantity == 0 && r.LeafletQuantity == 0 {
		return errors.New("order: at least one item is required")
	}
	if r.Email == "" {
		return errors.New("order: email is required")
	}
	switch r.PaymentMethod {
	case PaymentCreditCard, PaymentBankTransfer:
	default:
		return fmt.Errorf("order: unknown payment method %q", r.PaymentMethod)
	}
	return nil
}

// Record is the fully priced, identified order passed to every collaborator.
// It is constructed once per request and holds no state beyond it.
type Record struct {
	Request

	ID        string
	CreatedAt time.Time
	Subtotal  int64
	Shipping  int64
	Total     int64
}

// NewRecord prices the request and assigns it an order ID.
func NewRecord(req Request) Record {
	subtotal, shipping, total := catalog.Price(req.MegamiQuantity, req.LeafletQuantity)
	return Record{
		Request:   req,
		ID:        NewID(),
		CreatedAt: time.Now(),
		Subtotal:  subtotal,
		Shipping:  shipping,
		Total:     total,
	}
}

// FullName returns the customer name in Japanese order (family name first).
func (r Record) FullName() string {
	return r.LastName + " " + r.FirstName
}

// KanaName returns the phonetic reading of the customer name.
func (r Record) KanaName() string {
	return r.LastNameKana + " " + r.FirstNameKana
}

// FullAddress composes the delivery address into a single string, building
// name included only when present.
func (r Record) FullAddress() string {
	addr := fmt.Sprintf("%s %s%s%s", r.PostalCode, r.Prefecture, r.City, r.Address)
	if r.Building != "" {
		addr += " " + r.Building
	}
	return addr
}

// OrderTypeLabel is the human-readable order type used in emails and the
// ledger.
func (r Record) OrderTypeLabel() string {
	if r.OrderType == OrderTypeFirst {
		return "初回発注"
	}
	return "2回目以降"
}

// PaymentMethodLabel is the human-readable payment method.
func (r Record) PaymentMethodLabel() string {
	if r.PaymentMethod == PaymentCreditCard {
		return "クレジットカード決済"
	}
	return "銀行振込"
}

// NewID produces an order identifier combining a millisecond timestamp with
// a random suffix. Unique with overwhelming probability across concurrent
// requests; not meant to be unguessable.
func NewID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), suffix)
}
