// Package catalog holds the static product catalog and the pricing rules.
// Prices are in JPY, which has no fractional unit, so amounts are plain
// integers end to end.
package catalog

// Product is a single sellable item.
type Product struct {
	// Price is the unit price in yen.
	Price int64
	// Name is the customer-facing display name.
	Name string
	// Code is the SKU, forwarded to the payment processor as the
	// line-item description.
	Code string
}

// The two catalog items. Immutable after process start.
var (
	Megami = Product{
		Price: 3894,
		Name:  "I am MEGAMI フェイシャルパック",
		Code:  "MGM-001",
	}
	Leaflet = Product{
		Price: 22,
		Name:  "I am MEGAMI リーフレット（10枚）",
		Code:  "MGM-002",
	}
)

const (
	// FreeShippingThreshold is the subtotal at which shipping is waived.
	FreeShippingThreshold = 30000
	// ShippingFee is the flat fee applied below the threshold.
	ShippingFee = 1100
)

// Price computes the order totals from the two item quantities.
// Quantities are assumed non-negative; the HTTP layer validates that.
func Price(megamiQty, leafletQty int) (subtotal, shipping, total int64) {
	subtotal = int64(megamiQty)*Megami.Price + int64(leafletQty)*Leaflet.Price
	if subtotal < FreeShippingThreshold {
		shipping = ShippingFee
	}
	total = subtotal + shipping
	return subtotal, shipping, total
}
