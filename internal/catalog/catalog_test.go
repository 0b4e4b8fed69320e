package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrice(t *testing.T) {
	tests := []struct {
		name         string
		megami       int
		leaflet      int
		wantSubtotal int64
		wantShipping int64
		wantTotal    int64
	}{
		{"single pack", 1, 0, 3894, 1100, 4994},
		{"pack plus leaflets", 1, 3, 3960, 1100, 5060},
		{"leaflets only", 0, 5, 110, 1100, 1210},
		{"empty order", 0, 0, 0, 1100, 1100},
		{"just below free shipping", 7, 30, 27918, 1100, 29018},
		// 8 packs cross the 30000 threshold: shipping waived.
		{"above free shipping", 8, 0, 31152, 0, 31152},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subtotal, shipping, total := Price(tt.megami, tt.leaflet)
			assert.Equal(t, tt.wantSubtotal, subtotal)
			assert.Equal(t, tt.wantShipping, shipping)
			assert.Equal(t, tt.wantTotal, total)
		})
	}
}

func TestPriceInvariants(t *testing.T) {
	for q1 := 0; q1 <= 12; q1++ {
		for q2 := 0; q2 <= 12; q2++ {
			subtotal, shipping, total := Price(q1, q2)

			assert.Equal(t, int64(q1)*Megami.Price+int64(q2)*Leaflet.Price, subtotal)
			assert.Equal(t, subtotal+shipping, total)
			if subtotal >= FreeShippingThreshold {
				assert.Zero(t, shipping)
			} else {
				assert.Equal(t, int64(ShippingFee), shipping)
			}
		}
	}
}
