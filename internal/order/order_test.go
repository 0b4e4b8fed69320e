package order

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() Request {
	return Request{
		MegamiQuantity: 1,
		OrderType:      OrderTypeFirst,
		LastName:       "山田",
		FirstName:      "花子",
		LastNameKana:   "ヤマダ",
		FirstNameKana:  "ハナコ",
		SalonName:      "サロン花",
		Email:          "hanako@example.com",
		Phone:          "090-1234-5678",
		PostalCode:     "899-5117",
		Prefecture:     "鹿児島県",
		City:           "霧島市",
		Address:        "隼人町1-2-3",
		DeliveryTime:   "午前中",
		PaymentMethod:  PaymentCreditCard,
	}
}

func TestRequestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validRequest().Validate())
	})

	t.Run("negative quantity", func(t *testing.T) {
		req := validRequest()
		req.MegamiQuantity = -1
		assert.Error(t, req.Validate())
	})

	t.Run("no items", func(t *testing.T) {
		req := validRequest()
		req.MegamiQuantity = 0
		req.LeafletQuantity = 0
		assert.Error(t, req.Validate())
	})

	t.Run("missing email", func(t *testing.T) {
		req := validRequest()
		req.Email = ""
		assert.Error(t, req.Validate())
	})

	t.Run("unknown payment method", func(t *testing.T) {
		req := validRequest()
		req.PaymentMethod = "cash_on_delivery"
		assert.Error(t, req.Validate())
	})
}

func TestNewRecordPricing(t *testing.T) {
	rec := NewRecord(validRequest())

	assert.Equal(t, int64(3894), rec.Subtotal)
	assert.Equal(t, int64(1100), rec.Shipping)
	assert.Equal(t, int64(4994), rec.Total)
	assert.True(t, strings.HasPrefix(rec.ID, "ORD-"))
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestRecordLabels(t *testing.T) {
	rec := NewRecord(validRequest())

	assert.Equal(t, "山田 花子", rec.FullName())
	assert.Equal(t, "ヤマダ ハナコ", rec.KanaName())
	assert.Equal(t, "初回発注", rec.OrderTypeLabel())
	assert.Equal(t, "クレジットカード決済", rec.PaymentMethodLabel())

	rec.OrderType = "repeat"
	rec.PaymentMethod = PaymentBankTransfer
	assert.Equal(t, "2回目以降", rec.OrderTypeLabel())
	assert.Equal(t, "銀行振込", rec.PaymentMethodLabel())
}

func TestRecordFullAddress(t *testing.T) {
	rec := NewRecord(validRequest())
	assert.Equal(t, "899-5117 鹿児島県霧島市隼人町1-2-3", rec.FullAddress())

	rec.Building = "メゾン霧島201"
	assert.Equal(t, "899-5117 鹿児島県霧島市隼人町1-2-3 メゾン霧島201", rec.FullAddress())
}

func TestNewIDUnique(t *testing.T) {
	const n = 1000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		id := NewID()
		require.True(t, strings.HasPrefix(id, "ORD-"))
		_, dup := seen[id]
		require.False(t, dup, "duplicate order id %s", id)
		seen[id] = struct{}{}
	}
}
