package holds

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHoldPatch_ZeroValueChangesNothing(t *testing.T) {
	discount := uint(3)
	hold := Hold{Price: 10, SeatTypeDiscountID: &discount}

	var patch HoldPatch
	assert.True(t, patch.IsEmpty())
	patch.Apply(&hold)

	assert.Equal(t, 10.0, hold.Price)
	assert.Equal(t, &discount, hold.SeatTypeDiscountID)
}

func TestHoldPatch_SetNilClears(t *testing.T) {
	discount := uint(3)
	hold := Hold{Price: 10, SeatTypeDiscountID: &discount}

	patch := HoldPatch{SeatTypeDiscountID: Set[*uint](nil)}
	assert.Equal(t, map[string]interface{}{"seat_type_discount_id": (*uint)(nil)}, patch.Columns())

	patch.Apply(&hold)
	assert.Nil(t, hold.SeatTypeDiscountID)
	assert.Equal(t, 10.0, hold.Price)
}

func TestHoldPatch_Columns(t *testing.T) {
	until := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	patch := HoldPatch{
		Price:         Set(8.0),
		ReservedUntil: Set(until),
	}

	assert.Equal(t, map[string]interface{}{"price": 8.0, "reserved_until": until}, patch.Columns())
}

func TestHolder_Validate(t *testing.T) {
	assert.NoError(t, GuestHolder("5f0c6a3e-52cd-4b1e-9d38-2a4f5a7d9b10").Validate())
	assert.Error(t, GuestHolder("").Validate())
	assert.Error(t, Holder{Kind: "admin", ID: "5f0c6a3e-52cd-4b1e-9d38-2a4f5a7d9b10"}.Validate())
	assert.Equal(t, "guest:abc", GuestHolder("abc").String())
}
