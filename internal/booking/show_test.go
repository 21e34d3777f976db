package booking

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeatCodesGridOrder(t *testing.T) {
	codes := seatCodes(2, 2)
	assert.Equal(t, []string{"A1", "A2", "B1", "B2"}, codes)

	codes = seatCodes(1, 3)
	assert.Equal(t, []string{"A1", "A2", "A3"}, codes)
}

func TestSeatCodesLimits(t *testing.T) {
	codes := seatCodes(26, 50)
	assert.Len(t, codes, 26*50)
	assert.Equal(t, "A1", codes[0])
	assert.Equal(t, "Z50", codes[len(codes)-1])
}

func TestValidateGrid(t *testing.T) {
	assert.NoError(t, validateGrid("Hamlet", 10, 10, 2500))

	assert.ErrorIs(t, validateGrid("", 10, 10, 2500), ErrValidation)
	assert.ErrorIs(t, validateGrid("Hamlet", 0, 10, 2500), ErrValidation)
	assert.ErrorIs(t, validateGrid("Hamlet", 27, 10, 2500), ErrValidation)
	assert.ErrorIs(t, validateGrid("Hamlet", 10, 0, 2500), ErrValidation)
	assert.ErrorIs(t, validateGrid("Hamlet", 10, 51, 2500), ErrValidation)
	assert.ErrorIs(t, validateGrid("Hamlet", 10, 10, 0), ErrValidation)
}

// The price bound exists so a quote for every seat of the largest
// grid still fits in uint32; verify both the bound and the arithmetic
// it protects.
func TestValidatePriceBound(t *testing.T) {
	assert.NoError(t, validatePrice(maxPriceCents))
	assert.ErrorIs(t, validatePrice(maxPriceCents+1), ErrValidation)
	assert.ErrorIs(t, validatePrice(0), ErrValidation)

	const maxSeats = maxSeatRows * maxSeatCols
	assert.LessOrEqual(t, uint64(maxPriceCents)*maxSeats, uint64(math.MaxUint32))

	assert.ErrorIs(t, validateGrid("Hamlet", 26, 50, maxPriceCents+1), ErrValidation)
}
