package payment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMinorUnits_Rounds(t *testing.T) {
	assert.Equal(t, int64(1000), MinorUnits(decimal.RequireFromString("10.00")))
	assert.Equal(t, int64(550), MinorUnits(decimal.RequireFromString("5.50")))
	assert.Equal(t, int64(999), MinorUnits(decimal.RequireFromString("9.99")))
	assert.Equal(t, int64(1000), MinorUnits(decimal.RequireFromString("9.995")))
	assert.Equal(t, int64(1), MinorUnits(decimal.RequireFromString("0.005")))
	assert.Equal(t, int64(0), MinorUnits(decimal.RequireFromString("0.004")))
}

func TestFromMinorUnits(t *testing.T) {
	assert.Equal(t, "25.50", FromMinorUnits(2550).StringFixed(2))
	assert.True(t, decimal.RequireFromString("9.99").Equal(FromMinorUnits(999)))
}
