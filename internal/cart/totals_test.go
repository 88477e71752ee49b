package cart

import (
	"testing"

	"github.com/GeoAziz/cyberfeast/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotal(t *testing.T) {
	a := item("a", "10.00")
	a.Quantity = 2
	b := item("b", "5.50")
	b.Quantity = 1

	total := Total([]domain.CartItem{a, b})

	assert.Equal(t, "25.50", total.StringFixed(2))
	assert.Equal(t, 3, Count([]domain.CartItem{a, b}))
}

func TestNormalize_MergesAndDropsInvalid(t *testing.T) {
	a1 := item("a", "10.00")
	a1.Quantity = 2
	b := item("b", "5.50")
	b.Quantity = 0
	a2 := item("a", "12.00")
	a2.Quantity = 3
	c := item("c", "1.00")
	c.Quantity = 1
	noID := item("", "1.00")
	noID.Quantity = 4

	got := Normalize([]domain.CartItem{a1, b, a2, c, noID})

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, 5, got[0].Quantity)
	assert.True(t, decimal.RequireFromString("10.00").Equal(got[0].Price))
	assert.Equal(t, "c", got[1].ID)
	assert.Equal(t, 1, got[1].Quantity)
}

func TestNormalize_Empty(t *testing.T) {
	got := Normalize(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

type recordingNotifier struct {
	added []string
}

func (r *recordingNotifier) ItemAdded(item domain.CartItem) {
	r.added = append(r.added, item.Name)
}

func TestSession_AddNotifies(t *testing.T) {
	n := &recordingNotifier{}
	s := NewSession(n)

	s.Add(item("a", "10.00"))
	s.Add(item("a", "10.00"))
	s.Dispatch(UpdateQuantity("a", 3))

	total, count := s.Total()
	assert.True(t, decimal.RequireFromString("30").Equal(total))
	assert.Equal(t, "30.00", total.StringFixed(2))
	assert.Equal(t, 3, count)
	assert.Equal(t, []string{"meal a", "meal a"}, n.added)

	state := s.Dispatch(ClearCart())
	assert.Empty(t, state.Items)
	assert.False(t, state.IsCartOpen)
}
