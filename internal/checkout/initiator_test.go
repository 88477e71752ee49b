package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/GeoAziz/cyberfeast/internal/domain"
	"github.com/GeoAziz/cyberfeast/internal/payment"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	mu      sync.Mutex
	req     *payment.SessionRequest
	session *payment.Session
	err     error
}

func (f *fakeProvider) CreateSession(_ context.Context, req payment.SessionRequest) (*payment.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.req = &req
	return f.session, f.err
}

func cartItems() []domain.CartItem {
	return []domain.CartItem{
		{ID: "a", Name: "Stardust Sushi", Price: decimal.RequireFromString("10.00"), Quantity: 2},
		{ID: "b", Name: "Galactic Gyoza", Price: decimal.RequireFromString("5.50"), Quantity: 1},
	}
}

func newInitiator(p *fakeProvider) *Initiator {
	return NewInitiator(p, "usd", "https://app/success", "https://app/cancel")
}

func TestInitiate_LineItemsInCents(t *testing.T) {
	p := &fakeProvider{session: &payment.Session{ID: "cs_1", URL: "https://pay/cs_1"}}

	s, err := newInitiator(p).Initiate(context.Background(), Request{UserID: "user-1", Items: cartItems()})
	require.NoError(t, err)
	assert.Equal(t, "cs_1", s.ID)

	require.NotNil(t, p.req)
	require.Len(t, p.req.LineItems, 2)
	assert.Equal(t, int64(1000), p.req.LineItems[0].UnitAmount)
	assert.Equal(t, int64(2), p.req.LineItems[0].Quantity)
	assert.Equal(t, int64(550), p.req.LineItems[1].UnitAmount)
	assert.Equal(t, int64(1), p.req.LineItems[1].Quantity)

	var due int64
	for _, li := range p.req.LineItems {
		due += li.UnitAmount * li.Quantity
	}
	assert.Equal(t, "25.50", payment.FromMinorUnits(due).StringFixed(2))

	assert.Equal(t, "usd", p.req.Currency)
	assert.Equal(t, "https://app/success", p.req.SuccessURL)
	assert.Equal(t, "https://app/cancel", p.req.CancelURL)
}

func TestInitiate_MetadataCarriesCartSnapshot(t *testing.T) {
	p := &fakeProvider{session: &payment.Session{ID: "cs_1"}}

	_, err := newInitiator(p).Initiate(context.Background(), Request{UserID: "user-1", Items: cartItems()})
	require.NoError(t, err)

	assert.Equal(t, "user-1", p.req.Metadata[MetadataUserID])

	var items []domain.CartItem
	require.NoError(t, json.Unmarshal([]byte(p.req.Metadata[MetadataItems]), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, decimal.RequireFromString("5.50").Equal(items[1].Price))
}

func TestInitiate_Unauthenticated(t *testing.T) {
	p := &fakeProvider{session: &payment.Session{ID: "cs_1"}}

	_, err := newInitiator(p).Initiate(context.Background(), Request{Items: cartItems()})
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Nil(t, p.req)
}

func TestInitiate_EmptyCart(t *testing.T) {
	p := &fakeProvider{session: &payment.Session{ID: "cs_1"}}

	_, err := newInitiator(p).Initiate(context.Background(), Request{UserID: "u", Items: []domain.CartItem{{ID: "x", Quantity: 0}}})
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, p.req)
}

func TestInitiate_ProviderFailure(t *testing.T) {
	p := &fakeProvider{err: errors.New("boom")}

	_, err := newInitiator(p).Initiate(context.Background(), Request{UserID: "u", Items: cartItems()})
	assert.ErrorIs(t, err, ErrSessionCreationFailed)
}

func TestInitiate_NoSessionID(t *testing.T) {
	p := &fakeProvider{session: &payment.Session{}}

	_, err := newInitiator(p).Initiate(context.Background(), Request{UserID: "u", Items: cartItems()})
	assert.ErrorIs(t, err, ErrSessionCreationFailed)
}
