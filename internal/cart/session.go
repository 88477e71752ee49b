package cart

import (
	"sync"

	"github.com/GeoAziz/cyberfeast/internal/domain"
	"github.com/shopspring/decimal"
)

// Notifier is told about every item added through Session.Add. It is a view
// concern ("Added to cart" toast) and has no effect on the state.
type Notifier interface {
	ItemAdded(item domain.CartItem)
}

// Session owns one shopper's cart state. It is never persisted.
type Session struct {
	mu       sync.Mutex
	state    State
	notifier Notifier
}

func NewSession(notifier Notifier) *Session {
	return &Session{
		state:    State{Items: []domain.CartItem{}},
		notifier: notifier,
	}
}

func (s *Session) Dispatch(action Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, action)
	return s.state
}

func (s *Session) Add(item domain.CartItem) State {
	state := s.Dispatch(AddItem(item))
	if s.notifier != nil {
		s.notifier.ItemAdded(item)
	}
	return state
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Total reads the amount due and the item count from one snapshot.
func (s *Session) Total() (decimal.Decimal, int) {
	state := s.State()
	return Total(state.Items), Count(state.Items)
}
