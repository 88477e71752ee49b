package orders

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/GeoAziz/cyberfeast/internal/domain"
	"github.com/GeoAziz/cyberfeast/internal/repository"
)

type mockOrderRepository struct {
	m           sync.RWMutex
	orders      []domain.Order
	insertErr   error
	seq         int
	afterInsert func()
}

func (m *mockOrderRepository) Insert(_ context.Context, order *domain.Order) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	if order.SessionID != "" {
		for _, o := range m.orders {
			if o.SessionID == order.SessionID {
				return repository.ErrDuplicateSession
			}
		}
	}
	m.seq++
	order.ID = fmt.Sprintf("order-%d", m.seq)
	order.CreatedAt = time.Unix(int64(m.seq), 0).UTC()
	m.orders = append(m.orders, *order)
	if m.afterInsert != nil {
		m.afterInsert()
	}
	return nil
}

func (m *mockOrderRepository) SetLoyaltyCredited(_ context.Context, id string, credited bool) (bool, error) {
	m.m.Lock()
	defer m.m.Unlock()
	for i := range m.orders {
		if m.orders[i].ID == id {
			if m.orders[i].LoyaltyCredited == credited {
				return false, nil
			}
			m.orders[i].LoyaltyCredited = credited
			return true, nil
		}
	}
	return false, nil
}

func (m *mockOrderRepository) FindByID(_ context.Context, id string) (*domain.Order, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	for _, o := range m.orders {
		if o.ID == id {
			o := o
			return &o, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockOrderRepository) FindBySession(_ context.Context, sessionID string) (*domain.Order, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	for _, o := range m.orders {
		if o.SessionID == sessionID {
			o := o
			return &o, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockOrderRepository) ListByUser(_ context.Context, userID string, limit int64) ([]domain.Order, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	var out []domain.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockOrderRepository) count() int {
	m.m.RLock()
	defer m.m.RUnlock()
	return len(m.orders)
}

type mockUserRepository struct {
	m      sync.Mutex
	points map[string]int64
	incErr error
}

func newMockUsers(uids ...string) *mockUserRepository {
	u := &mockUserRepository{points: map[string]int64{}}
	for _, id := range uids {
		u.points[id] = 0
	}
	return u
}

func (m *mockUserRepository) IncrementLoyalty(ctx context.Context, uid string, points int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.m.Lock()
	defer m.m.Unlock()
	if m.incErr != nil {
		return m.incErr
	}
	if _, ok := m.points[uid]; !ok {
		return repository.ErrNotFound
	}
	m.points[uid] += points
	return nil
}

func (m *mockUserRepository) setIncErr(err error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.incErr = err
}

func (m *mockUserRepository) balance(uid string) int64 {
	m.m.Lock()
	defer m.m.Unlock()
	return m.points[uid]
}

func (m *mockUserRepository) Get(context.Context, string) (*domain.User, error) {
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) EnsureUser(_ context.Context, u domain.User) (*domain.User, error) {
	return &u, nil
}

func (m *mockUserRepository) AddFavorite(context.Context, string, domain.FavoriteKind, string) error {
	return nil
}

func (m *mockUserRepository) RemoveFavorite(context.Context, string, domain.FavoriteKind, string) error {
	return nil
}

func (m *mockUserRepository) UpdateProfile(context.Context, string, string, []domain.Address) error {
	return nil
}

func (m *mockUserRepository) UpdateAvatar(context.Context, string, string) error {
	return nil
}

type recordingPublisher struct {
	m      sync.Mutex
	orders []domain.Order
	points []int64
	err    error
}

func (p *recordingPublisher) PublishOrderCreated(_ context.Context, order domain.Order, points int64) error {
	p.m.Lock()
	defer p.m.Unlock()
	p.orders = append(p.orders, order)
	p.points = append(p.points, points)
	return p.err
}
