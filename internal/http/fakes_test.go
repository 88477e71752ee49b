package http

import (
	"context"
	"sync"

	"github.com/GeoAziz/cyberfeast/internal/admin"
	"github.com/GeoAziz/cyberfeast/internal/auth"
	"github.com/GeoAziz/cyberfeast/internal/checkout"
	"github.com/GeoAziz/cyberfeast/internal/concierge"
	"github.com/GeoAziz/cyberfeast/internal/domain"
	"github.com/GeoAziz/cyberfeast/internal/orders"
	"github.com/GeoAziz/cyberfeast/internal/payment"
	"github.com/GeoAziz/cyberfeast/internal/webhook"
)

type fakeInitiator struct {
	m       sync.Mutex
	session *payment.Session
	err     error
	got     []checkout.Request
}

func (f *fakeInitiator) Initiate(_ context.Context, req checkout.Request) (*payment.Session, error) {
	f.m.Lock()
	defer f.m.Unlock()
	f.got = append(f.got, req)
	return f.session, f.err
}

type fakeOrders struct {
	m      sync.Mutex
	orders []domain.Order
	err    error
	placed [][]domain.CartItem
}

func (f *fakeOrders) ListRecent(_ context.Context, userID string) ([]domain.Order, error) {
	f.m.Lock()
	defer f.m.Unlock()
	var out []domain.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, f.err
}

func (f *fakeOrders) Get(_ context.Context, userID, orderID string) (*domain.Order, error) {
	f.m.Lock()
	defer f.m.Unlock()
	for _, o := range f.orders {
		if o.ID == orderID && o.UserID == userID {
			o := o
			return &o, nil
		}
	}
	return nil, orders.ErrNotFound
}

func (f *fakeOrders) PlacePending(_ context.Context, userID string, items []domain.CartItem) (*domain.Order, error) {
	f.m.Lock()
	defer f.m.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.placed = append(f.placed, items)
	return &domain.Order{ID: "order-new", UserID: userID, Items: items, Status: domain.OrderStatusPending}, nil
}

type fakeProcessor struct {
	res webhook.Result
	err error
	sig string
}

func (f *fakeProcessor) Process(_ context.Context, _ []byte, signature string) (webhook.Result, error) {
	f.sig = signature
	return f.res, f.err
}

type fakeCatalog struct {
	restaurants []domain.Restaurant
	meals       []domain.Meal
	err         error
}

func (f *fakeCatalog) ListRestaurants(context.Context) ([]domain.Restaurant, error) {
	return f.restaurants, f.err
}

func (f *fakeCatalog) GetRestaurant(_ context.Context, id string) (*domain.Restaurant, error) {
	for _, r := range f.restaurants {
		if r.ID == id {
			r := r
			return &r, nil
		}
	}
	return nil, admin.ErrNotFound
}

func (f *fakeCatalog) GetRestaurantBySlug(_ context.Context, slug string) (*domain.Restaurant, error) {
	for _, r := range f.restaurants {
		if r.Slug == slug {
			r := r
			return &r, nil
		}
	}
	return nil, admin.ErrNotFound
}

func (f *fakeCatalog) ListMeals(context.Context, string) ([]domain.Meal, error) {
	return f.meals, f.err
}

type fakeAccounts struct {
	m       sync.Mutex
	user    *domain.User
	err     error
	ensured []auth.Identity
	toggles []string
}

func (f *fakeAccounts) EnsureAccount(_ context.Context, id auth.Identity) (*domain.User, error) {
	f.m.Lock()
	defer f.m.Unlock()
	f.ensured = append(f.ensured, id)
	return &domain.User{ID: id.UserID}, f.err
}

func (f *fakeAccounts) Profile(context.Context, string) (*domain.User, error) {
	return f.user, f.err
}

func (f *fakeAccounts) ToggleFavorite(_ context.Context, _ string, kind domain.FavoriteKind, itemID string, _ bool) error {
	f.m.Lock()
	defer f.m.Unlock()
	f.toggles = append(f.toggles, string(kind)+":"+itemID)
	return f.err
}

func (f *fakeAccounts) UpdateProfile(_ context.Context, _ string, _ string, addresses []domain.Address) ([]domain.Address, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range addresses {
		if addresses[i].ID == "" {
			addresses[i].ID = "generated"
		}
	}
	return addresses, nil
}

func (f *fakeAccounts) UpdateAvatar(context.Context, string, string) error {
	return f.err
}

type fakeAdmin struct {
	admins  map[string]bool
	owned   []domain.Restaurant
	err     error
	deleted []string
}

func (f *fakeAdmin) RequireAdmin(_ context.Context, uid string) error {
	if !f.admins[uid] {
		return admin.ErrNotAdmin
	}
	return nil
}

func (f *fakeAdmin) ListOwned(context.Context, string) ([]domain.Restaurant, error) {
	return f.owned, f.err
}

func (f *fakeAdmin) Restaurant(_ context.Context, _, id string) (*domain.Restaurant, []domain.Meal, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return &domain.Restaurant{ID: id}, nil, nil
}

func (f *fakeAdmin) UpdateRestaurant(_ context.Context, _, id string, in admin.RestaurantUpdate) (*domain.Restaurant, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Restaurant{ID: id, Name: in.Name, Cuisine: in.Cuisine}, nil
}

func (f *fakeAdmin) AddMeal(_ context.Context, _, id string, in admin.MealInput) (*domain.Meal, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Meal{ID: "meal-new", RestaurantID: id, Name: in.Name, Price: in.Price, ImageURL: in.ImageURL}, nil
}

func (f *fakeAdmin) UpdateMeal(_ context.Context, _, id, mealID string, in admin.MealInput) (*domain.Meal, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Meal{ID: mealID, RestaurantID: id, Name: in.Name, Price: in.Price}, nil
}

func (f *fakeAdmin) DeleteMeal(_ context.Context, _, _, mealID string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, mealID)
	return nil
}

type fakeConcierge struct {
	answer      string
	suggestions []string
	rec         *concierge.Recommendation
	err         error
	askedBy     string
}

func (f *fakeConcierge) Ask(_ context.Context, userID, _ string) (string, error) {
	f.askedBy = userID
	return f.answer, f.err
}

func (f *fakeConcierge) Suggestions(context.Context, string) ([]string, error) {
	return f.suggestions, f.err
}

func (f *fakeConcierge) Recommend(context.Context, string) (*concierge.Recommendation, error) {
	return f.rec, f.err
}
