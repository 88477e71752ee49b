// Package concierge answers shopper questions with an LLM that can call
// back into the catalog and order history.
package concierge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/GeoAziz/cyberfeast/internal/domain"
	"github.com/GeoAziz/cyberfeast/internal/logging"
)

const MaxToolRounds = 5

const (
	toolListRestaurants = "listRestaurants"
	toolRestaurantMenu  = "getRestaurantMenu"
	toolOrderHistory    = "getOrderHistory"
)

var (
	ErrNotConfigured  = errors.New("concierge model not configured")
	ErrUnavailable    = errors.New("concierge model unavailable")
	ErrEmptyQuery     = errors.New("query is empty")
	ErrToolLoop       = errors.New("model did not answer within the tool round limit")
	ErrBadModelOutput = errors.New("model reply could not be parsed")
)

type Catalog interface {
	ListRestaurants(ctx context.Context) ([]domain.Restaurant, error)
	FindRestaurantByName(ctx context.Context, name string) (*domain.Restaurant, error)
	ListMeals(ctx context.Context, restaurantID string) ([]domain.Meal, error)
}

type OrderHistory interface {
	ListRecent(ctx context.Context, userID string) ([]domain.Order, error)
}

type Recommendation struct {
	MealName       string `json:"mealName"`
	RestaurantName string `json:"restaurantName"`
	Description    string `json:"description"`
}

type Service struct {
	model   Model
	catalog Catalog
	orders  OrderHistory
}

// NewService builds the concierge; a nil model makes every call fail with
// ErrNotConfigured.
func NewService(model Model, catalog Catalog, orders OrderHistory) *Service {
	return &Service{
		model:   model,
		catalog: catalog,
		orders:  orders,
	}
}

// Ask runs the tool loop for one query. userID is empty for anonymous callers,
// who are not offered the order history tool.
func (s *Service) Ask(ctx context.Context, userID, query string) (string, error) {
	if s.model == nil {
		return "", ErrNotConfigured
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrEmptyQuery
	}

	req := Request{
		System:   systemPrompt(userID),
		Messages: []Message{{Role: RoleUser, Text: query}},
		Tools:    s.tools(userID),
	}
	for round := 0; round < MaxToolRounds; round++ {
		reply, err := s.model.Generate(ctx, req)
		if err != nil {
			return "", err
		}
		if len(reply.Calls) == 0 {
			return reply.Text, nil
		}

		results := make([]ToolResult, 0, len(reply.Calls))
		for _, call := range reply.Calls {
			results = append(results, ToolResult{
				ID:     call.ID,
				Name:   call.Name,
				Output: s.runTool(ctx, userID, call),
			})
		}
		req.Messages = append(req.Messages,
			Message{Role: RoleModel, Text: reply.Text, Calls: reply.Calls},
			Message{Role: RoleUser, Results: results},
		)
	}
	return "", ErrToolLoop
}

func systemPrompt(userID string) string {
	who := userID
	if who == "" {
		who = "Not Logged In"
	}
	return fmt.Sprintf(`You are the CyberFeast AI Concierge, a helpful assistant for a futuristic food delivery app.
Use the available tools to answer questions about restaurants, menus and the user's orders.
Be concise and friendly. Format answers with markdown when it helps.
The current user's ID is: %s.
If the user is not logged in and asks about their orders, tell them they must log in first.`, who)
}

func (s *Service) tools(userID string) []ToolSpec {
	specs := []ToolSpec{
		{
			Name:        toolListRestaurants,
			Description: "Lists every restaurant with its cuisine and rating.",
		},
		{
			Name:        toolRestaurantMenu,
			Description: "Returns the menu of a restaurant given its name.",
			Params:      map[string]string{"restaurantName": "Name of the restaurant, case insensitive."},
			Required:    []string{"restaurantName"},
		},
	}
	if userID != "" {
		specs = append(specs, ToolSpec{
			Name:        toolOrderHistory,
			Description: "Returns the current user's most recent orders.",
		})
	}
	return specs
}

type toolError struct {
	Error string `json:"error"`
}

// runTool never fails the loop: errors are reported back to the model.
func (s *Service) runTool(ctx context.Context, userID string, call ToolCall) any {
	log := logging.FromContext(ctx)

	switch call.Name {
	case toolListRestaurants:
		rs, err := s.catalog.ListRestaurants(ctx)
		if err != nil {
			log.Warn().Err(err).Str("tool", call.Name).Msg("concierge tool failed")
			return toolError{Error: "restaurants are unavailable"}
		}
		type row struct {
			Name    string  `json:"name"`
			Cuisine string  `json:"cuisine"`
			Rating  float64 `json:"rating"`
		}
		out := make([]row, 0, len(rs))
		for _, r := range rs {
			out = append(out, row{Name: r.Name, Cuisine: r.Cuisine, Rating: r.Rating})
		}
		return out

	case toolRestaurantMenu:
		name, _ := call.Args["restaurantName"].(string)
		if strings.TrimSpace(name) == "" {
			return toolError{Error: "restaurantName is required"}
		}
		r, err := s.catalog.FindRestaurantByName(ctx, name)
		if err != nil {
			return toolError{Error: fmt.Sprintf("restaurant %q not found", name)}
		}
		meals, err := s.catalog.ListMeals(ctx, r.ID)
		if err != nil {
			log.Warn().Err(err).Str("tool", call.Name).Msg("concierge tool failed")
			return toolError{Error: "menu is unavailable"}
		}
		type row struct {
			Name  string `json:"name"`
			Price string `json:"price"`
		}
		out := make([]row, 0, len(meals))
		for _, m := range meals {
			out = append(out, row{Name: m.Name, Price: m.Price.StringFixed(2)})
		}
		return out

	case toolOrderHistory:
		// The caller's id is authoritative; any id the model passes is ignored.
		if userID == "" {
			return toolError{Error: "user is not logged in"}
		}
		orders, err := s.orders.ListRecent(ctx, userID)
		if err != nil {
			log.Warn().Err(err).Str("tool", call.Name).Msg("concierge tool failed")
			return toolError{Error: "order history is unavailable"}
		}
		type row struct {
			ID        string `json:"id"`
			Status    string `json:"status"`
			Total     string `json:"total"`
			CreatedAt string `json:"createdAt"`
		}
		out := make([]row, 0, len(orders))
		for _, o := range orders {
			out = append(out, row{
				ID:        o.ID,
				Status:    o.Status.String(),
				Total:     o.Total.StringFixed(2),
				CreatedAt: o.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
		return out
	}
	return toolError{Error: fmt.Sprintf("unknown tool %q", call.Name)}
}

// Suggestions returns short search completions for partial input.
func (s *Service) Suggestions(ctx context.Context, text string) ([]string, error) {
	if s.model == nil {
		return nil, ErrNotConfigured
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return []string{}, nil
	}

	reply, err := s.model.Generate(ctx, Request{
		JSON: true,
		Messages: []Message{{Role: RoleUser, Text: fmt.Sprintf(`You are a search assistant for a food delivery app.
Suggest up to 5 search terms (cuisines, dishes or restaurant types) for the partial input below.
Answer with a JSON array of strings only, for example ["Pizza","Burgers","Italian Food","Vegan Options"].

Input: %s`, text)}},
	})
	if err != nil {
		return nil, err
	}

	var out []string
	if err := json.Unmarshal([]byte(stripFences(reply.Text)), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadModelOutput, err)
	}
	return out, nil
}

// Recommend picks one meal for free-text preferences.
func (s *Service) Recommend(ctx context.Context, preferences string) (*Recommendation, error) {
	if s.model == nil {
		return nil, ErrNotConfigured
	}
	preferences = strings.TrimSpace(preferences)
	if preferences == "" {
		return nil, ErrEmptyQuery
	}

	reply, err := s.model.Generate(ctx, Request{
		JSON: true,
		Messages: []Message{{Role: RoleUser, Text: fmt.Sprintf(`You are a food recommendation engine for a futuristic food delivery app.
Recommend one meal matching the user's preferences.
Answer with a JSON object with the string fields "mealName", "restaurantName" and "description".

Preferences: %s`, preferences)}},
	})
	if err != nil {
		return nil, err
	}

	var rec Recommendation
	if err := json.Unmarshal([]byte(stripFences(reply.Text)), &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadModelOutput, err)
	}
	if rec.MealName == "" {
		return nil, fmt.Errorf("%w: missing mealName", ErrBadModelOutput)
	}
	return &rec, nil
}

// stripFences removes a markdown code fence around a JSON reply.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
