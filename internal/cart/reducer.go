// Package cart holds the cart state machine. Transitions are pure: Reduce never
// mutates the state it is given and never fails; unknown ids are no-ops.
package cart

import "github.com/GeoAziz/cyberfeast/internal/domain"

type ActionType string

const (
	ActionAddItem        ActionType = "ADD_ITEM"
	ActionRemoveItem     ActionType = "REMOVE_ITEM"
	ActionUpdateQuantity ActionType = "UPDATE_QUANTITY"
	ActionToggleCart     ActionType = "TOGGLE_CART"
	ActionClearCart      ActionType = "CLEAR_CART"
)

type Action struct {
	Type     ActionType
	Item     domain.CartItem
	ID       string
	Quantity int
}

type State struct {
	Items      []domain.CartItem `json:"items"`
	IsCartOpen bool              `json:"isCartOpen"`
}

func AddItem(item domain.CartItem) Action {
	return Action{Type: ActionAddItem, Item: item}
}

func RemoveItem(id string) Action {
	return Action{Type: ActionRemoveItem, ID: id}
}

func UpdateQuantity(id string, quantity int) Action {
	return Action{Type: ActionUpdateQuantity, ID: id, Quantity: quantity}
}

func ToggleCart() Action {
	return Action{Type: ActionToggleCart}
}

func ClearCart() Action {
	return Action{Type: ActionClearCart}
}

func Reduce(state State, action Action) State {
	switch action.Type {
	case ActionAddItem:
		for i, item := range state.Items {
			if item.ID == action.Item.ID {
				items := clone(state.Items)
				items[i].Quantity++
				return State{Items: items, IsCartOpen: state.IsCartOpen}
			}
		}
		added := action.Item
		added.Quantity = 1
		items := append(clone(state.Items), added)
		return State{Items: items, IsCartOpen: state.IsCartOpen}

	case ActionRemoveItem:
		items := make([]domain.CartItem, 0, len(state.Items))
		for _, item := range state.Items {
			if item.ID != action.ID {
				items = append(items, item)
			}
		}
		return State{Items: items, IsCartOpen: state.IsCartOpen}

	case ActionUpdateQuantity:
		items := make([]domain.CartItem, 0, len(state.Items))
		for _, item := range state.Items {
			if item.ID == action.ID {
				item.Quantity = action.Quantity
			}
			if item.Quantity > 0 {
				items = append(items, item)
			}
		}
		return State{Items: items, IsCartOpen: state.IsCartOpen}

	case ActionToggleCart:
		return State{Items: state.Items, IsCartOpen: !state.IsCartOpen}

	case ActionClearCart:
		return State{Items: []domain.CartItem{}, IsCartOpen: false}

	default:
		return state
	}
}

func clone(items []domain.CartItem) []domain.CartItem {
	out := make([]domain.CartItem, len(items), len(items)+1)
	copy(out, items)
	return out
}
