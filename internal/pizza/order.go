package pizza

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	httperrors "github.com/gokatarajesh/slicetomeetyou/pkg/http/errors"
)

// MaxPizzaIngredients caps the toppings of a user-created pizza.
const MaxPizzaIngredients = 3

// CustomPizza is the attendee's own preference-driven share.
type CustomPizza struct {
	SliceCount  int          `json:"sliceCount"`
	Preferences *Preferences `json:"preferences"`
}

// JoinRequest is the body of POST /pizza/join.
type JoinRequest struct {
	PartyNumber    string         `json:"partyNumber"`
	Name           string         `json:"name"`
	CustomPizza    CustomPizza    `json:"custom_pizza"`
	ExistingSlices map[string]int `json:"existingPizza_slicesWanted"`
}

// JoinInput is what the attendee filled in.
type JoinInput struct {
	PartyID        string
	Name           string
	SliceCount     int
	Preferences    *Preferences
	ExistingSlices map[string]int // pizza id → slices wanted
}

// NewJoinRequest validates the input and builds the request. The party ID and
// name are upper-cased.
func NewJoinRequest(in JoinInput) (JoinRequest, error) {
	id, err := NormalizePartyID(in.PartyID)
	if err != nil {
		return JoinRequest{}, err
	}
	name := strings.ToUpper(strings.TrimSpace(in.Name))
	if name == "" {
		return JoinRequest{}, httperrors.Validation(httperrors.ErrCodeMissingField, "name", "Please enter your name")
	}

	prefs := in.Preferences
	if prefs == nil {
		prefs = NewPreferences()
	}
	if err := prefs.Validate(); err != nil {
		return JoinRequest{}, err
	}

	total := in.SliceCount
	existing := make(map[string]int, len(in.ExistingSlices))
	for pizzaID, n := range in.ExistingSlices {
		if n < 0 {
			return JoinRequest{}, httperrors.Validation(httperrors.ErrCodeInvalidSliceCount, "existingPizza_slicesWanted",
				fmt.Sprintf("Slice count for pizza %s must not be negative", pizzaID))
		}
		if n > 0 {
			existing[pizzaID] = n
			total += n
		}
	}
	if in.SliceCount != 0 {
		if err := ValidateSliceCount(in.SliceCount); err != nil {
			return JoinRequest{}, err
		}
	}
	if total < 1 {
		return JoinRequest{}, httperrors.Validation(httperrors.ErrCodeInvalidSliceCount, "sliceCount",
			"Please choose at least one slice")
	}

	return JoinRequest{
		PartyNumber:    id,
		Name:           name,
		CustomPizza:    CustomPizza{SliceCount: in.SliceCount, Preferences: prefs},
		ExistingSlices: existing,
	}, nil
}

// Override is a special screen the backend may answer a join with.
type Override struct {
	Message string `json:"message"`
	Image   string `json:"image"`
}

// JoinResult is the body of a join response.
type JoinResult struct {
	Success  bool      `json:"success"`
	Error    string    `json:"error,omitempty"`
	Message  string    `json:"message,omitempty"`
	Override *Override `json:"override,omitempty"`
}

// CreatePizzaRequest is the body of POST /pizza/create.
type CreatePizzaRequest struct {
	PizzaName   string   `json:"pizzaName"`
	Ingredients []string `json:"ingredients"`
}

// NewCreatePizzaRequest checks the name and 1..3 distinct catalog ingredients.
func NewCreatePizzaRequest(name string, ingredients []string) (CreatePizzaRequest, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return CreatePizzaRequest{}, httperrors.Validation(httperrors.ErrCodeMissingField, "pizzaName", "Please enter a pizza name")
	}
	if len(ingredients) == 0 {
		return CreatePizzaRequest{}, httperrors.Validation(httperrors.ErrCodeIngredientsEmpty, "ingredients",
			"Please select at least one ingredient")
	}
	if len(ingredients) > MaxPizzaIngredients {
		return CreatePizzaRequest{}, httperrors.Validation(httperrors.ErrCodeIngredientsTooMany, "ingredients",
			fmt.Sprintf("Please select at most %d ingredients", MaxPizzaIngredients))
	}

	seen := make(map[string]bool, len(ingredients))
	keys := make([]string, 0, len(ingredients))
	for _, raw := range ingredients {
		key := strings.ToLower(strings.TrimSpace(raw))
		if _, ok := Lookup(key); !ok {
			return CreatePizzaRequest{}, httperrors.Validation(httperrors.ErrCodeUnknownIngredient, "ingredients",
				fmt.Sprintf("unknown ingredient %q", raw))
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return CreatePizzaRequest{PizzaName: name, Ingredients: keys}, nil
}

// CreateResult is the body of a create response.
type CreateResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// PizzaID is a pizza identifier. Hardcoded pizzas use numbers on the wire,
// custom ones strings.
type PizzaID string

func (id *PizzaID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = PizzaID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("pizza id: %w", err)
	}
	*id = PizzaID(n.String())
	return nil
}

// MarshalJSON writes numeric ids as numbers.
func (id PizzaID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// AvailablePizza is one orderable pizza.
type AvailablePizza struct {
	ID          PizzaID  `json:"id"`
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients"`
}

// Label is "Name (Topping, Topping)" or "Name (Cheese only)".
func (p AvailablePizza) Label() string {
	if len(p.Ingredients) == 0 {
		return p.Name + " (" + cheeseOnly + ")"
	}
	names := make([]string, len(p.Ingredients))
	for i, ing := range p.Ingredients {
		names[i] = DisplayName(ing)
	}
	return p.Name + " (" + strings.Join(names, ", ") + ")"
}

// AvailablePizzas is the body of GET /pizza/available.
type AvailablePizzas struct {
	Hardcoded []AvailablePizza `json:"hardcoded_pizzas"`
	Custom    []AvailablePizza `json:"custom_pizzas"`
}

// All lists hardcoded pizzas first, then custom ones.
func (a AvailablePizzas) All() []AvailablePizza {
	out := make([]AvailablePizza, 0, len(a.Hardcoded)+len(a.Custom))
	out = append(out, a.Hardcoded...)
	return append(out, a.Custom...)
}

// Find returns the pizza with the given id.
func (a AvailablePizzas) Find(id string) (AvailablePizza, bool) {
	for _, p := range a.All() {
		if string(p.ID) == id {
			return p, true
		}
	}
	return AvailablePizza{}, false
}
