package pizza

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// TopIngredient is one (name, count) tally. On the wire it is a two element
// array.
type TopIngredient struct {
	Name  string
	Count int
}

func (t TopIngredient) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{t.Name, t.Count})
}

func (t *TopIngredient) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("top ingredient: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("top ingredient: want [name, count], got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &t.Name); err != nil {
		return fmt.Errorf("top ingredient name: %w", err)
	}
	if err := json.Unmarshal(pair[1], &t.Count); err != nil {
		return fmt.Errorf("top ingredient count: %w", err)
	}
	return nil
}

// TargetEaters is who an order is for. The backend sends either the list of
// names or just a head count.
type TargetEaters struct {
	Names []string
	Count int
}

func (t TargetEaters) MarshalJSON() ([]byte, error) {
	if t.Names != nil {
		return json.Marshal(t.Names)
	}
	return json.Marshal(t.Count)
}

func (t *TargetEaters) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = TargetEaters{}
		return nil
	case len(data) > 0 && data[0] == '[':
		var names []string
		if err := json.Unmarshal(data, &names); err != nil {
			return fmt.Errorf("target eaters: %w", err)
		}
		*t = TargetEaters{Names: names, Count: len(names)}
		return nil
	default:
		var n int
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("target eaters: %w", err)
		}
		*t = TargetEaters{Count: n}
		return nil
	}
}

func (t TargetEaters) String() string {
	if len(t.Names) > 0 {
		return strings.Join(t.Names, ", ")
	}
	if t.Count == 1 {
		return "1 person"
	}
	if t.Count > 0 {
		return strconv.Itoa(t.Count) + " people"
	}
	return ""
}

// PreferenceCollection groups attendees that can share a pizza.
type PreferenceCollection struct {
	Slices      int      `json:"slices"`
	Description string   `json:"description"`
	Attendees   []string `json:"attendees"`
}

// Order is one recommended pizza.
type Order struct {
	Type         string       `json:"type"`
	Description  string       `json:"description"`
	Ingredients  []string     `json:"ingredients"`
	Slices       int          `json:"slices"`
	TargetEaters TargetEaters `json:"target_eaters"`
}

// Summary is the backend's party summary, displayed as is.
type Summary struct {
	PartyNumber              string                 `json:"party_number"`
	Attendees                []string               `json:"attendees"`
	TotalSlices              int                    `json:"total_slices"`
	TopIngredients           []TopIngredient        `json:"top_ingredients"`
	PreferenceCollections    []PreferenceCollection `json:"preference_collections,omitempty"`
	PizzaOrders              []Order                `json:"pizza_orders,omitempty"`
	ComprehensivePizzaOrders []Order                `json:"comprehensive_pizza_orders,omitempty"`
}

// Orders prefers the comprehensive order list when the backend sent one.
func (s Summary) Orders() []Order {
	if len(s.ComprehensivePizzaOrders) > 0 {
		return s.ComprehensivePizzaOrders
	}
	return s.PizzaOrders
}

const (
	msgNoToppings = "No ingredient preferences recorded yet."
	cheeseOnly    = "Cheese only"
)

// ToppingView is one line of the top toppings card.
type ToppingView struct {
	Key   string
	Label string
	Count int
}

// CollectionView is one preference collection.
type CollectionView struct {
	Slices      string
	Description string
	Attendees   []string
}

// OrderView is one recommended order.
type OrderView struct {
	Type        string
	Description string
	Ingredients string
	Slices      string
	Eaters      string
}

// SummaryView is the presentational form of a Summary.
type SummaryView struct {
	PartyNumber   string
	AttendeeCount int
	Attendees     []string
	TotalSlices   int
	SliceLabel    string
	PizzaLabel    string
	Toppings      []ToppingView
	NoToppings    string // set when Toppings is empty
	Collections   []CollectionView
	Orders        []OrderView
}

// BuildSummaryView maps a Summary to display strings. It does not reorder or
// recompute anything the backend decided.
func BuildSummaryView(s Summary) SummaryView {
	v := SummaryView{
		PartyNumber:   s.PartyNumber,
		AttendeeCount: len(s.Attendees),
		Attendees:     s.Attendees,
		TotalSlices:   s.TotalSlices,
		SliceLabel:    fmt.Sprintf("%d slices", s.TotalSlices),
		PizzaLabel:    FormatSlices(s.TotalSlices),
	}

	for _, t := range s.TopIngredients {
		v.Toppings = append(v.Toppings, ToppingView{
			Key:   t.Name,
			Label: Icon(t.Name) + " " + DisplayName(t.Name),
			Count: t.Count,
		})
	}
	if len(v.Toppings) == 0 {
		v.NoToppings = msgNoToppings
	}

	for _, c := range s.PreferenceCollections {
		v.Collections = append(v.Collections, CollectionView{
			Slices:      FormatSlices(c.Slices),
			Description: c.Description,
			Attendees:   c.Attendees,
		})
	}

	for _, o := range s.Orders() {
		ov := OrderView{
			Type:        o.Type,
			Description: o.Description,
			Ingredients: cheeseOnly,
			Eaters:      o.TargetEaters.String(),
		}
		if len(o.Ingredients) > 0 {
			names := make([]string, len(o.Ingredients))
			for i, ing := range o.Ingredients {
				names[i] = DisplayName(ing)
			}
			ov.Ingredients = strings.Join(names, ", ")
		}
		if o.Slices > 0 {
			ov.Slices = FormatSlices(o.Slices)
		}
		v.Orders = append(v.Orders, ov)
	}
	return v
}

// WriteSummary prints the view as plain text.
func WriteSummary(w io.Writer, v SummaryView) error {
	var b strings.Builder
	fmt.Fprintf(&b, "🍕 Party %s\n\n", v.PartyNumber)
	fmt.Fprintf(&b, "Attendees (%d): %s\n", v.AttendeeCount, strings.Join(v.Attendees, ", "))
	fmt.Fprintf(&b, "Total: %s (%s)\n\n", v.SliceLabel, v.PizzaLabel)

	b.WriteString("Top toppings:\n")
	if len(v.Toppings) == 0 {
		fmt.Fprintf(&b, "  %s\n", v.NoToppings)
	}
	for _, t := range v.Toppings {
		fmt.Fprintf(&b, "  %-24s %d\n", t.Label, t.Count)
	}

	if len(v.Collections) > 0 {
		b.WriteString("\nPreference groups:\n")
		for _, c := range v.Collections {
			fmt.Fprintf(&b, "  %s: %s", c.Slices, c.Description)
			if len(c.Attendees) > 0 {
				fmt.Fprintf(&b, " [%s]", strings.Join(c.Attendees, ", "))
			}
			b.WriteByte('\n')
		}
	}

	if len(v.Orders) > 0 {
		b.WriteString("\n🍕 Recommended Pizza Orders\n")
		for _, o := range v.Orders {
			fmt.Fprintf(&b, "\n  %s\n", o.Type)
			if o.Description != "" {
				fmt.Fprintf(&b, "  %s\n", o.Description)
			}
			fmt.Fprintf(&b, "  Ingredients: %s\n", o.Ingredients)
			if o.Slices != "" {
				fmt.Fprintf(&b, "  Size: %s\n", o.Slices)
			}
			if o.Eaters != "" {
				fmt.Fprintf(&b, "  For: %s\n", o.Eaters)
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
