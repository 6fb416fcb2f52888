package pizza

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"

	httperrors "github.com/gokatarajesh/slicetomeetyou/pkg/http/errors"
)

// Preference is the tri-state attitude towards one ingredient.
type Preference int

const (
	Avoid       Preference = 0
	Indifferent Preference = 1
	MustHave    Preference = 2
)

// MaxMustHave caps must-have selections per submission.
const MaxMustHave = 3

func (p Preference) Valid() bool {
	return p >= Avoid && p <= MustHave
}

// Symbol is the form marker for the tier.
func (p Preference) Symbol() string {
	switch p {
	case Avoid:
		return "❌"
	case MustHave:
		return "❤️"
	default:
		return "😐"
	}
}

func (p Preference) String() string {
	switch p {
	case Avoid:
		return "avoid"
	case Indifferent:
		return "indifferent"
	case MustHave:
		return "must-have"
	default:
		return fmt.Sprintf("Preference(%d)", int(p))
	}
}

// ParsePreference accepts the tier name or its number.
func ParsePreference(s string) (Preference, error) {
	switch s {
	case "0", "avoid", "no":
		return Avoid, nil
	case "1", "indifferent", "meh":
		return Indifferent, nil
	case "2", "must-have", "musthave", "yes":
		return MustHave, nil
	}
	return 0, httperrors.Validation(httperrors.ErrCodeInvalidPreference, "preferences",
		fmt.Sprintf("unknown preference %q", s))
}

// Preferences holds one attendee's selections. Every catalog ingredient starts
// indifferent. The zero value is not usable; call NewPreferences.
type Preferences struct {
	values map[string]Preference
}

// NewPreferences returns all-indifferent preferences.
func NewPreferences() *Preferences {
	p := &Preferences{values: make(map[string]Preference, len(Catalog))}
	p.Reset()
	return p
}

// Reset sets every ingredient back to indifferent.
func (p *Preferences) Reset() {
	for _, ing := range Catalog {
		p.values[ing.Key] = Indifferent
	}
}

// Get returns the current tier for key.
func (p *Preferences) Get(key string) Preference {
	if v, ok := p.values[key]; ok {
		return v
	}
	return Indifferent
}

// Set changes one ingredient. Unknown keys, invalid tiers and a must-have
// beyond the cap are rejected and leave the selection unchanged.
func (p *Preferences) Set(key string, pref Preference) error {
	if _, ok := Lookup(key); !ok {
		return httperrors.Validation(httperrors.ErrCodeUnknownIngredient, "preferences",
			fmt.Sprintf("unknown ingredient %q", key))
	}
	if !pref.Valid() {
		return httperrors.Validation(httperrors.ErrCodeInvalidPreference, "preferences",
			fmt.Sprintf("invalid preference %d for %s", int(pref), key))
	}
	if pref == MustHave && p.MustHaveDisabled(key) {
		return mustHaveLimit()
	}
	p.values[key] = pref
	return nil
}

// MustHaveCount is the number of must-have selections.
func (p *Preferences) MustHaveCount() int {
	n := 0
	for _, v := range p.values {
		if v == MustHave {
			n++
		}
	}
	return n
}

// MustHaves lists must-have keys in catalog order.
func (p *Preferences) MustHaves() []string {
	var out []string
	for _, ing := range Catalog {
		if p.values[ing.Key] == MustHave {
			out = append(out, ing.Key)
		}
	}
	return out
}

// MustHaveDisabled reports whether the must-have option for key is locked.
// It is derived from the current selection on every call.
func (p *Preferences) MustHaveDisabled(key string) bool {
	return p.values[key] != MustHave && p.MustHaveCount() >= MaxMustHave
}

// Validate re-checks the cap and the catalog before a request is built.
func (p *Preferences) Validate() error {
	for key, v := range p.values {
		if _, ok := Lookup(key); !ok {
			return httperrors.Validation(httperrors.ErrCodeUnknownIngredient, "preferences",
				fmt.Sprintf("unknown ingredient %q", key))
		}
		if !v.Valid() {
			return httperrors.Validation(httperrors.ErrCodeInvalidPreference, "preferences",
				fmt.Sprintf("invalid preference %d for %s", int(v), key))
		}
	}
	if p.MustHaveCount() > MaxMustHave {
		return mustHaveLimit()
	}
	return nil
}

// Map returns a copy keyed by ingredient, as sent to the backend.
func (p *Preferences) Map() map[string]Preference {
	out := make(map[string]Preference, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

// MarshalJSON writes the ingredient → tier map with sorted keys.
func (p *Preferences) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Map())
}

// Row is one line of the preference form.
type Row struct {
	Ingredient       Ingredient
	Preference       Preference
	MustHaveDisabled bool
}

// Section is one category block of the form.
type Section struct {
	Category Category
	Rows     []Row
}

// Rows builds the form view model grouped by category.
func (p *Preferences) Rows() []Section {
	locked := p.MustHaveCount() >= MaxMustHave
	sections := make([]Section, 0, len(Categories))
	for _, c := range Categories {
		s := Section{Category: c}
		for _, ing := range ByCategory(c) {
			v := p.values[ing.Key]
			s.Rows = append(s.Rows, Row{
				Ingredient:       ing,
				Preference:       v,
				MustHaveDisabled: locked && v != MustHave,
			})
		}
		sections = append(sections, s)
	}
	return sections
}

// Randomize replaces the selection with a random one ("pizza roulette"):
// zero to three must-haves, every other ingredient avoid or indifferent.
func (p *Preferences) Randomize(rng *rand.Rand) {
	keys := Keys()
	for _, k := range keys {
		if rng.IntN(2) == 0 {
			p.values[k] = Avoid
		} else {
			p.values[k] = Indifferent
		}
	}

	n := rng.IntN(MaxMustHave + 1)
	rng.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
	for _, k := range keys[:n] {
		p.values[k] = MustHave
	}
}

func mustHaveLimit() error {
	return httperrors.Validation(httperrors.ErrCodeMustHaveLimit, "preferences",
		fmt.Sprintf("You can pick at most %d must-have ingredients", MaxMustHave))
}
