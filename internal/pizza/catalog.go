package pizza

import (
	"strings"
)

// Category groups ingredients on the preference form.
type Category string

const (
	CategoryMeat       Category = "MEAT"
	CategoryVegetables Category = "VEGETABLES"
	CategoryHerbs      Category = "HERBS & CHEESES"
)

// Categories in display order.
var Categories = []Category{CategoryMeat, CategoryVegetables, CategoryHerbs}

// Ingredient is one catalog entry.
type Ingredient struct {
	Key      string
	Category Category
	Icon     string
}

// Name is the display name: first letter upper-cased, dash replaced by a space.
func (i Ingredient) Name() string {
	return DisplayName(i.Key)
}

// Label is the icon followed by the display name.
func (i Ingredient) Label() string {
	return i.Icon + " " + i.Name()
}

const defaultIcon = "🍕"

// Catalog is the fixed ingredient table. Order matches the backend listing
// within each category.
var Catalog = []Ingredient{
	{Key: "pepperoni", Category: CategoryMeat, Icon: "🍕"},
	{Key: "sausage", Category: CategoryMeat, Icon: "🌭"},
	{Key: "bacon", Category: CategoryMeat, Icon: "🥓"},
	{Key: "ham", Category: CategoryMeat, Icon: "🥩"},
	{Key: "chicken", Category: CategoryMeat, Icon: "🍗"},
	{Key: "beef", Category: CategoryMeat, Icon: "🥩"},
	{Key: "anchovies", Category: CategoryMeat, Icon: "🐟"},

	{Key: "mushrooms", Category: CategoryVegetables, Icon: "🍄"},
	{Key: "olives", Category: CategoryVegetables, Icon: "🫒"},
	{Key: "bell-peppers", Category: CategoryVegetables, Icon: "🫑"},
	{Key: "onions", Category: CategoryVegetables, Icon: "🧅"},
	{Key: "tomatoes", Category: CategoryVegetables, Icon: "🍅"},
	{Key: "pineapple", Category: CategoryVegetables, Icon: "🍍"},
	{Key: "spinach", Category: CategoryVegetables, Icon: "🥬"},
	{Key: "artichokes", Category: CategoryVegetables, Icon: "🥬"},

	{Key: "extra-cheese", Category: CategoryHerbs, Icon: "🧀"},
	{Key: "vegan-cheese", Category: CategoryHerbs, Icon: "🧀"},
	{Key: "basil", Category: CategoryHerbs, Icon: "🌿"},
	{Key: "garlic", Category: CategoryHerbs, Icon: "🧄"},
}

var catalogIndex = func() map[string]Ingredient {
	m := make(map[string]Ingredient, len(Catalog))
	for _, ing := range Catalog {
		m[ing.Key] = ing
	}
	return m
}()

// Lookup finds an ingredient by key.
func Lookup(key string) (Ingredient, bool) {
	ing, ok := catalogIndex[key]
	return ing, ok
}

// Icon returns the ingredient's icon, or the generic pizza icon for keys
// outside the catalog.
func Icon(key string) string {
	if ing, ok := catalogIndex[key]; ok {
		return ing.Icon
	}
	return defaultIcon
}

// ByCategory returns the catalog entries of c in table order.
func ByCategory(c Category) []Ingredient {
	var out []Ingredient
	for _, ing := range Catalog {
		if ing.Category == c {
			out = append(out, ing)
		}
	}
	return out
}

// Keys lists every catalog key in table order.
func Keys() []string {
	keys := make([]string, len(Catalog))
	for i, ing := range Catalog {
		keys[i] = ing.Key
	}
	return keys
}

// DisplayName formats an ingredient key for people.
func DisplayName(key string) string {
	if key == "" {
		return ""
	}
	name := strings.ReplaceAll(key, "-", " ")
	return strings.ToUpper(name[:1]) + name[1:]
}

// CatalogDiff compares a backend ingredient listing with the local table.
type CatalogDiff struct {
	Missing []string // local keys the backend does not list
	Unknown []string // backend keys absent from the local table
}

// Empty reports whether both sides agree.
func (d CatalogDiff) Empty() bool {
	return len(d.Missing) == 0 && len(d.Unknown) == 0
}

// DiffCatalog reports the differences between remote and Catalog.
func DiffCatalog(remote []string) CatalogDiff {
	seen := make(map[string]bool, len(remote))
	var diff CatalogDiff
	for _, key := range remote {
		seen[key] = true
		if _, ok := catalogIndex[key]; !ok {
			diff.Unknown = append(diff.Unknown, key)
		}
	}
	for _, ing := range Catalog {
		if !seen[ing.Key] {
			diff.Missing = append(diff.Missing, ing.Key)
		}
	}
	return diff
}
