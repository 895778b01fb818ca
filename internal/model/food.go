package model

import (
	"strings"

	"golang.org/x/text/cases"
)

// FoodItem is a single tracked item in the shared fridge.
//
// ExpiryDate and AddedDate are calendar dates in YYYY-MM-DD form. They stay
// strings on the wire so that clients classify them through the expiry
// package and fail closed on malformed values.
type FoodItem struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Category    FoodCategory `json:"category"`
	Quantity    int          `json:"quantity"`
	ExpiryDate  string       `json:"expiryDate"`
	AddedDate   string       `json:"addedDate"`
	OwnerEmail  string       `json:"ownerEmail"`
	ImageURL    string       `json:"imageUrl"`
	Description string       `json:"description"`
}

// OwnedBy reports whether email belongs to the item's owner.
func (f *FoodItem) OwnedBy(email string) bool {
	return email != "" && NormalizeEmail(email) == NormalizeEmail(f.OwnerEmail)
}

// FoodCategory is the kind of food an item is.
type FoodCategory string

// Food categories.
const (
	CategoryDairy      FoodCategory = "Dairy"
	CategoryMeat       FoodCategory = "Meat"
	CategoryVegetables FoodCategory = "Vegetables"
	CategoryFruits     FoodCategory = "Fruits"
	CategoryGrains     FoodCategory = "Grains"
	CategorySnacks     FoodCategory = "Snacks"
	CategoryBeverages  FoodCategory = "Beverages"
	CategoryCondiments FoodCategory = "Condiments"
	CategoryOther      FoodCategory = "Other"
)

// FoodCategories lists all categories in display order.
var FoodCategories = []FoodCategory{
	CategoryDairy,
	CategoryMeat,
	CategoryVegetables,
	CategoryFruits,
	CategoryGrains,
	CategorySnacks,
	CategoryBeverages,
	CategoryCondiments,
	CategoryOther,
}

// Valid reports whether c is one of FoodCategories.
func (c FoodCategory) Valid() bool {
	for _, fc := range FoodCategories {
		if c == fc {
			return true
		}
	}
	return false
}

// foldedCategories maps the Unicode case fold of each category name to it.
var foldedCategories = func() map[string]FoodCategory {
	fold := cases.Fold()
	m := make(map[string]FoodCategory, len(FoodCategories))
	for _, fc := range FoodCategories {
		m[fold.String(string(fc))] = fc
	}
	return m
}()

// ParseFoodCategory matches s against the known categories ignoring case.
func ParseFoodCategory(s string) (FoodCategory, bool) {
	fc, ok := foldedCategories[cases.Fold().String(strings.TrimSpace(s))]
	return fc, ok
}
