package model

import "time"

// Menu categories offered by the UI.
const (
	CategoryStarters   = "Starters"
	CategoryMainCourse = "Main Course"
	CategoryDrinks     = "Drinks"
	CategoryDesserts   = "Desserts"
	CategoryOther      = "Other"
)

// ValidCategory reports whether the category is one the menu accepts.
func ValidCategory(c string) bool {
	switch c {
	case CategoryStarters, CategoryMainCourse, CategoryDrinks, CategoryDesserts, CategoryOther:
		return true
	}
	return false
}

// MenuItem mirrors the 'menu_items' table.  Unavailable items stay in
// the catalog but are hidden from order-building screens.
type MenuItem struct {
	ID          uint64    `json:"_id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"imageUrl"`
	Description string    `json:"description"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
