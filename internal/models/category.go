// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "fmt"

// Category is one of a fixed set of topics an article can be filed under.
// An article without a category is uncategorized.
type Category string

const (
	CategoryTech      Category = "tech"
	CategoryFood      Category = "food"
	CategoryTravel    Category = "travel"
	CategoryScience   Category = "science"
	CategoryCulture   Category = "culture"
	CategorySports    Category = "sports"
	CategoryLifestyle Category = "lifestyle"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryTech,
	CategoryFood,
	CategoryTravel,
	CategoryScience,
	CategoryCulture,
	CategorySports,
	CategoryLifestyle,
}

// Valid returns true if c is a member of the fixed category set.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory converts a raw query or form value into a Category.
// An empty string yields (nil, nil) so callers can treat it as "no filter".
func ParseCategory(raw string) (*Category, error) {
	if raw == "" {
		return nil, nil
	}
	c := Category(raw)
	if !c.Valid() {
		return nil, fmt.Errorf("unknown category %q", raw)
	}
	return &c, nil
}
