package types

import (
	"cmp"
	"slices"
)

// Program is a degree track listed on a faculty page.
type Program struct {
	// ID is the number scraped from the "(123)" suffix of the label, kept as text.
	ID string `json:"id" bson:"id" validate:"required"`

	// Name is the label with the parenthesized ID removed.
	Name string `json:"name" bson:"name"`

	// URL is taken from the link as-is or built as a fallback; it is not
	// guaranteed to parse as a URL.
	URL string `json:"url" bson:"url" validate:"required"`
}

// Faculty is an academic division and the programs found on its page.
type Faculty struct {
	// ID is the enumerated entity id used to build the request URL.
	ID int `json:"id" bson:"id" validate:"gte=0"`

	Name string `json:"name" bson:"name"`

	// URL is the exact request URL the page was fetched from.
	URL string `json:"url" bson:"url" validate:"required,url"`

	Programs []Program `json:"programs" bson:"programs" validate:"min=1"`
}

// SortFaculties orders faculties by name using byte-wise string comparison.
func SortFaculties(faculties []*Faculty) {
	slices.SortFunc(faculties, func(a, b *Faculty) int {
		return cmp.Compare(a.Name, b.Name)
	})
}
