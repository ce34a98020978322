package models

import "github.com/google/uuid"

// Product is a catalog item that offers refer to.
//
// Descriptive fields are nullable in the catalog and are kept as pointers so
// that "unknown" and "empty" stay distinguishable.
type Product struct {
	ID          uuid.UUID
	Name        string
	Brand       *string
	Category    *string
	Subcategory *string
	Unit        *string
	ImageURL    *string
}

// Chain is a supermarket brand. Chains are reference data resolved by id or
// slug; the service never assumes a fixed set of them.
type Chain struct {
	ID         uuid.UUID
	Name       string
	Slug       string
	LogoURL    *string
	WebsiteURL *string
}
