package server

import "github.com/retailco/taxproc/internal/model"

// ProcessResponse is the successful processing response
type ProcessResponse struct {
	Invoice  *model.Invoice `json:"invoice"`
	Warnings []string       `json:"warnings,omitempty"`
}

// CategoryOutput is one category table entry
type CategoryOutput struct {
	Name string `json:"name"`
	Rate string `json:"rate"`
}

// CategoriesResponse lists the valid category set
type CategoriesResponse struct {
	Count      int              `json:"count"`
	Categories []CategoryOutput `json:"categories"`
}
