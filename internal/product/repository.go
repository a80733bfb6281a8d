package product

import "errors"

var ErrNotFound = errors.New("product not found")

// Filter narrows a catalog listing. The zero value lists everything.
// A single parameterized listing replaces per-category handler variants.
type Filter struct {
	TrendingOnly bool
	Category     string
	Search       string
}

// Repository provides access to catalog rows.
type Repository interface {
	List(f Filter) ([]Product, error)
	GetByID(id int) (Product, error)
	ListVariants(productID int) ([]Variant, error)
	Create(p Product, categoryIDs []int) (int, error)
	Update(id int, p Product) error
	Delete(id int) error
}
