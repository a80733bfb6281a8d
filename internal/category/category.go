package category

// Category groups products for the storefront collection pages.
type Category struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}
