package product

// Product maps to the `products` table. Discount fields are projected from
// the discount row active on the current date, if any; DiscountedPrice is
// computed by the service.
type Product struct {
	ID                 int     `json:"id"`
	Title              string  `json:"title"`
	ImageURL           *string `json:"imageUrl,omitempty"`
	Description        *string `json:"description,omitempty"`
	Quantity           int     `json:"quantity"`
	AvailableQuantity  int     `json:"available_quantity"`
	Price              float64 `json:"price"`
	Color              *string `json:"color,omitempty"`
	IsTrending         bool    `json:"is_trending"`
	DiscountPercentage float64 `json:"discount_percentage"`
	DiscountedPrice    float64 `json:"discountedPrice"`
	CategoryIDs        []int   `json:"categoryIds,omitempty"`
}

// Variant is a specific (size, color) instance of a product with its own
// stock counter. Orders resolve variants by the (product, size, color)
// triple.
type Variant struct {
	ID                int    `json:"id"`
	ProductID         int    `json:"productId"`
	Size              string `json:"size"`
	Color             string `json:"color"`
	AvailableQuantity int    `json:"available_quantity"`
}
