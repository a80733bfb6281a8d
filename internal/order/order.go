package order

// Order represents a placed order together with its delivery details and
// resolved line items. JSON field names follow the storefront contract.
type Order struct {
	OrderID   int    `json:"orderId"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
	DeliveryInfo
	Items []Item `json:"items"`
}

// DeliveryInfo holds the recipient and the totals captured at checkout.
// One row per order; the caller's totals are stored verbatim.
type DeliveryInfo struct {
	Name           string  `json:"name"`
	Phone          string  `json:"phone"`
	Address        string  `json:"address"`
	DeliveryArea   string  `json:"deliveryArea"`
	DeliveryCharge float64 `json:"deliveryCharge"`
	TotalPrice     float64 `json:"totalPrice"`
	GrandTotal     float64 `json:"grandTotal"`
}

// LineRequest is one cart line as submitted at checkout. The variant is
// resolved from (ProductID, Size, Color) at placement time.
type LineRequest struct {
	ProductID int     `json:"productId"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Item is a stored order line enriched with the product title.
type Item struct {
	ProductID int     `json:"productId"`
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Color     string  `json:"color"`
	Size      string  `json:"size"`
}

const (
	// StatusPending is assigned to every new order.
	StatusPending = "Pending"
	// StatusShipped marks fulfillment; the transition into it decrements
	// variant stock. Other status values are free-form.
	StatusShipped = "Shipped"
)
