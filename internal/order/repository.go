package order

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNoItems rejects carts without line items before any store work.
	ErrNoItems = errors.New("no items in the order")
	// ErrInvalidItem rejects line items missing product, size, color or a
	// positive quantity.
	ErrInvalidItem = errors.New("order item is missing product, size, color or quantity")
	// ErrNoStatus rejects status updates with an empty status value.
	ErrNoStatus = errors.New("status is required")
	// ErrNotFound means the order id does not exist.
	ErrNotFound = errors.New("order not found")
)

// VariantNotFoundError reports the exact (product, size, color) triple that
// could not be resolved so the storefront can point at the offending line.
type VariantNotFoundError struct {
	ProductID int
	Size      string
	Color     string
}

func (e *VariantNotFoundError) Error() string {
	return fmt.Sprintf("no variant found for product %d with size %s and color %s", e.ProductID, e.Size, e.Color)
}

// InventoryUpdateError wraps a failure while decrementing variant stock on
// the shipped transition. The whole transaction is rolled back, so the
// status change does not persist either.
type InventoryUpdateError struct {
	OrderID int
	Err     error
}

func (e *InventoryUpdateError) Error() string {
	return fmt.Sprintf("inventory update failed for order %d: %v", e.OrderID, e.Err)
}

func (e *InventoryUpdateError) Unwrap() error { return e.Err }

// StatusResult reports what a status update did.
type StatusResult struct {
	PreviousStatus    string
	InventoryAdjusted bool
}

// Repository defines persistence operations for orders.
type Repository interface {
	// Create persists the order, its delivery info and all line items as a
	// single all-or-nothing transaction and returns the generated order id.
	Create(ctx context.Context, info DeliveryInfo, items []LineRequest) (int, error)
	// List returns every order with delivery fields and nested items,
	// newest order first.
	List(ctx context.Context) ([]Order, error)
	// SetStatus updates the order status. On the transition into shipped it
	// also decrements stock for each line item, floored at zero, within the
	// same transaction.
	SetStatus(ctx context.Context, orderID int, status string) (StatusResult, error)
}
