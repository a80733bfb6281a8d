package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	insertOrderQuery = `INSERT INTO orders (status, created_at) VALUES ($1, $2) RETURNING id`

	insertDeliveryQuery = `
		INSERT INTO delivery_info (order_id, name, phone, address, delivery_area, delivery_charge, "totalPrice", "grandTotal")
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	findVariantQuery = `SELECT id FROM product_variants WHERE product_id = $1 AND size = $2 AND color = $3 LIMIT 1`

	listOrdersQuery = `
		SELECT o.id, o.status, o.created_at,
			d.name, d.phone, d.address, d.delivery_area, d.delivery_charge, d."totalPrice", d."grandTotal",
			oi.product_id, oi.quantity, oi.price_at_purchase,
			p.title, v.color, v.size
		FROM orders o
		JOIN delivery_info d ON o.id = d.order_id
		JOIN order_items oi ON o.id = oi.order_id
		JOIN products p ON oi.product_id = p.id
		JOIN product_variants v ON oi.variant_id = v.id
		ORDER BY o.id DESC
	`

	lockStatusQuery   = `SELECT status FROM orders WHERE id = $1 FOR UPDATE`
	updateStatusQuery = `UPDATE orders SET status = $1 WHERE id = $2`
	listItemsQuery    = `SELECT variant_id, quantity FROM order_items WHERE order_id = $1`

	decrementStockQuery = `
		UPDATE product_variants
		SET available_quantity = GREATEST(available_quantity - $1, 0)
		WHERE id = $2
	`
)

// txTimeout bounds how long a placement or status transaction may hold row
// locks before it is abandoned and rolled back.
const txTimeout = 10 * time.Second

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the order, its delivery info and all line items in one
// transaction. Variant resolution happens for every line before any item
// row is written, so an unresolvable line aborts with nothing half-stored.
func (r *PostgresRepository) Create(ctx context.Context, info DeliveryInfo, items []LineRequest) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(tx)

	var orderID int
	createdAt := time.Now().UTC().Format(time.RFC3339)
	if err := tx.QueryRowContext(ctx, insertOrderQuery, StatusPending, createdAt).Scan(&orderID); err != nil {
		return 0, fmt.Errorf("order insert failed: %w", err)
	}

	if _, err := tx.ExecContext(ctx, insertDeliveryQuery,
		orderID, info.Name, info.Phone, info.Address, info.DeliveryArea,
		info.DeliveryCharge, info.TotalPrice, info.GrandTotal); err != nil {
		return 0, fmt.Errorf("delivery info insert failed: %w", err)
	}

	args := make([]any, 0, len(items)*5)
	for _, it := range items {
		var variantID int
		err := tx.QueryRowContext(ctx, findVariantQuery, it.ProductID, it.Size, it.Color).Scan(&variantID)
		if errors.Is(err, sql.ErrNoRows) {
			return 0, &VariantNotFoundError{ProductID: it.ProductID, Size: it.Size, Color: it.Color}
		}
		if err != nil {
			return 0, fmt.Errorf("variant lookup failed: %w", err)
		}
		args = append(args, orderID, it.ProductID, variantID, it.Quantity, it.Price)
	}

	if _, err := tx.ExecContext(ctx, bulkInsertItemsQuery(len(items)), args...); err != nil {
		return 0, fmt.Errorf("order items insert failed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("transaction commit failed: %w", err)
	}
	return orderID, nil
}

// bulkInsertItemsQuery builds the multi-row VALUES clause for n items so
// all line rows land in a single statement.
func bulkInsertItemsQuery(n int) string {
	var b strings.Builder
	b.WriteString(`INSERT INTO order_items (order_id, product_id, variant_id, quantity, price_at_purchase) VALUES `)
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		base := i * 5
		fmt.Fprintf(&b, "($%d, $%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4, base+5)
	}
	return b.String()
}

// List fetches the flat join of orders, delivery info and items and groups
// the rows into nested order objects, preserving the newest-first order.
func (r *PostgresRepository) List(ctx context.Context) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, listOrdersQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]Order, 0)
	index := map[int]int{}
	for rows.Next() {
		var (
			ord  Order
			item Item
		)
		if err := rows.Scan(&ord.OrderID, &ord.Status, &ord.CreatedAt,
			&ord.Name, &ord.Phone, &ord.Address, &ord.DeliveryArea,
			&ord.DeliveryCharge, &ord.TotalPrice, &ord.GrandTotal,
			&item.ProductID, &item.Quantity, &item.Price,
			&item.Title, &item.Color, &item.Size); err != nil {
			return nil, err
		}

		pos, seen := index[ord.OrderID]
		if !seen {
			ord.Items = []Item{item}
			index[ord.OrderID] = len(orders)
			orders = append(orders, ord)
			continue
		}
		orders[pos].Items = append(orders[pos].Items, item)
	}
	return orders, rows.Err()
}

// SetStatus writes the new status and, on the edge into shipped, decrements
// variant stock for every line item. The previous status is read under a
// row lock so the decrement fires at most once per order no matter how many
// times the shipped transition is replayed.
func (r *PostgresRepository) SetStatus(ctx context.Context, orderID int, status string) (StatusResult, error) {
	ctx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return StatusResult{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(tx)

	var previous string
	if err := tx.QueryRowContext(ctx, lockStatusQuery, orderID).Scan(&previous); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return StatusResult{}, ErrNotFound
		}
		return StatusResult{}, fmt.Errorf("status lookup failed: %w", err)
	}

	if _, err := tx.ExecContext(ctx, updateStatusQuery, status, orderID); err != nil {
		return StatusResult{}, fmt.Errorf("status update failed: %w", err)
	}

	res := StatusResult{PreviousStatus: previous}
	if strings.EqualFold(status, StatusShipped) && !strings.EqualFold(previous, StatusShipped) {
		if err := adjustInventory(ctx, tx, orderID); err != nil {
			return StatusResult{}, &InventoryUpdateError{OrderID: orderID, Err: err}
		}
		res.InventoryAdjusted = true
	}

	if err := tx.Commit(); err != nil {
		return StatusResult{}, fmt.Errorf("transaction commit failed: %w", err)
	}
	return res, nil
}

// rollback is deferred cleanup on every exit path. It is a no-op after a
// successful commit; a genuine rollback failure is logged separately from
// the error that triggered it.
func rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		fmt.Printf("transaction rollback failed: %v\n", err)
	}
}

// adjustInventory decrements available_quantity for each line item of the
// order, floored at zero by the GREATEST expression in SQL. Rows are
// collected before the updates run because database/sql allows only one
// active statement per transaction.
func adjustInventory(ctx context.Context, tx *sql.Tx, orderID int) error {
	rows, err := tx.QueryContext(ctx, listItemsQuery, orderID)
	if err != nil {
		return fmt.Errorf("fetch order items: %w", err)
	}

	type line struct {
		variantID int
		quantity  int
	}
	lines := make([]line, 0)
	for rows.Next() {
		var l line
		if err := rows.Scan(&l.variantID, &l.quantity); err != nil {
			rows.Close()
			return fmt.Errorf("scan order item: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("fetch order items: %w", err)
	}
	rows.Close()

	for _, l := range lines {
		if _, err := tx.ExecContext(ctx, decrementStockQuery, l.quantity, l.variantID); err != nil {
			return fmt.Errorf("decrement variant %d: %w", l.variantID, err)
		}
	}
	return nil
}
