package product

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	// listSelect projects the discount active on the current date next to
	// each product row; listing filters append joins and WHERE clauses.
	listSelect = `
		SELECT p.id, p.title, p."imageUrl", p.description, p.quantity, p.available_quantity, p.price, p.color, p.is_trending,
			COALESCE(pd.discount_percentage, 0)
		FROM products p
		LEFT JOIN product_discounts pd
			ON p.id = pd.product_id
			AND CURRENT_DATE BETWEEN pd.start_date AND pd.end_date
	`
	categoryJoin = `
		JOIN product_categories pc ON p.id = pc.product_id
		JOIN categories c ON c.id = pc.category_id
	`

	getCategoryIDsQuery = `
		SELECT COALESCE(array_agg(category_id ORDER BY category_id), '{}')
		FROM product_categories
		WHERE product_id = $1
	`

	listVariantsQuery = `
		SELECT id, product_id, size, color, available_quantity
		FROM product_variants
		WHERE product_id = $1
		ORDER BY id
	`

	insertProductQuery = `
		INSERT INTO products (title, "imageUrl", description, quantity, available_quantity, price, color, is_trending)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	updateProductQuery = `
		UPDATE products
		SET title = $1,
			"imageUrl" = $2,
			description = $3,
			quantity = $4,
			available_quantity = $5,
			price = $6,
			color = $7,
			is_trending = $8
		WHERE id = $9
	`
	deleteProductQuery = `DELETE FROM products WHERE id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List runs the one parameterized catalog query; category, trending and
// search narrowing all share the same SELECT and discount projection.
func (r *PostgresRepository) List(f Filter) ([]Product, error) {
	q := listSelect
	args := make([]any, 0, 2)
	where := make([]string, 0, 3)

	if f.Category != "" {
		q += categoryJoin
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("c.title = $%d", len(args)))
	}
	if f.TrendingOnly {
		where = append(where, "p.is_trending = true")
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = append(where, fmt.Sprintf("p.title ILIKE $%d", len(args)))
	}
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY p.id"

	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(id int) (Product, error) {
	row := r.db.QueryRow(listSelect+" WHERE p.id = $1", id)
	p, err := scanProduct(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}

	var ids pq.Int64Array
	if err := r.db.QueryRow(getCategoryIDsQuery, id).Scan(&ids); err == nil {
		for _, v := range ids {
			p.CategoryIDs = append(p.CategoryIDs, int(v))
		}
	}
	return p, nil
}

func (r *PostgresRepository) ListVariants(productID int) ([]Variant, error) {
	rows, err := r.db.Query(listVariantsQuery, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Variant, 0)
	for rows.Next() {
		var v Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Size, &v.Color, &v.AvailableQuantity); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Create(p Product, categoryIDs []int) (int, error) {
	var id int
	err := r.db.QueryRow(insertProductQuery,
		p.Title, p.ImageURL, p.Description, p.Quantity, p.AvailableQuantity,
		p.Price, p.Color, p.IsTrending).Scan(&id)
	if err != nil {
		return 0, err
	}

	if len(categoryIDs) > 0 {
		args := make([]any, 0, len(categoryIDs)*2)
		var b strings.Builder
		b.WriteString(`INSERT INTO product_categories (product_id, category_id) VALUES `)
		for i, catID := range categoryIDs {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "($%d, $%d)", i*2+1, i*2+2)
			args = append(args, id, catID)
		}
		if _, err := r.db.Exec(b.String(), args...); err != nil {
			return 0, err
		}
	}
	return id, nil
}

func (r *PostgresRepository) Update(id int, p Product) error {
	res, err := r.db.Exec(updateProductQuery,
		p.Title, p.ImageURL, p.Description, p.Quantity, p.AvailableQuantity,
		p.Price, p.Color, p.IsTrending, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(id int) error {
	res, err := r.db.Exec(deleteProductQuery, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var (
		p        Product
		imageURL sql.NullString
		desc     sql.NullString
		color    sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Title, &imageURL, &desc, &p.Quantity,
		&p.AvailableQuantity, &p.Price, &color, &p.IsTrending,
		&p.DiscountPercentage); err != nil {
		return Product{}, err
	}
	if imageURL.Valid {
		p.ImageURL = &imageURL.String
	}
	if desc.Valid {
		p.Description = &desc.String
	}
	if color.Valid {
		p.Color = &color.String
	}
	return p, nil
}
