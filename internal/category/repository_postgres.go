package category

import (
	"database/sql"
	"errors"
)

var ErrTitleExists = errors.New("category title already exists")

// Repository provides access to category rows.
type Repository interface {
	List() ([]Category, error)
	Create(title string) (Category, error)
}

type PostgresRepository struct {
	db *sql.DB
}

const (
	listCategoriesQuery = `SELECT id, title FROM categories ORDER BY id`
	getCategoryByTitle  = `SELECT id FROM categories WHERE title = $1`
	insertCategoryQuery = `INSERT INTO categories (title) VALUES ($1) RETURNING id`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List() ([]Category, error) {
	rows, err := r.db.Query(listCategoriesQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Category, 0)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Title); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Create(title string) (Category, error) {
	var existing int
	if err := r.db.QueryRow(getCategoryByTitle, title).Scan(&existing); err == nil {
		return Category{}, ErrTitleExists
	} else if err != sql.ErrNoRows {
		return Category{}, err
	}

	c := Category{Title: title}
	if err := r.db.QueryRow(insertCategoryQuery, title).Scan(&c.ID); err != nil {
		return Category{}, err
	}
	return c, nil
}
