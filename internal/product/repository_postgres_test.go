package product

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func productCols() []string {
	return []string{"id", "title", "imageUrl", "description", "quantity",
		"available_quantity", "price", "color", "is_trending", "discount_percentage"}
}

func TestList_ByCategoryProjectsDiscount(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	rows := sqlmock.NewRows(productCols()).
		AddRow(1, "Dropshoulder Tee", "/img/tee.jpg", "Loose fit", 50, 42, 450.0, "Black", true, 10.0).
		AddRow(2, "Dropshoulder Hoodie", nil, nil, 20, 0, 900.0, nil, false, 0.0)

	mock.ExpectQuery("c.title").WithArgs("Dropshoulder").WillReturnRows(rows)

	products, err := repo.List(Filter{Category: "Dropshoulder"})
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].DiscountPercentage != 10 {
		t.Errorf("expected discount 10, got %v", products[0].DiscountPercentage)
	}
	if products[1].Color != nil || products[1].Description != nil {
		t.Errorf("expected nil optional fields, got %+v", products[1])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestList_TrendingOnly(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	rows := sqlmock.NewRows(productCols()).
		AddRow(9, "Oversized Hoodie", nil, nil, 10, 10, 1200.0, "Navy", true, 0.0)
	mock.ExpectQuery("p.is_trending = true").WillReturnRows(rows)

	products, err := repo.List(Filter{TrendingOnly: true})
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if len(products) != 1 || !products[0].IsTrending {
		t.Fatalf("unexpected result %+v", products)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetByID_LoadsCategoryLinks(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	rows := sqlmock.NewRows(productCols()).
		AddRow(5, "Old Money Polo", "/img/polo.jpg", "Classic", 30, 25, 600.0, "White", false, 20.0)
	mock.ExpectQuery("WHERE p.id").WithArgs(5).WillReturnRows(rows)
	mock.ExpectQuery("FROM product_categories").WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"array_agg"}).AddRow("{2,7}"))

	p, err := repo.GetByID(5)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if p.Title != "Old Money Polo" || p.DiscountPercentage != 20 {
		t.Fatalf("unexpected product %+v", p)
	}
	if len(p.CategoryIDs) != 2 || p.CategoryIDs[0] != 2 || p.CategoryIDs[1] != 7 {
		t.Errorf("unexpected category ids %v", p.CategoryIDs)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("WHERE p.id").WithArgs(404).
		WillReturnRows(sqlmock.NewRows(productCols()))

	_, err = repo.GetByID(404)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreate_LinksCategoriesInBulk(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("INSERT INTO products").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(31))
	mock.ExpectExec("INSERT INTO product_categories").
		WithArgs(31, 2, 31, 7).
		WillReturnResult(sqlmock.NewResult(0, 2))

	id, err := repo.Create(Product{Title: "New Tee", Price: 450}, []int{2, 7})
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if id != 31 {
		t.Errorf("expected id 31, got %d", id)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdate_MissingProduct(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("UPDATE products").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Update(404, Product{Title: "X"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
