package main

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/asifnewaz/stylora-backend/internal/cache"
	"github.com/asifnewaz/stylora-backend/internal/category"
	"github.com/asifnewaz/stylora-backend/internal/config"
	"github.com/asifnewaz/stylora-backend/internal/order"
	"github.com/asifnewaz/stylora-backend/internal/product"
	"github.com/asifnewaz/stylora-backend/internal/user"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	app := fiber.New()
	setupCORS(app)
	app.Use(requestLog)

	db := mustOpenDB(cfg.DatabaseURL)
	defer db.Close()
	ensureSchema(db)

	listingCache := cache.New(cfg.RedisAddr)

	userHandler := user.NewHandler(user.NewService(user.NewPostgresRepository(db)))
	productHandler := product.NewHandler(product.NewService(product.NewPostgresRepository(db), listingCache))
	categoryHandler := category.NewHandler(category.NewService(category.NewPostgresRepository(db)))
	orderHandler := order.NewHandler(order.NewService(order.NewPostgresRepository(db)))

	userHandler.RegisterPublicRoutes(app)
	categoryHandler.RegisterPublicRoutes(app)
	// checkout stays public; guests place orders without an account
	orderHandler.RegisterPublicRoutes(app)
	// product routes last so the :id param does not shadow fixed paths
	productHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	orderHandler.RegisterProtectedRoutes(app)
	productHandler.RegisterProtectedRoutes(app)
	categoryHandler.RegisterProtectedRoutes(app)

	if err := app.Listen(cfg.Addr); err != nil {
		panic(err)
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func requestLog(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	fmt.Printf("%s %s -> %d (%s)\n", c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start))
	return err
}

func mustOpenDB(url string) *sql.DB {
	if url == "" {
		panic("DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		panic(err)
	}

	if err := db.Ping(); err != nil {
		panic(err)
	}

	return db
}

// ensureSchema creates the tables this service shares with the storefront
// and admin UI. Statements are idempotent so restarts are safe.
func ensureSchema(db *sql.DB) {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id SERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			"imageUrl" TEXT,
			description TEXT,
			quantity INT NOT NULL DEFAULT 0,
			available_quantity INT NOT NULL DEFAULT 0,
			price NUMERIC NOT NULL DEFAULT 0,
			color TEXT,
			is_trending BOOLEAN NOT NULL DEFAULT false
		)`,
		`CREATE TABLE IF NOT EXISTS product_variants (
			id SERIAL PRIMARY KEY,
			product_id INT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			size TEXT NOT NULL,
			color TEXT NOT NULL,
			available_quantity INT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id SERIAL PRIMARY KEY,
			title TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS product_categories (
			product_id INT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			category_id INT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
			PRIMARY KEY (product_id, category_id)
		)`,
		`CREATE TABLE IF NOT EXISTS product_discounts (
			id SERIAL PRIMARY KEY,
			product_id INT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			discount_percentage NUMERIC NOT NULL DEFAULT 0,
			start_date DATE NOT NULL,
			end_date DATE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id SERIAL PRIMARY KEY,
			status TEXT NOT NULL,
			created_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS delivery_info (
			order_id INT PRIMARY KEY REFERENCES orders(id) ON DELETE CASCADE,
			name TEXT,
			phone TEXT,
			address TEXT,
			delivery_area TEXT,
			delivery_charge NUMERIC NOT NULL DEFAULT 0,
			"totalPrice" NUMERIC NOT NULL DEFAULT 0,
			"grandTotal" NUMERIC NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id SERIAL PRIMARY KEY,
			order_id INT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			product_id INT NOT NULL,
			variant_id INT NOT NULL,
			quantity INT NOT NULL,
			price_at_purchase NUMERIC NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			number TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			panic(err)
		}
	}
}
