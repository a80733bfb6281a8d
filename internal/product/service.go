package product

import (
	"context"
	"fmt"
	"math"

	"github.com/asifnewaz/stylora-backend/internal/cache"
)

// Service provides business logic for the catalog. Listings go through an
// optional read-through cache keyed by the filter fingerprint.
type Service struct {
	repo  Repository
	cache *cache.Cache
}

func NewService(repo Repository, c *cache.Cache) *Service {
	return &Service{repo: repo, cache: c}
}

func (s *Service) List(ctx context.Context, f Filter) ([]Product, error) {
	key := fmt.Sprintf(cache.KeyProductList, f.fingerprint())

	var cached []Product
	if s.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	items, err := s.repo.List(f)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].DiscountedPrice = discountedPrice(items[i].Price, items[i].DiscountPercentage)
	}

	s.cache.SetJSON(ctx, key, items, cache.TTLProductList)
	return items, nil
}

func (s *Service) GetByID(id int) (Product, error) {
	p, err := s.repo.GetByID(id)
	if err != nil {
		return Product{}, err
	}
	p.DiscountedPrice = discountedPrice(p.Price, p.DiscountPercentage)
	return p, nil
}

func (s *Service) ListVariants(productID int) ([]Variant, error) {
	return s.repo.ListVariants(productID)
}

func (s *Service) Create(ctx context.Context, p Product, categoryIDs []int) (int, error) {
	id, err := s.repo.Create(p, categoryIDs)
	if err != nil {
		return 0, err
	}
	s.cache.InvalidatePrefix(ctx, cache.PrefixProductList)
	return id, nil
}

func (s *Service) Update(ctx context.Context, id int, p Product) error {
	if err := s.repo.Update(id, p); err != nil {
		return err
	}
	s.cache.InvalidatePrefix(ctx, cache.PrefixProductList)
	return nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.cache.InvalidatePrefix(ctx, cache.PrefixProductList)
	return nil
}

func (f Filter) fingerprint() string {
	return fmt.Sprintf("%s|%t|%s", f.Category, f.TrendingOnly, f.Search)
}

// discountedPrice applies the active percentage discount and rounds to the
// nearest whole number, matching the storefront's displayed prices.
func discountedPrice(price, pct float64) float64 {
	return math.Round(price - price*pct/100)
}
