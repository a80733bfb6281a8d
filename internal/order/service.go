package order

import (
	"context"
	"strings"
)

// Service provides business logic for orders.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// Place validates the cart and persists it. Validation failures are
// returned before the repository is touched, so no transaction is opened
// for a malformed request.
func (s *Service) Place(ctx context.Context, info DeliveryInfo, items []LineRequest) (int, error) {
	if len(items) == 0 {
		return 0, ErrNoItems
	}
	for _, it := range items {
		if it.ProductID <= 0 || it.Size == "" || it.Color == "" || it.Quantity <= 0 {
			return 0, ErrInvalidItem
		}
	}
	return s.repo.Create(ctx, info, items)
}

func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.repo.List(ctx)
}

// SetStatus applies a caller-supplied status transition. The repository
// handles the shipped edge and its inventory side effect.
func (s *Service) SetStatus(ctx context.Context, orderID int, status string) (StatusResult, error) {
	if orderID <= 0 {
		return StatusResult{}, ErrNotFound
	}
	if strings.TrimSpace(status) == "" {
		return StatusResult{}, ErrNoStatus
	}
	return s.repo.SetStatus(ctx, orderID, status)
}
