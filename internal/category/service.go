package category

import (
	"errors"
	"strings"
)

var ErrEmptyTitle = errors.New("category title is required")

// Service provides business logic for categories.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) List() ([]Category, error) {
	return s.repo.List()
}

func (s *Service) Create(title string) (Category, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Category{}, ErrEmptyTitle
	}
	return s.repo.Create(title)
}
