package query

import (
	"fmt"

	"github.com/tair/car-dealership/internal/car/domain"
)

// ListCarsQuery represents the query to list all listings
type ListCarsQuery struct{}

// ListCarsHandler handles list cars query
type ListCarsHandler struct {
	repo domain.CarRepository
}

// NewListCarsHandler creates a new list cars handler
func NewListCarsHandler(repo domain.CarRepository) *ListCarsHandler {
	return &ListCarsHandler{repo: repo}
}

// Handle executes the list cars query
func (h *ListCarsHandler) Handle(q ListCarsQuery) ([]domain.Car, error) {
	cars, err := h.repo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}

	return cars, nil
}
