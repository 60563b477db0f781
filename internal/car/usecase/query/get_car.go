package query

import (
	"fmt"

	"github.com/tair/car-dealership/internal/car/domain"
)

// GetCarQuery represents the query to get a listing by id
type GetCarQuery struct {
	ID uint
}

// GetCarHandler handles get car query
type GetCarHandler struct {
	repo domain.CarRepository
}

// NewGetCarHandler creates a new get car handler
func NewGetCarHandler(repo domain.CarRepository) *GetCarHandler {
	return &GetCarHandler{repo: repo}
}

// Handle executes the get car query
func (h *GetCarHandler) Handle(q GetCarQuery) (*domain.Car, error) {
	if q.ID == 0 {
		return nil, fmt.Errorf("invalid car id")
	}

	return h.repo.FindByID(q.ID)
}
