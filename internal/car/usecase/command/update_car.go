package command

import (
	"fmt"

	"github.com/tair/car-dealership/internal/car/domain"
)

// UpdateCarCommand represents a partial update of a listing. Nil fields
// keep their current value; any subset is valid, including none.
type UpdateCarCommand struct {
	ID      uint
	Updates domain.CarUpdate
}

// UpdateCarHandler handles partial listing updates
type UpdateCarHandler struct {
	repo domain.CarRepository
}

// NewUpdateCarHandler creates a new update car handler
func NewUpdateCarHandler(repo domain.CarRepository) *UpdateCarHandler {
	return &UpdateCarHandler{repo: repo}
}

// Handle executes the update car command
func (h *UpdateCarHandler) Handle(cmd UpdateCarCommand) (*domain.Car, error) {
	if cmd.ID == 0 {
		return nil, fmt.Errorf("invalid car id")
	}

	u := cmd.Updates
	if u.Make != nil && *u.Make == "" {
		return nil, fmt.Errorf("make cannot be empty")
	}
	if u.Model != nil && *u.Model == "" {
		return nil, fmt.Errorf("model cannot be empty")
	}
	if u.Year != nil && *u.Year <= 0 {
		return nil, fmt.Errorf("year must be positive")
	}
	if u.Price != nil && *u.Price < 0 {
		return nil, fmt.Errorf("price must be non-negative")
	}
	if u.Mileage != nil && *u.Mileage < 0 {
		return nil, fmt.Errorf("mileage must be non-negative")
	}
	if u.ImageURL != nil && *u.ImageURL == "" {
		return nil, fmt.Errorf("imageUrl cannot be empty")
	}

	car, err := h.repo.Update(cmd.ID, u)
	if err != nil {
		return nil, err
	}

	return car, nil
}
