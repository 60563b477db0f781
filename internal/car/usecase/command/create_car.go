package command

import (
	"fmt"

	"github.com/tair/car-dealership/internal/car/domain"
)

// CreateCarCommand represents the command to create a listing.
// Only the writable subset of fields is accepted; id, status and
// favorite state are assigned by the store.
type CreateCarCommand struct {
	Make        string
	Model       string
	Year        int
	Price       int
	Mileage     int
	Description string
	ImageURL    string
}

// CreateCarHandler handles listing creation
type CreateCarHandler struct {
	repo domain.CarRepository
}

// NewCreateCarHandler creates a new create car handler
func NewCreateCarHandler(repo domain.CarRepository) *CreateCarHandler {
	return &CreateCarHandler{repo: repo}
}

// Handle executes the create car command
func (h *CreateCarHandler) Handle(cmd CreateCarCommand) (*domain.Car, error) {
	if cmd.Make == "" {
		return nil, fmt.Errorf("make is required")
	}
	if cmd.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if cmd.Year <= 0 {
		return nil, fmt.Errorf("year must be positive")
	}
	if cmd.Price < 0 {
		return nil, fmt.Errorf("price must be non-negative")
	}
	if cmd.Mileage < 0 {
		return nil, fmt.Errorf("mileage must be non-negative")
	}
	if cmd.Description == "" {
		return nil, fmt.Errorf("description is required")
	}
	if cmd.ImageURL == "" {
		return nil, fmt.Errorf("imageUrl is required")
	}

	car := &domain.Car{
		Make:        cmd.Make,
		Model:       cmd.Model,
		Year:        cmd.Year,
		Price:       cmd.Price,
		Mileage:     cmd.Mileage,
		Description: cmd.Description,
		ImageURL:    cmd.ImageURL,
	}

	if err := h.repo.Create(car); err != nil {
		return nil, fmt.Errorf("failed to create car: %w", err)
	}

	return car, nil
}
