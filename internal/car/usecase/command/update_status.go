package command

import (
	"fmt"

	"github.com/tair/car-dealership/internal/car/domain"
)

// UpdateStatusCommand marks a listing available or sold (admin only)
type UpdateStatusCommand struct {
	ID     uint
	Status string
}

// UpdateStatusHandler handles listing status changes
type UpdateStatusHandler struct {
	repo domain.CarRepository
}

// NewUpdateStatusHandler creates a new update status handler
func NewUpdateStatusHandler(repo domain.CarRepository) *UpdateStatusHandler {
	return &UpdateStatusHandler{repo: repo}
}

// Handle executes the update status command
func (h *UpdateStatusHandler) Handle(cmd UpdateStatusCommand) (*domain.Car, error) {
	if cmd.ID == 0 {
		return nil, fmt.Errorf("invalid car id")
	}
	if !domain.IsValidStatus(cmd.Status) {
		return nil, fmt.Errorf("invalid status: %s", cmd.Status)
	}

	car, err := h.repo.UpdateStatus(cmd.ID, cmd.Status)
	if err != nil {
		return nil, err
	}

	return car, nil
}
