package command

import (
	"fmt"

	"github.com/tair/car-dealership/internal/car/domain"
)

// DeleteCarCommand removes a listing and its favorite membership.
// Deleting a missing id is a no-op.
type DeleteCarCommand struct {
	ID uint
}

// DeleteCarHandler handles listing deletion
type DeleteCarHandler struct {
	repo domain.CarRepository
}

// NewDeleteCarHandler creates a new delete car handler
func NewDeleteCarHandler(repo domain.CarRepository) *DeleteCarHandler {
	return &DeleteCarHandler{repo: repo}
}

// Handle executes the delete car command
func (h *DeleteCarHandler) Handle(cmd DeleteCarCommand) error {
	if cmd.ID == 0 {
		return fmt.Errorf("invalid car id")
	}

	if err := h.repo.Delete(cmd.ID); err != nil {
		return fmt.Errorf("failed to delete car: %w", err)
	}

	return nil
}
