package command

import (
	"fmt"

	"github.com/tair/car-dealership/internal/car/domain"
)

// ToggleFavoriteCommand flips a listing's favorite state
type ToggleFavoriteCommand struct {
	ID uint
}

// ToggleFavoriteHandler handles favorite toggling. It verifies the
// listing exists, flips membership and re-reads the listing so the
// caller sees consistent post-toggle state.
type ToggleFavoriteHandler struct {
	repo domain.CarRepository
}

// NewToggleFavoriteHandler creates a new toggle favorite handler
func NewToggleFavoriteHandler(repo domain.CarRepository) *ToggleFavoriteHandler {
	return &ToggleFavoriteHandler{repo: repo}
}

// Handle executes the toggle favorite command
func (h *ToggleFavoriteHandler) Handle(cmd ToggleFavoriteCommand) (*domain.Car, error) {
	if cmd.ID == 0 {
		return nil, fmt.Errorf("invalid car id")
	}

	if _, err := h.repo.FindByID(cmd.ID); err != nil {
		return nil, err
	}

	if err := h.repo.ToggleFavorite(cmd.ID); err != nil {
		return nil, fmt.Errorf("failed to toggle favorite: %w", err)
	}

	return h.repo.FindByID(cmd.ID)
}
