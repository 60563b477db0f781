package repository

import (
	"sync"

	"github.com/tair/car-dealership/internal/car/domain"
)

// MemoryCarRepository implements CarRepository with in-process maps.
// Ids come from a monotonic counter starting at 1 and are never reused.
// The mutex guards the read-modify-write pairs (update, toggle) against
// concurrent handlers.
type MemoryCarRepository struct {
	mu        sync.RWMutex
	cars      map[uint]domain.Car
	order     []uint
	favorites map[uint]struct{}
	nextID    uint
}

// NewMemoryCarRepository creates an empty in-memory car repository
func NewMemoryCarRepository() *MemoryCarRepository {
	return &MemoryCarRepository{
		cars:      make(map[uint]domain.Car),
		favorites: make(map[uint]struct{}),
		nextID:    1,
	}
}

// Create assigns the next id, forces status to available and stores the car
func (r *MemoryCarRepository) Create(car *domain.Car) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	car.ID = r.nextID
	r.nextID++
	car.Status = domain.StatusAvailable
	car.IsFavorite = false

	r.cars[car.ID] = *car
	r.order = append(r.order, car.ID)
	return nil
}

// FindByID returns the car annotated with favorite membership
func (r *MemoryCarRepository) FindByID(id uint) (*domain.Car, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	car, ok := r.cars[id]
	if !ok {
		return nil, domain.ErrCarNotFound
	}
	_, car.IsFavorite = r.favorites[id]
	return &car, nil
}

// FindAll returns all cars in insertion order, annotated with favorite membership
func (r *MemoryCarRepository) FindAll() ([]domain.Car, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cars := make([]domain.Car, 0, len(r.order))
	for _, id := range r.order {
		car := r.cars[id]
		_, car.IsFavorite = r.favorites[id]
		cars = append(cars, car)
	}
	return cars, nil
}

// Update shallow-merges the set fields over the stored record
func (r *MemoryCarRepository) Update(id uint, updates domain.CarUpdate) (*domain.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	car, ok := r.cars[id]
	if !ok {
		return nil, domain.ErrCarNotFound
	}

	if updates.Make != nil {
		car.Make = *updates.Make
	}
	if updates.Model != nil {
		car.Model = *updates.Model
	}
	if updates.Year != nil {
		car.Year = *updates.Year
	}
	if updates.Price != nil {
		car.Price = *updates.Price
	}
	if updates.Mileage != nil {
		car.Mileage = *updates.Mileage
	}
	if updates.Description != nil {
		car.Description = *updates.Description
	}
	if updates.ImageURL != nil {
		car.ImageURL = *updates.ImageURL
	}

	r.cars[id] = car
	_, car.IsFavorite = r.favorites[id]
	return &car, nil
}

// UpdateStatus sets the listing status
func (r *MemoryCarRepository) UpdateStatus(id uint, status string) (*domain.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	car, ok := r.cars[id]
	if !ok {
		return nil, domain.ErrCarNotFound
	}

	car.Status = status
	r.cars[id] = car
	_, car.IsFavorite = r.favorites[id]
	return &car, nil
}

// Delete removes the car and its favorite membership. Deleting a missing
// id is a no-op.
func (r *MemoryCarRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.cars[id]; ok {
		delete(r.cars, id)
		for i, oid := range r.order {
			if oid == id {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
	delete(r.favorites, id)
	return nil
}

// ToggleFavorite flips favorite membership for the id. Existence of the
// car is the caller's concern.
func (r *MemoryCarRepository) ToggleFavorite(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.favorites[id]; ok {
		delete(r.favorites, id)
	} else {
		r.favorites[id] = struct{}{}
	}
	return nil
}

// Count returns the number of stored cars
func (r *MemoryCarRepository) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.cars)), nil
}

// CountFavorites returns the number of favorited cars
func (r *MemoryCarRepository) CountFavorites() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.favorites)), nil
}
