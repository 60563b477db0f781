package repository

import (
	"sync"

	"github.com/tair/car-dealership/internal/user/domain"
)

// MemoryUserRepository implements UserRepository with an in-process map.
// The user id counter is independent of the car id counter.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	users  map[uint]domain.User
	nextID uint
}

// NewMemoryUserRepository creates an empty in-memory user repository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:  make(map[uint]domain.User),
		nextID: 1,
	}
}

// Create assigns the next id and stores the user
func (r *MemoryUserRepository) Create(user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = *user
	return nil
}

// FindByID retrieves a user by id
func (r *MemoryUserRepository) FindByID(id uint) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

// FindByUsername retrieves the first user with a matching username.
// Linear scan, fine at this scale.
func (r *MemoryUserRepository) FindByUsername(username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// Count returns the number of registered users
func (r *MemoryUserRepository) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}
