package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tair/car-dealership/internal/car/domain"
)

// GormCarRepository implements CarRepository using GORM
type GormCarRepository struct {
	db *gorm.DB
}

// NewGormCarRepository creates a new GORM car repository
func NewGormCarRepository(db *gorm.DB) *GormCarRepository {
	return &GormCarRepository{db: db}
}

// AutoMigrate runs database migrations
func (r *GormCarRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Car{}, &domain.Favorite{})
}

// Create inserts a new car, forcing the available status
func (r *GormCarRepository) Create(car *domain.Car) error {
	car.Status = domain.StatusAvailable
	car.IsFavorite = false
	if err := r.db.Create(car).Error; err != nil {
		return fmt.Errorf("failed to create car: %w", err)
	}
	return nil
}

// FindByID retrieves a car annotated with favorite membership
func (r *GormCarRepository) FindByID(id uint) (*domain.Car, error) {
	var car domain.Car
	if err := r.db.First(&car, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCarNotFound
		}
		return nil, fmt.Errorf("failed to find car: %w", err)
	}

	favorite, err := r.isFavorite(id)
	if err != nil {
		return nil, err
	}
	car.IsFavorite = favorite
	return &car, nil
}

// FindAll retrieves all cars in insertion (id) order, annotated with
// favorite membership
func (r *GormCarRepository) FindAll() ([]domain.Car, error) {
	var cars []domain.Car
	if err := r.db.Order("id").Find(&cars).Error; err != nil {
		return nil, fmt.Errorf("failed to find cars: %w", err)
	}

	var favorites []domain.Favorite
	if err := r.db.Find(&favorites).Error; err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	favoriteSet := make(map[uint]struct{}, len(favorites))
	for _, f := range favorites {
		favoriteSet[f.CarID] = struct{}{}
	}

	for i := range cars {
		_, cars[i].IsFavorite = favoriteSet[cars[i].ID]
	}
	return cars, nil
}

// Update applies the set fields over the stored record
func (r *GormCarRepository) Update(id uint, updates domain.CarUpdate) (*domain.Car, error) {
	fields := map[string]interface{}{}
	if updates.Make != nil {
		fields["make"] = *updates.Make
	}
	if updates.Model != nil {
		fields["model"] = *updates.Model
	}
	if updates.Year != nil {
		fields["year"] = *updates.Year
	}
	if updates.Price != nil {
		fields["price"] = *updates.Price
	}
	if updates.Mileage != nil {
		fields["mileage"] = *updates.Mileage
	}
	if updates.Description != nil {
		fields["description"] = *updates.Description
	}
	if updates.ImageURL != nil {
		fields["image_url"] = *updates.ImageURL
	}

	if len(fields) > 0 {
		result := r.db.Model(&domain.Car{}).Where("id = ?", id).Updates(fields)
		if result.Error != nil {
			return nil, fmt.Errorf("failed to update car: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, domain.ErrCarNotFound
		}
	}

	return r.FindByID(id)
}

// UpdateStatus sets the listing status
func (r *GormCarRepository) UpdateStatus(id uint, status string) (*domain.Car, error) {
	result := r.db.Model(&domain.Car{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update car status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrCarNotFound
	}
	return r.FindByID(id)
}

// Delete removes the car and its favorite membership, tolerating a
// missing id
func (r *GormCarRepository) Delete(id uint) error {
	if err := r.db.Delete(&domain.Car{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete car: %w", err)
	}
	if err := r.db.Delete(&domain.Favorite{}, "car_id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	return nil
}

// ToggleFavorite flips favorite membership for the id
func (r *GormCarRepository) ToggleFavorite(id uint) error {
	favorite, err := r.isFavorite(id)
	if err != nil {
		return err
	}
	if favorite {
		return r.db.Delete(&domain.Favorite{}, "car_id = ?", id).Error
	}
	return r.db.Create(&domain.Favorite{CarID: id}).Error
}

// Count returns the total number of cars
func (r *GormCarRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&domain.Car{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count cars: %w", err)
	}
	return count, nil
}

// CountFavorites returns the number of favorited cars
func (r *GormCarRepository) CountFavorites() (int64, error) {
	var count int64
	if err := r.db.Model(&domain.Favorite{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count favorites: %w", err)
	}
	return count, nil
}

func (r *GormCarRepository) isFavorite(id uint) (bool, error) {
	var count int64
	if err := r.db.Model(&domain.Favorite{}).Where("car_id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return count > 0, nil
}
