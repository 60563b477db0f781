package domain

import "errors"

// Listing status values
const (
	StatusAvailable = "available"
	StatusSold      = "sold"
)

// ErrCarNotFound is returned when a referenced car id does not exist
var ErrCarNotFound = errors.New("car not found")

// Car represents a vehicle listing
type Car struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Make        string `json:"make" gorm:"not null"`
	Model       string `json:"model" gorm:"not null"`
	Year        int    `json:"year" gorm:"not null"`
	Price       int    `json:"price" gorm:"not null"`
	Mileage     int    `json:"mileage" gorm:"not null"`
	Description string `json:"description" gorm:"not null"`
	ImageURL    string `json:"imageUrl" gorm:"column:image_url;not null"`
	Status      string `json:"status" gorm:"not null;default:'available'"`

	// IsFavorite is derived from the favorites relation at read time,
	// never persisted on the car record itself.
	IsFavorite bool `json:"isFavorite" gorm:"-"`
}

// TableName specifies the table name
func (Car) TableName() string {
	return "cars"
}

// IsValidStatus reports whether s is a known listing status
func IsValidStatus(s string) bool {
	return s == StatusAvailable || s == StatusSold
}

// CarUpdate is a partial update over the writable fields of a car.
// Nil fields keep their current value.
type CarUpdate struct {
	Make        *string `json:"make"`
	Model       *string `json:"model"`
	Year        *int    `json:"year"`
	Price       *int    `json:"price"`
	Mileage     *int    `json:"mileage"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
}

// Favorite marks a car as globally favorited
type Favorite struct {
	CarID uint `gorm:"primaryKey"`
}

// TableName specifies the table name
func (Favorite) TableName() string {
	return "favorites"
}

// CarRepository defines the contract for car data access.
// All read results are annotated with current favorite membership.
type CarRepository interface {
	Create(car *Car) error
	FindByID(id uint) (*Car, error)
	FindAll() ([]Car, error)
	Update(id uint, updates CarUpdate) (*Car, error)
	UpdateStatus(id uint, status string) (*Car, error)
	Delete(id uint) error
	ToggleFavorite(id uint) error
	Count() (int64, error)
	CountFavorites() (int64, error)
}
