package domain

import "errors"

// ErrUserNotFound is returned when a referenced user does not exist
var ErrUserNotFound = errors.New("user not found")

// User represents a registered account
type User struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Username string `json:"username" gorm:"uniqueIndex;not null"`
	Password string `json:"-" gorm:"not null"` // bcrypt hash, never serialized
	IsAdmin  bool   `json:"isAdmin" gorm:"not null;default:false"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// UserRepository defines the contract for user data access.
// Username uniqueness is the caller's responsibility, enforced by a
// FindByUsername lookup before Create.
type UserRepository interface {
	Create(user *User) error
	FindByID(id uint) (*User, error)
	FindByUsername(username string) (*User, error)
	Count() (int64, error)
}
