package domain

import "context"

// User represents a registered account in the marketplace.
type User struct {
	BaseModel
	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255" json:"-"`
}

// UserRepository defines the data access interface for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
}

// UserService defines the business logic interface for user profiles.
type UserService interface {
	GetUser(ctx context.Context, id uint) (*User, error)
	UpdateProfile(ctx context.Context, id uint, name, email string) (*User, error)
}
