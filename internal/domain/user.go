package domain

import (
	"context"
	"time"

	"gorm.io/gorm"

	"salon-booking/internal/pagination"
	"salon-booking/pkg/utils"
)

type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        *string   `gorm:"uniqueIndex;size:191" json:"email"`
	Phone        *string   `gorm:"uniqueIndex;size:32" json:"phone"`
	PasswordHash string    `gorm:"column:password;size:191;not null" json:"-"`
	ImageURL     *string   `gorm:"size:512" json:"imageUrl"`
	Role         Role      `gorm:"size:16;not null;index" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Addresses []Address `gorm:"constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
	Bookings  []Booking `json:"bookings,omitempty"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = utils.NewID()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// PublicUser is the user shape returned by auth, profile and admin listings.
type PublicUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	ImageURL  *string   `json:"imageUrl"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone,
		ImageURL: u.ImageURL, Role: u.Role, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt,
	}
}

type Address struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	UserID       string    `gorm:"size:36;not null;index" json:"userId"`
	Label        string    `gorm:"size:64;not null" json:"label"`
	AddressLine1 string    `gorm:"size:255;not null" json:"addressLine1"`
	AddressLine2 *string   `gorm:"size:255" json:"addressLine2"`
	City         string    `gorm:"size:100;not null" json:"city"`
	State        string    `gorm:"size:100;not null" json:"state"`
	Pincode      string    `gorm:"size:16;not null" json:"pincode"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (a *Address) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = utils.NewID()
	}
	return nil
}

type UserFilter struct {
	Search string // name, email or phone
}

// Find* methods return (nil, nil) when the row does not exist.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByPhone(ctx context.Context, phone string) (*User, error)
	FindDetailed(ctx context.Context, id string) (*User, error)
	List(ctx context.Context, f UserFilter, p pagination.Params) ([]User, int64, error)
	Update(ctx context.Context, u *User) error
}

type AddressRepository interface {
	Create(ctx context.Context, a *Address) error
	FindByID(ctx context.Context, id string) (*Address, error)
	ListByUser(ctx context.Context, userID string) ([]Address, error)
	Update(ctx context.Context, a *Address) error
	Delete(ctx context.Context, id string) error
	CountBookings(ctx context.Context, id string) (int64, error)
}
