package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"salon-booking/internal/pagination"
	"salon-booking/pkg/utils"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "PENDING"
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCompleted BookingStatus = "COMPLETED"
	StatusCancelled BookingStatus = "CANCELLED"
)

var BookingStatuses = []BookingStatus{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s BookingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func ParseBookingStatus(s string) (BookingStatus, error) {
	st := BookingStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("invalid booking status %q", s)
	}
	return st, nil
}

var ErrOnlyPendingCancel = errors.New("Only pending bookings can be cancelled by users")

// CanUserCancel reports whether the owner may cancel a booking in state s.
// Admin status changes are not restricted.
func CanUserCancel(s BookingStatus) error {
	if s != StatusPending {
		return ErrOnlyPendingCancel
	}
	return nil
}

type Booking struct {
	ID            string        `gorm:"primaryKey;size:36" json:"id"`
	UserID        string        `gorm:"size:36;not null;index" json:"userId"`
	AddressID     string        `gorm:"size:36;not null;index" json:"addressId"`
	PersonName    string        `gorm:"size:100;not null" json:"personName"`
	PersonPhone   string        `gorm:"size:32;not null" json:"personPhone"`
	PreferredDate time.Time     `gorm:"not null" json:"preferredDate"`
	PreferredTime string        `gorm:"size:32;not null" json:"preferredTime"`
	Notes         *string       `gorm:"type:text" json:"notes"`
	Status        BookingStatus `gorm:"size:16;not null;index" json:"status"`
	CreatedAt     time.Time     `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`

	User            *User            `json:"user,omitempty"`
	Address         *Address         `json:"address,omitempty"`
	BookingServices []BookingService `gorm:"constraint:OnDelete:CASCADE" json:"bookingServices"`
}

func (b *Booking) BeforeCreate(*gorm.DB) error {
	if b.ID == "" {
		b.ID = utils.NewID()
	}
	if b.Status == "" {
		b.Status = StatusPending
	}
	return nil
}

// BookingService links a booking to a catalog service. Service details are
// read live, never copied.
type BookingService struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	BookingID string `gorm:"size:36;not null;index" json:"bookingId"`
	ServiceID string `gorm:"size:36;not null;index" json:"serviceId"`

	Service *Service `json:"service,omitempty"`
}

func (bs *BookingService) BeforeCreate(*gorm.DB) error {
	if bs.ID == "" {
		bs.ID = utils.NewID()
	}
	return nil
}

type BookingFilter struct {
	UserID string
	Status BookingStatus
	From   *time.Time
	To     *time.Time
	Search string // personName or personPhone
}

type BookingRepository interface {
	Create(ctx context.Context, b *Booking, serviceIDs []string) error
	FindByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, f BookingFilter, p pagination.Params) ([]Booking, int64, error)
	Update(ctx context.Context, b *Booking) error
	UpdateStatus(ctx context.Context, id string, status BookingStatus) error
	ReplaceServices(ctx context.Context, bookingID string, serviceIDs []string) error
}
