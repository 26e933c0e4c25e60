package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"salon-booking/internal/pagination"
	"salon-booking/pkg/utils"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type Category struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	ImageURL    *string   `gorm:"size:512" json:"imageUrl"`
	IsActive    bool      `gorm:"not null;index" json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Services []Service `json:"services,omitempty"`
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = utils.NewID()
	}
	return nil
}

type Service struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	CategoryID  string          `gorm:"size:36;not null;index" json:"categoryId"`
	Title       string          `gorm:"size:150;not null" json:"title"`
	Description *string         `gorm:"type:text" json:"description"`
	ImageURL    *string         `gorm:"size:512" json:"imageUrl"`
	Duration    int             `gorm:"not null" json:"duration"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	IsActive    bool            `gorm:"not null;index" json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`

	Category *Category `json:"category,omitempty"`
}

func (s *Service) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = utils.NewID()
	}
	return nil
}

type CategoryFilter struct {
	Search       string
	ActiveOnly   bool
	WithServices bool // embeds active services
}

type ServiceFilter struct {
	CategoryID string
	Search     string
	ActiveOnly bool
}

type CategoryRepository interface {
	Create(ctx context.Context, c *Category) error
	FindByID(ctx context.Context, id string, withServices bool) (*Category, error)
	FindByName(ctx context.Context, name string) (*Category, error)
	List(ctx context.Context, f CategoryFilter, p pagination.Params) ([]Category, int64, error)
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id string) error
	CountServices(ctx context.Context, id string) (int64, error)
}

type ServiceRepository interface {
	Create(ctx context.Context, s *Service) error
	FindByID(ctx context.Context, id string) (*Service, error)
	FindByIDs(ctx context.Context, ids []string, activeOnly bool) ([]Service, error)
	List(ctx context.Context, f ServiceFilter, p pagination.Params) ([]Service, int64, error)
	Update(ctx context.Context, s *Service) error
	Delete(ctx context.Context, id string) error
	CountBookings(ctx context.Context, id string) (int64, error)
}
