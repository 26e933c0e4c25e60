package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"salon-booking/internal/domain"
)

// Store groups the repositories over one *gorm.DB handle.
type Store struct {
	db *gorm.DB

	Users      domain.UserRepository
	Addresses  domain.AddressRepository
	Categories domain.CategoryRepository
	Services   domain.ServiceRepository
	Bookings   domain.BookingRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:         db,
		Users:      NewUserRepo(db),
		Addresses:  NewAddressRepo(db),
		Categories: NewCategoryRepo(db),
		Services:   NewServiceRepo(db),
		Bookings:   NewBookingRepo(db),
	}
}

func (s *Store) DB() *gorm.DB { return s.db }

// Transaction runs fn against a Store bound to a single transaction.
// 事务内只能使用 tx 上的仓储，否则单连接池下会死锁。
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

func notFound[T any](v *T, err error) (*T, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func likePattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}
