package repo

import (
	"context"

	"gorm.io/gorm"

	"salon-booking/internal/domain"
	"salon-booking/internal/pagination"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	return notFound(&u, r.db.WithContext(ctx).First(&u, "id = ?", id).Error)
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	return notFound(&u, r.db.WithContext(ctx).First(&u, "email = ?", email).Error)
}

func (r *UserRepo) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	var u domain.User
	return notFound(&u, r.db.WithContext(ctx).First(&u, "phone = ?", phone).Error)
}

// FindDetailed loads the user with addresses and bookings.
func (r *UserRepo) FindDetailed(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Preload("Addresses", func(db *gorm.DB) *gorm.DB { return db.Order("created_at desc") }).
		Preload("Bookings", func(db *gorm.DB) *gorm.DB { return db.Order("created_at desc") }).
		Preload("Bookings.Address").
		Preload("Bookings.BookingServices.Service.Category").
		First(&u, "id = ?", id).Error
	return notFound(&u, err)
}

func (r *UserRepo) List(ctx context.Context, f domain.UserFilter, p pagination.Params) ([]domain.User, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.User{})
	if f.Search != "" {
		like := likePattern(f.Search)
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", like, like, like)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []domain.User
	if err := tx.Scopes(p.Scope).Order("created_at desc").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Omit("Addresses", "Bookings").Save(u).Error
}
