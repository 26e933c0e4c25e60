package repo

import (
	"context"

	"gorm.io/gorm"

	"salon-booking/internal/domain"
)

type AddressRepo struct{ db *gorm.DB }

func NewAddressRepo(db *gorm.DB) *AddressRepo { return &AddressRepo{db: db} }

func (r *AddressRepo) Create(ctx context.Context, a *domain.Address) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AddressRepo) FindByID(ctx context.Context, id string) (*domain.Address, error) {
	var a domain.Address
	return notFound(&a, r.db.WithContext(ctx).First(&a, "id = ?", id).Error)
}

func (r *AddressRepo) ListByUser(ctx context.Context, userID string) ([]domain.Address, error) {
	list := []domain.Address{}
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&list).Error
	return list, err
}

func (r *AddressRepo) Update(ctx context.Context, a *domain.Address) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *AddressRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Address{}, "id = ?", id).Error
}

func (r *AddressRepo) CountBookings(ctx context.Context, id string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).Where("address_id = ?", id).Count(&n).Error
	return n, err
}
