package repo

import (
	"context"

	"gorm.io/gorm"

	"salon-booking/internal/domain"
	"salon-booking/internal/pagination"
)

type BookingRepo struct{ db *gorm.DB }

func NewBookingRepo(db *gorm.DB) *BookingRepo { return &BookingRepo{db: db} }

func withDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("Address").Preload("BookingServices.Service.Category")
}

// Create inserts the booking and one join row per service id, duplicates
// included. Callers wrap it in Store.Transaction.
func (r *BookingRepo) Create(ctx context.Context, b *domain.Booking, serviceIDs []string) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit("User", "Address", "BookingServices").Create(b).Error; err != nil {
		return err
	}
	if len(serviceIDs) == 0 {
		return nil
	}
	rows := joinRows(b.ID, serviceIDs)
	if err := db.Omit("Service").Create(&rows).Error; err != nil {
		return err
	}
	b.BookingServices = rows
	return nil
}

func (r *BookingRepo) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	var b domain.Booking
	return notFound(&b, withDetails(r.db.WithContext(ctx)).First(&b, "id = ?", id).Error)
}

func (r *BookingRepo) List(ctx context.Context, f domain.BookingFilter, p pagination.Params) ([]domain.Booking, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Booking{})
	if f.UserID != "" {
		tx = tx.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		tx = tx.Where("status = ?", f.Status)
	}
	if f.From != nil {
		tx = tx.Where("preferred_date >= ?", *f.From)
	}
	if f.To != nil {
		tx = tx.Where("preferred_date <= ?", *f.To)
	}
	if f.Search != "" {
		like := likePattern(f.Search)
		tx = tx.Where("LOWER(person_name) LIKE ? OR person_phone LIKE ?", like, like)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []domain.Booking
	if err := withDetails(tx).Scopes(p.Scope).Order("created_at desc").Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *BookingRepo) Update(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Omit("User", "Address", "BookingServices").Save(b).Error
}

func (r *BookingRepo) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	return r.db.WithContext(ctx).Model(&domain.Booking{}).Where("id = ?", id).Update("status", status).Error
}

// ReplaceServices deletes every join row of the booking and recreates them.
func (r *BookingRepo) ReplaceServices(ctx context.Context, bookingID string, serviceIDs []string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("booking_id = ?", bookingID).Delete(&domain.BookingService{}).Error; err != nil {
		return err
	}
	if len(serviceIDs) == 0 {
		return nil
	}
	rows := joinRows(bookingID, serviceIDs)
	return db.Omit("Service").Create(&rows).Error
}

func joinRows(bookingID string, serviceIDs []string) []domain.BookingService {
	rows := make([]domain.BookingService, 0, len(serviceIDs))
	for _, id := range serviceIDs {
		rows = append(rows, domain.BookingService{BookingID: bookingID, ServiceID: id})
	}
	return rows
}
