package repo

import (
	"context"

	"gorm.io/gorm"

	"salon-booking/internal/domain"
	"salon-booking/internal/pagination"
)

type CategoryRepo struct{ db *gorm.DB }

func NewCategoryRepo(db *gorm.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func activeServices(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true).Order("created_at desc")
}

func (r *CategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	return r.db.WithContext(ctx).Omit("Services").Create(c).Error
}

func (r *CategoryRepo) FindByID(ctx context.Context, id string, withServices bool) (*domain.Category, error) {
	var c domain.Category
	tx := r.db.WithContext(ctx)
	if withServices {
		tx = tx.Preload("Services", activeServices)
	}
	return notFound(&c, tx.First(&c, "id = ?", id).Error)
}

func (r *CategoryRepo) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	var c domain.Category
	return notFound(&c, r.db.WithContext(ctx).First(&c, "name = ?", name).Error)
}

func (r *CategoryRepo) List(ctx context.Context, f domain.CategoryFilter, p pagination.Params) ([]domain.Category, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Category{})
	if f.ActiveOnly {
		tx = tx.Where("is_active = ?", true)
	}
	if f.Search != "" {
		like := likePattern(f.Search)
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if f.WithServices {
		tx = tx.Preload("Services", activeServices)
	}
	var list []domain.Category
	if err := tx.Scopes(p.Scope).Order("name asc").Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *CategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	return r.db.WithContext(ctx).Omit("Services").Save(c).Error
}

func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Category{}, "id = ?", id).Error
}

// CountServices counts services of the category, active or not.
func (r *CategoryRepo) CountServices(ctx context.Context, id string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Service{}).Where("category_id = ?", id).Count(&n).Error
	return n, err
}

type ServiceRepo struct{ db *gorm.DB }

func NewServiceRepo(db *gorm.DB) *ServiceRepo { return &ServiceRepo{db: db} }

func (r *ServiceRepo) Create(ctx context.Context, s *domain.Service) error {
	return r.db.WithContext(ctx).Omit("Category").Create(s).Error
}

func (r *ServiceRepo) FindByID(ctx context.Context, id string) (*domain.Service, error) {
	var s domain.Service
	return notFound(&s, r.db.WithContext(ctx).Preload("Category").First(&s, "id = ?", id).Error)
}

func (r *ServiceRepo) FindByIDs(ctx context.Context, ids []string, activeOnly bool) ([]domain.Service, error) {
	list := []domain.Service{}
	if len(ids) == 0 {
		return list, nil
	}
	tx := r.db.WithContext(ctx).Where("id IN ?", ids)
	if activeOnly {
		tx = tx.Where("is_active = ?", true)
	}
	return list, tx.Find(&list).Error
}

func (r *ServiceRepo) List(ctx context.Context, f domain.ServiceFilter, p pagination.Params) ([]domain.Service, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Service{})
	if f.ActiveOnly {
		tx = tx.Where("is_active = ?", true)
	}
	if f.CategoryID != "" {
		tx = tx.Where("category_id = ?", f.CategoryID)
	}
	if f.Search != "" {
		like := likePattern(f.Search)
		tx = tx.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []domain.Service
	if err := tx.Preload("Category").Scopes(p.Scope).Order("created_at desc").Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *ServiceRepo) Update(ctx context.Context, s *domain.Service) error {
	return r.db.WithContext(ctx).Omit("Category").Save(s).Error
}

func (r *ServiceRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Service{}, "id = ?", id).Error
}

func (r *ServiceRepo) CountBookings(ctx context.Context, id string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.BookingService{}).Where("service_id = ?", id).Count(&n).Error
	return n, err
}
