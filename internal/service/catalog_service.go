package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"salon-booking/internal/apperr"
	"salon-booking/internal/core/cache"
	"salon-booking/internal/core/metrics"
	"salon-booking/internal/domain"
	"salon-booking/internal/pagination"
	"salon-booking/internal/repo"
)

const catalogNS = "catalog"

type CategoryQuery struct {
	pagination.Query
	IncludeServices bool   `form:"includeServices"`
	Search          string `form:"search"`
}

type CategoryInput struct {
	Name        string  `json:"name"        binding:"required,max=100"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
	IsActive    *bool   `json:"isActive"`
}

type CategoryPatch struct {
	Name        *string `json:"name"        binding:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
	IsActive    *bool   `json:"isActive"`
}

type ServiceQuery struct {
	pagination.Query
	CategoryID string `form:"categoryId"`
	Search     string `form:"search"`
}

type ServiceInput struct {
	CategoryID  string          `json:"categoryId"  binding:"required"`
	Title       string          `json:"title"       binding:"required,max=150"`
	Description *string         `json:"description"`
	ImageURL    *string         `json:"imageUrl"`
	Duration    int             `json:"duration"    binding:"required,min=1"`
	Price       decimal.Decimal `json:"price"`
	IsActive    *bool           `json:"isActive"`
}

type ServicePatch struct {
	CategoryID  *string          `json:"categoryId"`
	Title       *string          `json:"title"       binding:"omitempty,min=1,max=150"`
	Description *string          `json:"description"`
	ImageURL    *string          `json:"imageUrl"`
	Duration    *int             `json:"duration"    binding:"omitempty,min=1"`
	Price       *decimal.Decimal `json:"price"`
	IsActive    *bool            `json:"isActive"`
}

// CatalogService owns categories and services. Both public lists are cached
// in the "catalog" namespace, which every write invalidates.
type CatalogService struct {
	store      *repo.Store
	categories *cache.Typed[pagination.Result[domain.Category]]
	services   *cache.Typed[pagination.Result[domain.Service]]
	log        *zap.Logger
}

// NewCatalogService wires the catalog. c may be nil, which disables caching.
func NewCatalogService(store *repo.Store, c *cache.Cache, ttl time.Duration, log *zap.Logger) *CatalogService {
	return &CatalogService{
		store:      store,
		categories: cache.NewTyped[pagination.Result[domain.Category]](c, catalogNS, ttl),
		services:   cache.NewTyped[pagination.Result[domain.Service]](c, catalogNS, ttl),
		log:        log,
	}
}

/* ---------- categories ---------- */

func (s *CatalogService) ListCategories(ctx context.Context, q CategoryQuery) (pagination.Result[domain.Category], error) {
	p := q.Params()
	key := fmt.Sprintf("categories:%t|%s|%t|%d|%d", q.IncludeServices, q.Search, p.Enabled, p.Page, p.Limit)
	res, hit, err := s.categories.Get(ctx, key, func(ctx context.Context) (pagination.Result[domain.Category], error) {
		list, total, err := s.store.Categories.List(ctx, domain.CategoryFilter{
			Search:       strings.TrimSpace(q.Search),
			ActiveOnly:   true,
			WithServices: q.IncludeServices,
		}, p)
		if err != nil {
			return pagination.Result[domain.Category]{}, err
		}
		return pagination.NewResult(list, total, p), nil
	})
	if err != nil {
		return res, apperr.Internal(err)
	}
	if s.categories.Enabled() {
		metrics.CacheLookups.WithLabelValues("categories", metrics.CacheResult(hit)).Inc()
	}
	return res, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id string, includeServices bool) (*domain.Category, error) {
	c, err := s.store.Categories.FindByID(ctx, id, includeServices)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if c == nil {
		return nil, apperr.NotFound("Category not found")
	}
	return c, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.BadRequest("name should not be empty")
	}
	existing, err := s.store.Categories.FindByName(ctx, name)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if existing != nil {
		return nil, apperr.Conflict("Category with this name already exists")
	}
	c := &domain.Category{
		Name:        name,
		Description: in.Description,
		ImageURL:    cleanOpt(in.ImageURL),
		IsActive:    in.IsActive == nil || *in.IsActive,
	}
	if err := s.store.Categories.Create(ctx, c); err != nil {
		return nil, apperr.Internal(err)
	}
	s.invalidate(ctx)
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id string, in CategoryPatch) (*domain.Category, error) {
	c, err := s.GetCategory(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name != c.Name {
			existing, err := s.store.Categories.FindByName(ctx, name)
			if err != nil {
				return nil, apperr.Internal(err)
			}
			if existing != nil {
				return nil, apperr.Conflict("Category with this name already exists")
			}
			c.Name = name
		}
	}
	if in.Description != nil {
		c.Description = in.Description
	}
	if in.ImageURL != nil {
		c.ImageURL = cleanOpt(in.ImageURL)
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if err := s.store.Categories.Update(ctx, c); err != nil {
		return nil, apperr.Internal(err)
	}
	s.invalidate(ctx)
	return c, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.GetCategory(ctx, id, false); err != nil {
		return err
	}
	n, err := s.store.Categories.CountServices(ctx, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if n > 0 {
		return apperr.Conflict("Cannot delete category with associated services")
	}
	if err := s.store.Categories.Delete(ctx, id); err != nil {
		return apperr.Internal(err)
	}
	s.invalidate(ctx)
	return nil
}

/* ---------- services ---------- */

func (s *CatalogService) ListServices(ctx context.Context, q ServiceQuery) (pagination.Result[domain.Service], error) {
	p := q.Params()
	key := fmt.Sprintf("services:%s|%s|%t|%d|%d", q.CategoryID, q.Search, p.Enabled, p.Page, p.Limit)
	res, hit, err := s.services.Get(ctx, key, func(ctx context.Context) (pagination.Result[domain.Service], error) {
		list, total, err := s.store.Services.List(ctx, domain.ServiceFilter{
			CategoryID: strings.TrimSpace(q.CategoryID),
			Search:     strings.TrimSpace(q.Search),
			ActiveOnly: true,
		}, p)
		if err != nil {
			return pagination.Result[domain.Service]{}, err
		}
		return pagination.NewResult(list, total, p), nil
	})
	if err != nil {
		return res, apperr.Internal(err)
	}
	if s.services.Enabled() {
		metrics.CacheLookups.WithLabelValues("services", metrics.CacheResult(hit)).Inc()
	}
	return res, nil
}

// GetService returns the service even when inactive.
func (s *CatalogService) GetService(ctx context.Context, id string) (*domain.Service, error) {
	svc, err := s.store.Services.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if svc == nil {
		return nil, apperr.NotFound("Service not found")
	}
	return svc, nil
}

func (s *CatalogService) CreateService(ctx context.Context, in ServiceInput) (*domain.Service, error) {
	if err := s.requireCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	if in.Price.IsNegative() {
		return nil, apperr.BadRequest("price must not be less than 0")
	}
	svc := &domain.Service{
		CategoryID:  in.CategoryID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		ImageURL:    cleanOpt(in.ImageURL),
		Duration:    in.Duration,
		Price:       in.Price,
		IsActive:    in.IsActive == nil || *in.IsActive,
	}
	if err := s.store.Services.Create(ctx, svc); err != nil {
		return nil, apperr.Internal(err)
	}
	s.invalidate(ctx)
	return s.GetService(ctx, svc.ID)
}

func (s *CatalogService) UpdateService(ctx context.Context, id string, in ServicePatch) (*domain.Service, error) {
	svc, err := s.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.CategoryID != nil && *in.CategoryID != svc.CategoryID {
		if err := s.requireCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		svc.CategoryID = *in.CategoryID
	}
	if in.Title != nil {
		svc.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		svc.Description = in.Description
	}
	if in.ImageURL != nil {
		svc.ImageURL = cleanOpt(in.ImageURL)
	}
	if in.Duration != nil {
		svc.Duration = *in.Duration
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, apperr.BadRequest("price must not be less than 0")
		}
		svc.Price = *in.Price
	}
	if in.IsActive != nil {
		svc.IsActive = *in.IsActive
	}
	svc.Category = nil
	if err := s.store.Services.Update(ctx, svc); err != nil {
		return nil, apperr.Internal(err)
	}
	s.invalidate(ctx)
	return s.GetService(ctx, id)
}

// DeleteService hard-deletes a service that no booking references.
func (s *CatalogService) DeleteService(ctx context.Context, id string) error {
	if _, err := s.GetService(ctx, id); err != nil {
		return err
	}
	n, err := s.store.Services.CountBookings(ctx, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if n > 0 {
		return apperr.Conflict("Cannot delete service with existing bookings")
	}
	if err := s.store.Services.Delete(ctx, id); err != nil {
		return apperr.Internal(err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) requireCategory(ctx context.Context, id string) error {
	c, err := s.store.Categories.FindByID(ctx, id, false)
	if err != nil {
		return apperr.Internal(err)
	}
	if c == nil {
		return apperr.NotFound("Category not found")
	}
	return nil
}

// invalidate moves the catalog to a new cache generation. Both typed caches
// share the namespace, so one bump covers categories and services.
func (s *CatalogService) invalidate(ctx context.Context) {
	if err := s.categories.Invalidate(ctx); err != nil {
		s.log.Warn("catalog cache invalidate failed", zap.Error(err))
	}
}
