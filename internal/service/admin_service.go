package service

import (
	"context"
	"io"
	"mime/multipart"
	"strings"

	"go.uber.org/zap"

	"salon-booking/internal/apperr"
	"salon-booking/internal/domain"
	"salon-booking/internal/export"
	"salon-booking/internal/pagination"
	"salon-booking/internal/repo"
	"salon-booking/pkg/utils"
)

// CreateUserInput binds from JSON or multipart form fields.
type CreateUserInput struct {
	Name     string       `json:"name"     form:"name"     binding:"required,max=100"`
	Email    *string      `json:"email"    form:"email"    binding:"omitempty,email"`
	Phone    *string      `json:"phone"    form:"phone"    binding:"omitempty,min=6,max=20"`
	Password string       `json:"password" form:"password" binding:"required,min=6"`
	Role     *domain.Role `json:"role"     form:"role"`
	ImageURL *string      `json:"imageUrl" form:"imageUrl"`
}

type UpdateUserInput struct {
	Name     *string      `json:"name"     form:"name"  binding:"omitempty,min=1,max=100"`
	Phone    *string      `json:"phone"    form:"phone" binding:"omitempty,min=6,max=20"`
	Role     *domain.Role `json:"role"     form:"role"`
	ImageURL *string      `json:"imageUrl" form:"imageUrl"`
}

type UserQuery struct {
	pagination.Query
	Search string `form:"search"`
}

// AdminService runs the back-office operations. Booking reads and writes
// go through BookingService.
type AdminService struct {
	store    *repo.Store
	bookings *BookingService
	uploads  *UploadService
	log      *zap.Logger
}

func NewAdminService(store *repo.Store, bookings *BookingService, uploads *UploadService, log *zap.Logger) *AdminService {
	return &AdminService{store: store, bookings: bookings, uploads: uploads, log: log}
}

/* ---------- users ---------- */

func (s *AdminService) ListUsers(ctx context.Context, q UserQuery) (pagination.Result[domain.PublicUser], error) {
	p := q.Params()
	list, total, err := s.store.Users.List(ctx, domain.UserFilter{Search: strings.TrimSpace(q.Search)}, p)
	if err != nil {
		return pagination.Result[domain.PublicUser]{}, apperr.Internal(err)
	}
	return pagination.Map(pagination.NewResult(list, total, p), domain.User.Public), nil
}

// GetUser returns the user with addresses and bookings.
func (s *AdminService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.store.Users.FindDetailed(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if u == nil {
		return nil, apperr.NotFound("User not found")
	}
	return u, nil
}

func (s *AdminService) CreateUser(ctx context.Context, actor Actor, in CreateUserInput, file *multipart.FileHeader) (*domain.PublicUser, error) {
	role := domain.RoleUser
	if in.Role != nil && *in.Role != "" {
		if !in.Role.Valid() {
			return nil, apperr.BadRequest("Invalid role")
		}
		role = *in.Role
	}
	if err := domain.CanCreateUser(actor.Role, role); err != nil {
		return nil, apperr.FromRule(err)
	}
	email, phone := cleanOpt(in.Email), cleanOpt(in.Phone)
	taken, err := contactUsedByOther(ctx, s.store.Users, "", email, phone)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if taken {
		return nil, apperr.Forbidden("User with this email or phone already exists")
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	u := &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		ImageURL:     cleanOpt(in.ImageURL),
		Role:         role,
	}
	if file != nil {
		up, err := s.uploads.SaveImage(ctx, "users", file)
		if err != nil {
			return nil, err
		}
		u.ImageURL = &up.URL
	}
	if err := s.store.Users.Create(ctx, u); err != nil {
		return nil, apperr.Internal(err)
	}
	s.log.Info("user created by admin",
		zap.String("actor_id", actor.ID),
		zap.String("user_id", u.ID),
		zap.String("role", string(u.Role)),
	)
	p := u.Public()
	return &p, nil
}

// UpdateUser applies in to targetID. An uploaded file wins over imageUrl.
func (s *AdminService) UpdateUser(ctx context.Context, actor Actor, targetID string, in UpdateUserInput, file *multipart.FileHeader) (*domain.PublicUser, error) {
	u, err := s.store.Users.FindByID(ctx, targetID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if u == nil {
		return nil, apperr.NotFound("User not found")
	}
	if err := domain.CanEditUser(actor.Role, u.Role); err != nil {
		return nil, apperr.FromRule(err)
	}
	if in.Role != nil && *in.Role != "" {
		if !in.Role.Valid() {
			return nil, apperr.BadRequest("Invalid role")
		}
		if err := domain.CanChangeRole(actor.Role, actor.ID == u.ID, *in.Role); err != nil {
			return nil, apperr.FromRule(err)
		}
	}
	if phone := cleanOpt(in.Phone); phone != nil && !sameOpt(phone, u.Phone) {
		taken, err := contactUsedByOther(ctx, s.store.Users, u.ID, nil, phone)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if taken {
			return nil, apperr.Forbidden("Phone number already in use")
		}
		u.Phone = phone
	}
	if in.Role != nil && *in.Role != "" {
		u.Role = *in.Role
	}
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	switch {
	case file != nil:
		up, err := s.uploads.SaveImage(ctx, "users", file)
		if err != nil {
			return nil, err
		}
		u.ImageURL = &up.URL
	case in.ImageURL != nil:
		u.ImageURL = cleanOpt(in.ImageURL)
	}
	if err := s.store.Users.Update(ctx, u); err != nil {
		return nil, apperr.Internal(err)
	}
	s.log.Info("user updated by admin", zap.String("actor_id", actor.ID), zap.String("user_id", u.ID))
	p := u.Public()
	return &p, nil
}

/* ---------- bookings ---------- */

func (s *AdminService) ListBookings(ctx context.Context, q AdminBookingQuery) (pagination.Result[domain.Booking], error) {
	return s.bookings.ListAllBookings(ctx, q)
}

func (s *AdminService) GetBooking(ctx context.Context, actor Actor, id string) (*domain.Booking, error) {
	return s.bookings.GetBooking(ctx, actor.ID, id, true)
}

func (s *AdminService) UpdateBookingStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	return s.bookings.UpdateBookingStatus(ctx, id, status)
}

func (s *AdminService) UpdateBooking(ctx context.Context, id string, patch AdminBookingPatch) (*domain.Booking, error) {
	return s.bookings.UpdateBookingAsAdmin(ctx, id, patch)
}

// ExportBookings writes every booking matching q (paging ignored) as XLSX.
func (s *AdminService) ExportBookings(ctx context.Context, q AdminBookingQuery, w io.Writer) error {
	q.Query = pagination.Query{}
	res, err := s.bookings.ListAllBookings(ctx, q)
	if err != nil {
		return err
	}
	if err := export.WriteBookings(w, res.Data); err != nil {
		return apperr.Internal(err)
	}
	return nil
}
