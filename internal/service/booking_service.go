package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"salon-booking/internal/apperr"
	"salon-booking/internal/core/metrics"
	"salon-booking/internal/domain"
	"salon-booking/internal/pagination"
	"salon-booking/internal/repo"
)

type CreateBookingInput struct {
	AddressID     string   `json:"addressId"     binding:"required"`
	PersonName    string   `json:"personName"    binding:"required,max=100"`
	PersonPhone   string   `json:"personPhone"   binding:"required,max=32"`
	PreferredDate string   `json:"preferredDate" binding:"required"`
	PreferredTime string   `json:"preferredTime" binding:"required,max=32"`
	Notes         *string  `json:"notes"`
	ServiceIDs    []string `json:"serviceIds"    binding:"required,min=1,dive,required"`
}

// AdminBookingPatch is a partial update; nil fields are left untouched.
type AdminBookingPatch struct {
	AddressID     *string   `json:"addressId"`
	PersonName    *string   `json:"personName"    binding:"omitempty,min=1,max=100"`
	PersonPhone   *string   `json:"personPhone"   binding:"omitempty,min=1,max=32"`
	PreferredDate *string   `json:"preferredDate"`
	PreferredTime *string   `json:"preferredTime" binding:"omitempty,min=1,max=32"`
	Notes         *string   `json:"notes"`
	ServiceIDs    *[]string `json:"serviceIds"`
}

type UserBookingQuery struct {
	pagination.Query
	Status string `form:"status"`
}

type AdminBookingQuery struct {
	pagination.Query
	Status    string `form:"status"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	Search    string `form:"search"`
}

type BookingService struct {
	store *repo.Store
	log   *zap.Logger
}

func NewBookingService(store *repo.Store, log *zap.Logger) *BookingService {
	return &BookingService{store: store, log: log}
}

// CreateBooking validates the address and services and stores a PENDING
// booking with one join row per supplied service id. Nothing is persisted
// when a check fails.
func (s *BookingService) CreateBooking(ctx context.Context, userID string, in CreateBookingInput) (*domain.Booking, error) {
	date, err := parseDate("preferredDate", in.PreferredDate)
	if err != nil {
		return nil, err
	}
	if len(in.ServiceIDs) == 0 {
		return nil, apperr.BadRequest("At least one service is required")
	}
	b := &domain.Booking{
		UserID:        userID,
		AddressID:     in.AddressID,
		PersonName:    strings.TrimSpace(in.PersonName),
		PersonPhone:   strings.TrimSpace(in.PersonPhone),
		PreferredDate: date,
		PreferredTime: strings.TrimSpace(in.PreferredTime),
		Notes:         cleanOpt(in.Notes),
		Status:        domain.StatusPending,
	}
	err = s.store.Transaction(ctx, func(tx *repo.Store) error {
		addr, err := tx.Addresses.FindByID(ctx, in.AddressID)
		if err != nil {
			return apperr.Internal(err)
		}
		if addr == nil {
			return apperr.NotFound("Address not found")
		}
		if addr.UserID != userID {
			return apperr.Forbidden("Address does not belong to you")
		}
		if err := requireServices(ctx, tx, in.ServiceIDs, true); err != nil {
			return err
		}
		if err := tx.Bookings.Create(ctx, b, in.ServiceIDs); err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.BookingsCreated.Inc()
	s.log.Info("booking created",
		zap.String("booking_id", b.ID),
		zap.String("user_id", userID),
		zap.Int("services", len(in.ServiceIDs)),
	)
	return s.load(ctx, b.ID)
}

func (s *BookingService) ListUserBookings(ctx context.Context, userID string, q UserBookingQuery) (pagination.Result[domain.Booking], error) {
	f := domain.BookingFilter{UserID: userID}
	if q.Status != "" {
		st, err := domain.ParseBookingStatus(q.Status)
		if err != nil {
			return pagination.Result[domain.Booking]{}, apperr.BadRequest("Invalid booking status")
		}
		f.Status = st
	}
	return s.list(ctx, f, q.Params())
}

func (s *BookingService) ListAllBookings(ctx context.Context, q AdminBookingQuery) (pagination.Result[domain.Booking], error) {
	f, err := adminFilter(q)
	if err != nil {
		return pagination.Result[domain.Booking]{}, err
	}
	return s.list(ctx, f, q.Params())
}

// GetBooking returns the booking to its owner or to an admin.
func (s *BookingService) GetBooking(ctx context.Context, userID, id string, isAdmin bool) (*domain.Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && b.UserID != userID {
		return nil, apperr.Forbidden("You do not have access to this booking")
	}
	return b, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, userID, id string) (*domain.Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, apperr.Forbidden("You can only cancel your own bookings")
	}
	if err := domain.CanUserCancel(b.Status); err != nil {
		return nil, apperr.BadRequest(err.Error())
	}
	if err := s.store.Bookings.UpdateStatus(ctx, id, domain.StatusCancelled); err != nil {
		return nil, apperr.Internal(err)
	}
	metrics.BookingStatusChanges.WithLabelValues(string(domain.StatusCancelled), "user").Inc()
	s.log.Info("booking cancelled by user", zap.String("booking_id", id), zap.String("user_id", userID))
	return s.load(ctx, id)
}

// UpdateBookingStatus sets any valid status, terminal states included.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	if !status.Valid() {
		return nil, apperr.BadRequest("Invalid booking status")
	}
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.Bookings.UpdateStatus(ctx, id, status); err != nil {
		return nil, apperr.Internal(err)
	}
	metrics.BookingStatusChanges.WithLabelValues(string(status), "admin").Inc()
	s.log.Info("booking status changed",
		zap.String("booking_id", id),
		zap.String("from", string(b.Status)),
		zap.String("to", string(status)),
	)
	return s.load(ctx, id)
}

// UpdateBookingAsAdmin applies patch in one transaction. A present
// serviceIds list replaces every join row.
func (s *BookingService) UpdateBookingAsAdmin(ctx context.Context, id string, patch AdminBookingPatch) (*domain.Booking, error) {
	err := s.store.Transaction(ctx, func(tx *repo.Store) error {
		b, err := tx.Bookings.FindByID(ctx, id)
		if err != nil {
			return apperr.Internal(err)
		}
		if b == nil {
			return apperr.NotFound("Booking not found")
		}
		if patch.AddressID != nil {
			addr, err := tx.Addresses.FindByID(ctx, *patch.AddressID)
			if err != nil {
				return apperr.Internal(err)
			}
			if addr == nil {
				return apperr.NotFound("Address not found")
			}
			b.AddressID = addr.ID
		}
		if patch.PersonName != nil {
			b.PersonName = strings.TrimSpace(*patch.PersonName)
		}
		if patch.PersonPhone != nil {
			b.PersonPhone = strings.TrimSpace(*patch.PersonPhone)
		}
		if patch.PreferredDate != nil {
			d, err := parseDate("preferredDate", *patch.PreferredDate)
			if err != nil {
				return err
			}
			b.PreferredDate = d
		}
		if patch.PreferredTime != nil {
			b.PreferredTime = strings.TrimSpace(*patch.PreferredTime)
		}
		if patch.Notes != nil {
			b.Notes = cleanOpt(patch.Notes)
		}
		b.Address, b.BookingServices = nil, nil
		if err := tx.Bookings.Update(ctx, b); err != nil {
			return apperr.Internal(err)
		}
		if patch.ServiceIDs != nil {
			ids := *patch.ServiceIDs
			if len(ids) == 0 {
				return apperr.BadRequest("At least one service is required")
			}
			if err := requireServices(ctx, tx, ids, false); err != nil {
				return err
			}
			if err := tx.Bookings.ReplaceServices(ctx, id, ids); err != nil {
				return apperr.Internal(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("booking updated by admin", zap.String("booking_id", id))
	return s.load(ctx, id)
}

func (s *BookingService) list(ctx context.Context, f domain.BookingFilter, p pagination.Params) (pagination.Result[domain.Booking], error) {
	list, total, err := s.store.Bookings.List(ctx, f, p)
	if err != nil {
		return pagination.Result[domain.Booking]{}, apperr.Internal(err)
	}
	return pagination.NewResult(list, total, p), nil
}

func (s *BookingService) load(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := s.store.Bookings.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if b == nil {
		return nil, apperr.NotFound("Booking not found")
	}
	return b, nil
}

// requireServices checks that every distinct id resolves to a service,
// active when activeOnly is set.
func requireServices(ctx context.Context, tx *repo.Store, ids []string, activeOnly bool) error {
	distinct := dedupe(ids)
	found, err := tx.Services.FindByIDs(ctx, distinct, activeOnly)
	if err != nil {
		return apperr.Internal(err)
	}
	if len(found) != len(distinct) {
		if activeOnly {
			return apperr.NotFound("One or more services not found or inactive")
		}
		return apperr.NotFound("One or more services not found")
	}
	return nil
}

func adminFilter(q AdminBookingQuery) (domain.BookingFilter, error) {
	f := domain.BookingFilter{Search: strings.TrimSpace(q.Search)}
	if q.Status != "" {
		st, err := domain.ParseBookingStatus(q.Status)
		if err != nil {
			return f, apperr.BadRequest("Invalid booking status")
		}
		f.Status = st
	}
	if q.StartDate != "" {
		from, err := parseDate("startDate", q.StartDate)
		if err != nil {
			return f, err
		}
		f.From = &from
	}
	if q.EndDate != "" {
		to, err := parseDate("endDate", q.EndDate)
		if err != nil {
			return f, err
		}
		// 纯日期包含当天
		if _, e := time.Parse(dateLayout, strings.TrimSpace(q.EndDate)); e == nil {
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
		f.To = &to
	}
	return f, nil
}
