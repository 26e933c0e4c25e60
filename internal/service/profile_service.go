package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"salon-booking/internal/apperr"
	"salon-booking/internal/domain"
	"salon-booking/internal/repo"
)

type ProfileInput struct {
	Name     *string `json:"name"     binding:"omitempty,min=1,max=100"`
	Email    *string `json:"email"    binding:"omitempty,email"`
	Phone    *string `json:"phone"    binding:"omitempty,min=6,max=20"`
	ImageURL *string `json:"imageUrl"`
}

type AddressInput struct {
	Label        string   `json:"label"        binding:"required,max=64"`
	AddressLine1 string   `json:"addressLine1" binding:"required,max=255"`
	AddressLine2 *string  `json:"addressLine2" binding:"omitempty,max=255"`
	City         string   `json:"city"         binding:"required,max=100"`
	State        string   `json:"state"        binding:"required,max=100"`
	Pincode      string   `json:"pincode"      binding:"required,max=16"`
	Latitude     *float64 `json:"latitude"     binding:"omitempty,min=-90,max=90"`
	Longitude    *float64 `json:"longitude"    binding:"omitempty,min=-180,max=180"`
}

type AddressPatch struct {
	Label        *string  `json:"label"        binding:"omitempty,min=1,max=64"`
	AddressLine1 *string  `json:"addressLine1" binding:"omitempty,min=1,max=255"`
	AddressLine2 *string  `json:"addressLine2" binding:"omitempty,max=255"`
	City         *string  `json:"city"         binding:"omitempty,min=1,max=100"`
	State        *string  `json:"state"        binding:"omitempty,min=1,max=100"`
	Pincode      *string  `json:"pincode"      binding:"omitempty,min=1,max=16"`
	Latitude     *float64 `json:"latitude"     binding:"omitempty,min=-90,max=90"`
	Longitude    *float64 `json:"longitude"    binding:"omitempty,min=-180,max=180"`
}

// ProfileService serves the caller's own account and addresses.
type ProfileService struct {
	store *repo.Store
	log   *zap.Logger
}

func NewProfileService(store *repo.Store, log *zap.Logger) *ProfileService {
	return &ProfileService{store: store, log: log}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.PublicUser, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := u.Public()
	return &p, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*domain.PublicUser, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	email, phone := cleanOpt(in.Email), cleanOpt(in.Phone)
	var checkEmail, checkPhone *string
	if email != nil && !sameOpt(email, u.Email) {
		checkEmail = email
	}
	if phone != nil && !sameOpt(phone, u.Phone) {
		checkPhone = phone
	}
	taken, err := contactUsedByOther(ctx, s.store.Users, u.ID, checkEmail, checkPhone)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if taken {
		return nil, apperr.Forbidden("Email or phone already in use")
	}
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if email != nil {
		u.Email = email
	}
	if phone != nil {
		u.Phone = phone
	}
	if in.ImageURL != nil {
		u.ImageURL = cleanOpt(in.ImageURL)
	}
	if err := s.store.Users.Update(ctx, u); err != nil {
		return nil, apperr.Internal(err)
	}
	p := u.Public()
	return &p, nil
}

func (s *ProfileService) ListAddresses(ctx context.Context, userID string) ([]domain.Address, error) {
	list, err := s.store.Addresses.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return list, nil
}

func (s *ProfileService) CreateAddress(ctx context.Context, userID string, in AddressInput) (*domain.Address, error) {
	a := &domain.Address{
		UserID:       userID,
		Label:        strings.TrimSpace(in.Label),
		AddressLine1: strings.TrimSpace(in.AddressLine1),
		AddressLine2: cleanOpt(in.AddressLine2),
		City:         strings.TrimSpace(in.City),
		State:        strings.TrimSpace(in.State),
		Pincode:      strings.TrimSpace(in.Pincode),
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
	}
	if err := s.store.Addresses.Create(ctx, a); err != nil {
		return nil, apperr.Internal(err)
	}
	return a, nil
}

func (s *ProfileService) UpdateAddress(ctx context.Context, userID, id string, in AddressPatch) (*domain.Address, error) {
	a, err := s.ownedAddress(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	setStr := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	setStr(&a.Label, in.Label)
	setStr(&a.AddressLine1, in.AddressLine1)
	setStr(&a.City, in.City)
	setStr(&a.State, in.State)
	setStr(&a.Pincode, in.Pincode)
	if in.AddressLine2 != nil {
		a.AddressLine2 = cleanOpt(in.AddressLine2)
	}
	if in.Latitude != nil {
		a.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		a.Longitude = in.Longitude
	}
	if err := s.store.Addresses.Update(ctx, a); err != nil {
		return nil, apperr.Internal(err)
	}
	return a, nil
}

func (s *ProfileService) DeleteAddress(ctx context.Context, userID, id string) error {
	if _, err := s.ownedAddress(ctx, userID, id); err != nil {
		return err
	}
	n, err := s.store.Addresses.CountBookings(ctx, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if n > 0 {
		return apperr.Conflict("Address is used by existing bookings")
	}
	if err := s.store.Addresses.Delete(ctx, id); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *ProfileService) user(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.store.Users.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if u == nil {
		return nil, apperr.NotFound("User not found")
	}
	return u, nil
}

func (s *ProfileService) ownedAddress(ctx context.Context, userID, id string) (*domain.Address, error) {
	a, err := s.store.Addresses.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if a == nil {
		return nil, apperr.NotFound("Address not found")
	}
	if a.UserID != userID {
		return nil, apperr.Forbidden("You do not have access to this address")
	}
	return a, nil
}
