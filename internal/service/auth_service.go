package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"salon-booking/internal/apperr"
	"salon-booking/internal/core/auth"
	"salon-booking/internal/domain"
	"salon-booking/internal/repo"
	"salon-booking/pkg/utils"
)

type RegisterInput struct {
	Name     string  `json:"name"     binding:"required,max=100"`
	Email    *string `json:"email"    binding:"omitempty,email"`
	Phone    *string `json:"phone"    binding:"omitempty,min=6,max=20"`
	Password string  `json:"password" binding:"required,min=6"`
	ImageURL *string `json:"imageUrl" binding:"omitempty,url"`
}

type LoginInput struct {
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Password string  `json:"password" binding:"required"`
}

type AuthResult struct {
	AccessToken string            `json:"accessToken"`
	User        domain.PublicUser `json:"user"`
}

type AuthService struct {
	store *repo.Store
	jwt   *auth.JWTer
	log   *zap.Logger
}

func NewAuthService(store *repo.Store, jwt *auth.JWTer, log *zap.Logger) *AuthService {
	return &AuthService{store: store, jwt: jwt, log: log}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email, phone := cleanOpt(in.Email), cleanOpt(in.Phone)
	if email == nil && phone == nil {
		return nil, apperr.BadRequest("Email or phone is required")
	}
	if taken, err := s.contactTaken(ctx, email, phone); err != nil {
		return nil, apperr.Internal(err)
	} else if taken {
		return nil, apperr.Conflict("User with this email or phone already exists")
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
		Role:         domain.RoleUser,
	}
	if err := s.store.Users.Create(ctx, u); err != nil {
		return nil, apperr.Internal(err)
	}
	s.log.Info("user registered", zap.String("user_id", u.ID))
	return s.issue(u)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email, phone := cleanOpt(in.Email), cleanOpt(in.Phone)
	var (
		u   *domain.User
		err error
	)
	switch {
	case email != nil:
		u, err = s.store.Users.FindByEmail(ctx, *email)
	case phone != nil:
		u, err = s.store.Users.FindByPhone(ctx, *phone)
	default:
		return nil, apperr.Unauthorized("Email or phone is required")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if u == nil || !utils.CheckPassword(in.Password, u.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid credentials")
	}
	return s.issue(u)
}

func (s *AuthService) issue(u *domain.User) (*AuthResult, error) {
	sub := auth.Subject{ID: u.ID, Role: string(u.Role)}
	if u.Email != nil {
		sub.Email = *u.Email
	}
	if u.Phone != nil {
		sub.Phone = *u.Phone
	}
	tok, err := s.jwt.Issue(sub)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &AuthResult{AccessToken: tok, User: u.Public()}, nil
}

// contactTaken reports whether email or phone belongs to any user.
func (s *AuthService) contactTaken(ctx context.Context, email, phone *string) (bool, error) {
	return contactUsedByOther(ctx, s.store.Users, "", email, phone)
}

// contactUsedByOther checks email and phone against every user but exceptID.
func contactUsedByOther(ctx context.Context, users domain.UserRepository, exceptID string, email, phone *string) (bool, error) {
	if email != nil {
		u, err := users.FindByEmail(ctx, *email)
		if err != nil {
			return false, err
		}
		if u != nil && u.ID != exceptID {
			return true, nil
		}
	}
	if phone != nil {
		u, err := users.FindByPhone(ctx, *phone)
		if err != nil {
			return false, err
		}
		if u != nil && u.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}
