package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"salon-booking/internal/apperr"
	"salon-booking/internal/core/auth"
	"salon-booking/internal/domain"
	"salon-booking/internal/repo"
	"salon-booking/internal/storage"
	"salon-booking/internal/testdb"
	"salon-booking/pkg/utils"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type fixture struct {
	t        *testing.T
	ctx      context.Context
	store    *repo.Store
	log      *zap.Logger
	auth     *AuthService
	catalog  *CatalogService
	bookings *BookingService
	profile  *ProfileService
	uploads  *UploadService
	admin    *AdminService
	dir      string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testdb.Store(t)
	log := zap.NewNop()
	dir := t.TempDir()
	local, err := storage.NewLocal(dir, "http://files.test")
	require.NoError(t, err)
	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "salon-booking", TTL: time.Hour}

	f := &fixture{t: t, ctx: context.Background(), store: store, log: log, dir: dir}
	f.auth = NewAuthService(store, jwter, log)
	f.catalog = NewCatalogService(store, nil, 0, log)
	f.bookings = NewBookingService(store, log)
	f.profile = NewProfileService(store, log)
	f.uploads = NewUploadService(local, 0, log)
	f.admin = NewAdminService(store, f.bookings, f.uploads, log)
	return f
}

func (f *fixture) user(name string, role domain.Role) *domain.User {
	f.t.Helper()
	email := name + "@example.com"
	hash, err := utils.HashPassword("secret123")
	require.NoError(f.t, err)
	u := &domain.User{Name: name, Email: &email, PasswordHash: hash, Role: role}
	require.NoError(f.t, f.store.Users.Create(f.ctx, u))
	return u
}

func (f *fixture) address(userID string) *domain.Address {
	f.t.Helper()
	a, err := f.profile.CreateAddress(f.ctx, userID, AddressInput{
		Label:        "Home",
		AddressLine1: "12 Main Street",
		City:         "Pune",
		State:        "MH",
		Pincode:      "411001",
	})
	require.NoError(f.t, err)
	return a
}

func (f *fixture) category(name string) *domain.Category {
	f.t.Helper()
	c, err := f.catalog.CreateCategory(f.ctx, CategoryInput{Name: name})
	require.NoError(f.t, err)
	return c
}

func (f *fixture) service(categoryID, title string, price int64, active bool) *domain.Service {
	f.t.Helper()
	s, err := f.catalog.CreateService(f.ctx, ServiceInput{
		CategoryID: categoryID,
		Title:      title,
		Duration:   30,
		Price:      decimal.NewFromInt(price),
		IsActive:   &active,
	})
	require.NoError(f.t, err)
	return s
}

func (f *fixture) booking(userID, addressID string, serviceIDs ...string) *domain.Booking {
	f.t.Helper()
	b, err := f.bookings.CreateBooking(f.ctx, userID, CreateBookingInput{
		AddressID:     addressID,
		PersonName:    "Asha",
		PersonPhone:   "9876543210",
		PreferredDate: "2026-11-02",
		PreferredTime: "10:30",
		ServiceIDs:    serviceIDs,
	})
	require.NoError(f.t, err)
	return b
}

func (f *fixture) countBookings() int64 {
	f.t.Helper()
	var n int64
	require.NoError(f.t, f.store.DB().Model(&domain.Booking{}).Count(&n).Error)
	return n
}

// fileHeader builds a multipart file part the way gin hands it to handlers.
func fileHeader(t *testing.T, name string, data []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func requireStatus(t *testing.T, err error, status int) *apperr.Error {
	t.Helper()
	require.Error(t, err)
	e, ok := apperr.As(err)
	require.True(t, ok, "not an apperr: %v", err)
	require.Equal(t, status, e.Status, e.Msg)
	return e
}

func ptr[T any](v T) *T { return &v }
