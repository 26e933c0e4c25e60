package service

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salon-booking/internal/domain"
	"salon-booking/internal/pagination"
)

func TestAdminCreateUser(t *testing.T) {
	f := newFixture(t)
	admin := Actor{ID: f.user("admin", domain.RoleAdmin).ID, Role: domain.RoleAdmin}
	root := Actor{ID: f.user("root", domain.RoleSuperAdmin).ID, Role: domain.RoleSuperAdmin}

	t.Run("admin creates a user", func(t *testing.T) {
		u, err := f.admin.CreateUser(f.ctx, admin, CreateUserInput{
			Name: "Kiran", Email: ptr("kiran@example.com"), Password: "secret123",
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleUser, u.Role)
	})

	t.Run("admin cannot create privileged users", func(t *testing.T) {
		for _, r := range []domain.Role{domain.RoleAdmin, domain.RoleSuperAdmin} {
			_, err := f.admin.CreateUser(f.ctx, admin, CreateUserInput{
				Name: "x", Email: ptr(strings.ToLower(string(r)) + "@x.test"), Password: "secret123", Role: ptr(r),
			}, nil)
			e := requireStatus(t, err, http.StatusForbidden)
			assert.Equal(t, domain.ErrCreateOnlyUsers.Error(), e.Msg)
		}
	})

	t.Run("superadmin creates any role", func(t *testing.T) {
		u, err := f.admin.CreateUser(f.ctx, root, CreateUserInput{
			Name: "Second", Email: ptr("second@example.com"), Password: "secret123", Role: ptr(domain.RoleSuperAdmin),
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleSuperAdmin, u.Role)
	})

	t.Run("invalid role", func(t *testing.T) {
		_, err := f.admin.CreateUser(f.ctx, root, CreateUserInput{
			Name: "x", Email: ptr("bad@example.com"), Password: "secret123", Role: ptr(domain.Role("OWNER")),
		}, nil)
		requireStatus(t, err, http.StatusBadRequest)
	})

	t.Run("duplicate contact", func(t *testing.T) {
		_, err := f.admin.CreateUser(f.ctx, admin, CreateUserInput{
			Name: "again", Email: ptr("kiran@example.com"), Password: "secret123",
		}, nil)
		requireStatus(t, err, http.StatusForbidden)
	})

	t.Run("uploaded image becomes imageUrl", func(t *testing.T) {
		u, err := f.admin.CreateUser(f.ctx, admin, CreateUserInput{
			Name: "Pic", Phone: ptr("9222222222"), Password: "secret123", ImageURL: ptr("http://ignored.test/a.png"),
		}, fileHeader(t, "me.png", pngHeader))
		require.NoError(t, err)
		require.NotNil(t, u.ImageURL)
		assert.True(t, strings.HasPrefix(*u.ImageURL, "http://files.test/uploads/users/"))
	})
}

func TestAdminUpdateUser(t *testing.T) {
	f := newFixture(t)
	adminUser := f.user("admin", domain.RoleAdmin)
	admin := Actor{ID: adminUser.ID, Role: domain.RoleAdmin}
	rootUser := f.user("root", domain.RoleSuperAdmin)
	root := Actor{ID: rootUser.ID, Role: domain.RoleSuperAdmin}
	plain := f.user("plain", domain.RoleUser)
	other := f.user("other", domain.RoleUser)
	_, err := f.admin.UpdateUser(f.ctx, root, other.ID, UpdateUserInput{Phone: ptr("9333333333")}, nil)
	require.NoError(t, err)

	t.Run("admin cannot change own role", func(t *testing.T) {
		_, err := f.admin.UpdateUser(f.ctx, admin, admin.ID, UpdateUserInput{Role: ptr(domain.RoleAdmin)}, nil)
		e := requireStatus(t, err, http.StatusForbidden)
		assert.Equal(t, domain.ErrChangeOwnRole.Error(), e.Msg)
	})

	t.Run("admin may rename self", func(t *testing.T) {
		u, err := f.admin.UpdateUser(f.ctx, admin, admin.ID, UpdateUserInput{Name: ptr("Boss")}, nil)
		require.NoError(t, err)
		assert.Equal(t, "Boss", u.Name)
	})

	t.Run("admin cannot touch a superadmin", func(t *testing.T) {
		_, err := f.admin.UpdateUser(f.ctx, admin, rootUser.ID, UpdateUserInput{Name: ptr("x")}, nil)
		requireStatus(t, err, http.StatusForbidden)
	})

	t.Run("admin cannot grant superadmin", func(t *testing.T) {
		_, err := f.admin.UpdateUser(f.ctx, admin, plain.ID, UpdateUserInput{Role: ptr(domain.RoleSuperAdmin)}, nil)
		requireStatus(t, err, http.StatusForbidden)
	})

	t.Run("admin promotes to admin", func(t *testing.T) {
		u, err := f.admin.UpdateUser(f.ctx, admin, plain.ID, UpdateUserInput{Role: ptr(domain.RoleAdmin)}, nil)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, u.Role)
	})

	t.Run("superadmin changes own role", func(t *testing.T) {
		u, err := f.admin.UpdateUser(f.ctx, root, root.ID, UpdateUserInput{Role: ptr(domain.RoleAdmin)}, nil)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, u.Role)
	})

	t.Run("phone in use", func(t *testing.T) {
		_, err := f.admin.UpdateUser(f.ctx, admin, plain.ID, UpdateUserInput{Phone: ptr("9333333333")}, nil)
		e := requireStatus(t, err, http.StatusForbidden)
		assert.Equal(t, "Phone number already in use", e.Msg)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := f.admin.UpdateUser(f.ctx, admin, "missing", UpdateUserInput{}, nil)
		requireStatus(t, err, http.StatusNotFound)
	})
}

func TestAdminListAndGetUsers(t *testing.T) {
	f := newFixture(t)
	for _, n := range []string{"anita", "bhavna", "chetan"} {
		f.user(n, domain.RoleUser)
	}
	alice := f.user("alice", domain.RoleUser)
	cat := f.category("Hair")
	svc := f.service(cat.ID, "Cut", 300, true)
	f.booking(alice.ID, f.address(alice.ID).ID, svc.ID)

	res, err := f.admin.ListUsers(f.ctx, UserQuery{Search: "ANI"})
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "anita", res.Data[0].Name)

	res, err = f.admin.ListUsers(f.ctx, UserQuery{Query: pagination.Query{Limit: ptr(3)}})
	require.NoError(t, err)
	assert.Len(t, res.Data, 3)
	assert.Equal(t, int64(4), res.Meta.Total)

	u, err := f.admin.GetUser(f.ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, u.Addresses, 1)
	require.Len(t, u.Bookings, 1)
	require.Len(t, u.Bookings[0].BookingServices, 1)
	assert.Equal(t, "Hair", u.Bookings[0].BookingServices[0].Service.Category.Name)

	_, err = f.admin.GetUser(f.ctx, "missing")
	requireStatus(t, err, http.StatusNotFound)
}

func TestAdminExportBookings(t *testing.T) {
	f := newFixture(t)
	alice := f.user("alice", domain.RoleUser)
	cat := f.category("Hair")
	cut := f.service(cat.ID, "Cut", 300, true)
	wash := f.service(cat.ID, "Wash", 150, true)
	addr := f.address(alice.ID)
	f.booking(alice.ID, addr.ID, cut.ID, wash.ID)
	f.booking(alice.ID, addr.ID, cut.ID)

	var buf bytes.Buffer
	require.NoError(t, f.admin.ExportBookings(f.ctx, AdminBookingQuery{Query: pagination.Query{Limit: ptr(1)}}, &buf))

	x, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer x.Close()
	rows, err := x.GetRows("Bookings")
	require.NoError(t, err)
	assert.Len(t, rows, 3, "header plus every booking, paging ignored")
}
