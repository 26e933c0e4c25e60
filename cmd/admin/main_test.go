package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"salon-booking/internal/domain"
	"salon-booking/internal/pagination"
	"salon-booking/internal/testdb"
	"salon-booking/pkg/utils"
)

func TestSeedIsIdempotent(t *testing.T) {
	store := testdb.Store(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, Seed(ctx, store, zap.NewNop()))
	}

	admin, err := store.Users.FindByEmail(ctx, seedAdminEmail)
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.True(t, utils.CheckPassword(seedAdminPassword, admin.PasswordHash))

	cats, total, err := store.Categories.List(ctx, domain.CategoryFilter{}, pagination.All())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, cats, 1)
	assert.Equal(t, seedCategory, cats[0].Name)

	svcs, _, err := store.Services.List(ctx, domain.ServiceFilter{}, pagination.All())
	require.NoError(t, err)
	require.Len(t, svcs, 1)
	assert.Equal(t, seedService, svcs[0].Title)
	assert.Equal(t, "500", svcs[0].Price.String())
	assert.Equal(t, 60, svcs[0].Duration)
}

func TestBootstrap(t *testing.T) {
	store := testdb.Store(t)
	ctx := context.Background()

	u, err := Bootstrap(ctx, store, BootstrapInput{
		Name: "Root", Email: "root@example.com", Password: "secret123", Role: domain.RoleSuperAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSuperAdmin, u.Role)
	assert.Nil(t, u.Phone)

	cases := []struct {
		name string
		in   BootstrapInput
	}{
		{"duplicate email", BootstrapInput{Email: "root@example.com", Password: "secret123", Role: domain.RoleAdmin}},
		{"short password", BootstrapInput{Email: "x@example.com", Password: "123", Role: domain.RoleAdmin}},
		{"invalid role", BootstrapInput{Email: "x@example.com", Password: "secret123", Role: "OWNER"}},
		{"no contact", BootstrapInput{Password: "secret123", Role: domain.RoleUser}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Bootstrap(ctx, store, tc.in)
			assert.Error(t, err)
		})
	}
}
