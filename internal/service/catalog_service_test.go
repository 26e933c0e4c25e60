package service

import (
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salon-booking/internal/core/cache"
	"salon-booking/internal/domain"
)

func TestCategoryCRUD(t *testing.T) {
	f := newFixture(t)

	hair := f.category("Hair Care")
	assert.True(t, hair.IsActive)

	t.Run("duplicate name", func(t *testing.T) {
		_, err := f.catalog.CreateCategory(f.ctx, CategoryInput{Name: " Hair Care "})
		e := requireStatus(t, err, http.StatusConflict)
		assert.Equal(t, "Category with this name already exists", e.Msg)
	})

	t.Run("rename onto an existing name", func(t *testing.T) {
		nails := f.category("Nails")
		_, err := f.catalog.UpdateCategory(f.ctx, nails.ID, CategoryPatch{Name: ptr("Hair Care")})
		requireStatus(t, err, http.StatusConflict)
	})

	t.Run("deactivated categories leave the public list", func(t *testing.T) {
		_, err := f.catalog.UpdateCategory(f.ctx, hair.ID, CategoryPatch{IsActive: ptr(false)})
		require.NoError(t, err)
		res, err := f.catalog.ListCategories(f.ctx, CategoryQuery{})
		require.NoError(t, err)
		for _, c := range res.Data {
			assert.NotEqual(t, hair.ID, c.ID)
		}
		got, err := f.catalog.GetCategory(f.ctx, hair.ID, false)
		require.NoError(t, err)
		assert.False(t, got.IsActive)
	})

	t.Run("delete refuses categories with services", func(t *testing.T) {
		f.service(hair.ID, "Cut", 300, true)
		err := f.catalog.DeleteCategory(f.ctx, hair.ID)
		e := requireStatus(t, err, http.StatusConflict)
		assert.Equal(t, "Cannot delete category with associated services", e.Msg)
	})

	t.Run("delete empty category", func(t *testing.T) {
		spa := f.category("Spa")
		require.NoError(t, f.catalog.DeleteCategory(f.ctx, spa.ID))
		_, err := f.catalog.GetCategory(f.ctx, spa.ID, false)
		requireStatus(t, err, http.StatusNotFound)
		requireStatus(t, f.catalog.DeleteCategory(f.ctx, spa.ID), http.StatusNotFound)
	})
}

func TestListCategoriesWithServices(t *testing.T) {
	f := newFixture(t)
	hair := f.category("Hair")
	f.service(hair.ID, "Cut", 300, true)
	f.service(hair.ID, "Perm", 900, false)
	f.category("Nails")

	res, err := f.catalog.ListCategories(f.ctx, CategoryQuery{IncludeServices: true})
	require.NoError(t, err)
	require.Len(t, res.Data, 2)
	assert.Equal(t, "Hair", res.Data[0].Name, "ordered by name")
	require.Len(t, res.Data[0].Services, 1)
	assert.Equal(t, "Cut", res.Data[0].Services[0].Title)

	res, err = f.catalog.ListCategories(f.ctx, CategoryQuery{Search: "NAIL"})
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "Nails", res.Data[0].Name)
}

func TestServiceCRUD(t *testing.T) {
	f := newFixture(t)
	hair := f.category("Hair")

	t.Run("unknown category", func(t *testing.T) {
		_, err := f.catalog.CreateService(f.ctx, ServiceInput{CategoryID: "missing", Title: "X", Duration: 10})
		requireStatus(t, err, http.StatusNotFound)
	})

	t.Run("negative price", func(t *testing.T) {
		_, err := f.catalog.CreateService(f.ctx, ServiceInput{
			CategoryID: hair.ID, Title: "X", Duration: 10, Price: decimal.NewFromInt(-1),
		})
		requireStatus(t, err, http.StatusBadRequest)
	})

	cut := f.service(hair.ID, "Cut", 450, true)
	require.NotNil(t, cut.Category)
	assert.Equal(t, hair.ID, cut.Category.ID)
	assert.True(t, decimal.NewFromInt(450).Equal(cut.Price))

	t.Run("inactive services are hidden from the list but readable", func(t *testing.T) {
		price := decimal.RequireFromString("499.50")
		got, err := f.catalog.UpdateService(f.ctx, cut.ID, ServicePatch{IsActive: ptr(false), Price: &price})
		require.NoError(t, err)
		assert.Equal(t, "499.5", got.Price.String())

		res, err := f.catalog.ListServices(f.ctx, ServiceQuery{CategoryID: hair.ID})
		require.NoError(t, err)
		assert.Empty(t, res.Data)

		_, err = f.catalog.GetService(f.ctx, cut.ID)
		require.NoError(t, err)
	})

	t.Run("booked service cannot be deleted", func(t *testing.T) {
		wash := f.service(hair.ID, "Wash", 150, true)
		alice := f.user("alice", domain.RoleUser)
		f.booking(alice.ID, f.address(alice.ID).ID, wash.ID)
		err := f.catalog.DeleteService(f.ctx, wash.ID)
		e := requireStatus(t, err, http.StatusConflict)
		assert.Equal(t, "Cannot delete service with existing bookings", e.Msg)
	})

	t.Run("delete unbooked service", func(t *testing.T) {
		require.NoError(t, f.catalog.DeleteService(f.ctx, cut.ID))
		_, err := f.catalog.GetService(f.ctx, cut.ID)
		requireStatus(t, err, http.StatusNotFound)
	})
}

func TestCatalogCache(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer rdb.Close()

	f := newFixture(t)
	f.catalog = NewCatalogService(f.store, cache.NewWithClient(rdb), time.Minute, f.log)

	f.category("Hair")
	res, err := f.catalog.ListCategories(f.ctx, CategoryQuery{})
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.NotEmpty(t, s.Keys())

	// 绕过服务直接写库，缓存仍返回旧数据
	require.NoError(t, f.store.Categories.Create(f.ctx, &domain.Category{Name: "Direct", IsActive: true}))
	res, err = f.catalog.ListCategories(f.ctx, CategoryQuery{})
	require.NoError(t, err)
	assert.Len(t, res.Data, 1)

	// 任何写操作都会使列表失效
	f.category("Nails")
	res, err = f.catalog.ListCategories(f.ctx, CategoryQuery{})
	require.NoError(t, err)
	assert.Len(t, res.Data, 3)

	v, err := s.Get("salon:catalog:ver")
	require.NoError(t, err)
	assert.Equal(t, "2", v)
}
