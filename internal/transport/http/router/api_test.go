package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"salon-booking/internal/core/auth"
	"salon-booking/internal/core/config"
	"salon-booking/internal/domain"
	"salon-booking/internal/repo"
	"salon-booking/internal/storage"
	"salon-booking/internal/testdb"
	"salon-booking/pkg/utils"
)

type apiClient struct {
	t     *testing.T
	r     *gin.Engine
	store *repo.Store
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := testdb.Store(t)
	dir := t.TempDir()
	local, err := storage.NewLocal(dir, "http://api.test")
	require.NoError(t, err)
	r := NewAPIEngine(Deps{
		Log:       zap.NewNop(),
		HTTP:      config.HTTP{CORSOrigins: []string{"*"}},
		JWT:       &auth.JWTer{Secret: []byte("api-secret"), Issuer: "salon-booking", TTL: time.Hour},
		Store:     store,
		Storage:   local,
		UploadDir: dir,
	})
	return &apiClient{t: t, r: r, store: store}
}

func (a *apiClient) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type errorBody struct {
	StatusCode int    `json:"statusCode"`
	Message    any    `json:"message"`
	Error      string `json:"error"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
}

type idBody struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// adminToken stores an admin directly and logs in through the API.
func (a *apiClient) adminToken() string {
	a.t.Helper()
	hash, err := utils.HashPassword("admin123")
	require.NoError(a.t, err)
	email := "admin@example.com"
	require.NoError(a.t, a.store.Users.Create(context.Background(), &domain.User{
		Name: "Admin", Email: &email, PasswordHash: hash, Role: domain.RoleAdmin,
	}))
	w := a.do(http.MethodPost, "/api/auth/login", "", map[string]any{"email": email, "password": "admin123"})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	return decode[struct {
		AccessToken string `json:"accessToken"`
	}](a.t, w).AccessToken
}

func TestBookingFlow(t *testing.T) {
	a := newAPI(t)

	// 注册普通用户
	w := a.do(http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "Asha", "email": "asha@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reg := decode[struct {
		AccessToken string `json:"accessToken"`
		User        struct {
			ID   string `json:"id"`
			Role string `json:"role"`
		} `json:"user"`
	}](t, w)
	assert.Equal(t, "USER", reg.User.Role)
	assert.NotContains(t, w.Body.String(), "password")
	userTok := reg.AccessToken

	admTok := a.adminToken()

	// 目录
	w = a.do(http.MethodPost, "/api/catalog/categories", admTok, map[string]any{"name": "Hair Care"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	cat := decode[idBody](t, w)

	var svcIDs []string
	for _, title := range []string{"Haircut", "Hair Spa"} {
		w = a.do(http.MethodPost, "/api/catalog/services", admTok, map[string]any{
			"categoryId": cat.ID, "title": title, "duration": 45, "price": 650.5,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		svcIDs = append(svcIDs, decode[idBody](t, w).ID)
	}

	w = a.do(http.MethodPost, "/api/catalog/categories", userTok, map[string]any{"name": "Nope"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(http.MethodGet, "/api/catalog/services?categoryId="+cat.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]idBody](t, w), 2)

	// 地址与预约
	w = a.do(http.MethodPost, "/api/user/addresses", userTok, map[string]any{
		"label": "Home", "addressLine1": "12 Main St", "city": "Pune", "state": "MH", "pincode": "411001",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	addr := decode[idBody](t, w)

	w = a.do(http.MethodPost, "/api/bookings", userTok, map[string]any{
		"addressId":     addr.ID,
		"personName":    "Asha",
		"personPhone":   "9876543210",
		"preferredDate": "2026-11-02",
		"preferredTime": "10:30",
		"serviceIds":    svcIDs,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	booking := decode[struct {
		ID              string `json:"id"`
		Status          string `json:"status"`
		BookingServices []struct {
			Service struct {
				Title string  `json:"title"`
				Price float64 `json:"price"`
			} `json:"service"`
		} `json:"bookingServices"`
	}](t, w)
	assert.Equal(t, "PENDING", booking.Status)
	require.Len(t, booking.BookingServices, 2)
	assert.Equal(t, 650.5, booking.BookingServices[0].Service.Price)

	// 管理员确认后用户不能再取消
	w = a.do(http.MethodPut, "/api/admin/bookings/"+booking.ID+"/status", admTok, map[string]any{"status": "CONFIRMED"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "CONFIRMED", decode[idBody](t, w).Status)

	w = a.do(http.MethodPut, "/api/bookings/"+booking.ID+"/cancel", userTok, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	eb := decode[errorBody](t, w)
	assert.Equal(t, 400, eb.StatusCode)
	assert.Equal(t, "Bad Request", eb.Error)
	assert.Equal(t, domain.ErrOnlyPendingCancel.Error(), eb.Message)
	assert.Equal(t, "/api/bookings/"+booking.ID+"/cancel", eb.Path)
	_, err := time.Parse(time.RFC3339Nano, eb.Timestamp)
	assert.NoError(t, err)

	// 列表与分页
	w = a.do(http.MethodGet, "/api/bookings", userTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]idBody](t, w), 1)

	w = a.do(http.MethodGet, "/api/admin/bookings?page=1&limit=5&status=CONFIRMED", admTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[struct {
		Data []idBody `json:"data"`
		Meta struct {
			Total      int `json:"total"`
			TotalPages int `json:"totalPages"`
		} `json:"meta"`
	}](t, w)
	assert.Len(t, page.Data, 1)
	assert.Equal(t, 1, page.Meta.Total)
	assert.Equal(t, 1, page.Meta.TotalPages)

	w = a.do(http.MethodGet, "/api/admin/bookings/export", admTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "bookings-")

	// 已被预约的服务不可删除
	w = a.do(http.MethodDelete, "/api/catalog/services/"+svcIDs[0], admTok, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthGuards(t *testing.T) {
	a := newAPI(t)
	w := a.do(http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "U", "phone": "9000000000", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	tok := decode[struct {
		AccessToken string `json:"accessToken"`
	}](t, w).AccessToken

	t.Run("missing token", func(t *testing.T) {
		w := a.do(http.MethodGet, "/api/bookings", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, 401, decode[errorBody](t, w).StatusCode)
	})

	t.Run("bad token", func(t *testing.T) {
		w := a.do(http.MethodGet, "/api/user/profile", "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("user on admin routes", func(t *testing.T) {
		w := a.do(http.MethodGet, "/api/admin/users", tok, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Forbidden", decode[errorBody](t, w).Error)
	})

	t.Run("validation messages", func(t *testing.T) {
		w := a.do(http.MethodPost, "/api/bookings", tok, map[string]any{"personName": "x"})
		require.Equal(t, http.StatusBadRequest, w.Code)
		msgs, ok := decode[errorBody](t, w).Message.([]any)
		require.True(t, ok, w.Body.String())
		assert.Contains(t, msgs, "addressId should not be empty")
		assert.Contains(t, msgs, "serviceIds should not be empty")
	})

	t.Run("bad credentials", func(t *testing.T) {
		w := a.do(http.MethodPost, "/api/auth/login", "", map[string]any{"phone": "9000000000", "password": "wrong"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid credentials", decode[errorBody](t, w).Message)
	})

	t.Run("profile", func(t *testing.T) {
		w := a.do(http.MethodGet, "/api/user/profile", tok, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "U", decode[struct {
			Name string `json:"name"`
		}](t, w).Name)
	})

	t.Run("health", func(t *testing.T) {
		w := a.do(http.MethodGet, "/health", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
