package handler

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"salon-booking/internal/domain"
	"salon-booking/internal/pagination"
	"salon-booking/internal/service"
	"salon-booking/internal/transport/http/ez"
	resp "salon-booking/internal/transport/http/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AdminHandler struct{ svc *service.AdminService }

func NewAdminHandler(svc *service.AdminService) *AdminHandler { return &AdminHandler{svc: svc} }

type statusInput struct {
	Status domain.BookingStatus `json:"status" binding:"required"`
}

// imageFile returns the optional "image" part of a multipart request.
func imageFile(c *gin.Context) *multipart.FileHeader {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil
	}
	return fh
}

// MountAdmin 挂到已校验 ADMIN 的 /admin 分组
func (h *AdminHandler) MountAdmin(admin *gin.RouterGroup) {
	e := ez.New(admin)

	// --- 用户 ---
	ez.RegisterAction(e, ez.Action[service.UserQuery, pagination.Result[domain.PublicUser]]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, in *service.UserQuery) (pagination.Result[domain.PublicUser], error) {
			return h.svc.ListUsers(c.Request.Context(), *in)
		},
	})
	ez.RegisterAction(e, ez.Action[Empty, *domain.User]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, _ *Empty) (*domain.User, error) {
			return h.svc.GetUser(c.Request.Context(), c.Param("id"))
		},
	})
	ez.RegisterAction(e, ez.Action[service.CreateUserInput, *domain.PublicUser]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: ez.BindForm,
		Roles:  adminOnly,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.CreateUserInput) (*domain.PublicUser, error) {
			return h.svc.CreateUser(c.Request.Context(), actorOf(c), *in, imageFile(c))
		},
	})
	ez.RegisterAction(e, ez.Action[service.UpdateUserInput, *domain.PublicUser]{
		Method: http.MethodPut,
		Path:   "/users/:id",
		Binder: ez.BindForm,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, in *service.UpdateUserInput) (*domain.PublicUser, error) {
			return h.svc.UpdateUser(c.Request.Context(), actorOf(c), c.Param("id"), *in, imageFile(c))
		},
	})

	// --- 预约 ---
	ez.RegisterAction(e, ez.Action[service.AdminBookingQuery, pagination.Result[domain.Booking]]{
		Method: http.MethodGet,
		Path:   "/bookings",
		Binder: ez.BindQuery,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, in *service.AdminBookingQuery) (pagination.Result[domain.Booking], error) {
			return h.svc.ListBookings(c.Request.Context(), *in)
		},
	})
	// 静态段优先于 /:id
	admin.GET("/bookings/export", h.exportBookings)
	ez.RegisterAction(e, ez.Action[Empty, *domain.Booking]{
		Method: http.MethodGet,
		Path:   "/bookings/:id",
		Binder: ez.BindNone,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, _ *Empty) (*domain.Booking, error) {
			return h.svc.GetBooking(c.Request.Context(), actorOf(c), c.Param("id"))
		},
	})
	ez.RegisterAction(e, ez.Action[statusInput, *domain.Booking]{
		Method: http.MethodPut,
		Path:   "/bookings/:id/status",
		Binder: ez.BindJSON,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, in *statusInput) (*domain.Booking, error) {
			return h.svc.UpdateBookingStatus(c.Request.Context(), c.Param("id"), in.Status)
		},
	})
	ez.RegisterAction(e, ez.Action[service.AdminBookingPatch, *domain.Booking]{
		Method: http.MethodPut,
		Path:   "/bookings/:id",
		Binder: ez.BindJSON,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, in *service.AdminBookingPatch) (*domain.Booking, error) {
			return h.svc.UpdateBooking(c.Request.Context(), c.Param("id"), *in)
		},
	})
}

func (h *AdminHandler) exportBookings(c *gin.Context) {
	var q service.AdminBookingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		resp.Abort(c, http.StatusBadRequest, err.Error())
		return
	}
	var buf bytes.Buffer
	if err := h.svc.ExportBookings(c.Request.Context(), q, &buf); err != nil {
		resp.Fail(c, err)
		return
	}
	name := fmt.Sprintf("bookings-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
