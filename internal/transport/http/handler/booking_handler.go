package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salon-booking/internal/domain"
	"salon-booking/internal/pagination"
	"salon-booking/internal/service"
	"salon-booking/internal/transport/http/ez"
)

type BookingHandler struct{ svc *service.BookingService }

func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) MountAPI(_, user *gin.RouterGroup) {
	e := ez.New(user.Group("/bookings"))

	ez.RegisterAction(e, ez.Action[service.CreateBookingInput, *domain.Booking]{
		Method: http.MethodPost,
		Path:   "",
		Binder: ez.BindJSON,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.CreateBookingInput) (*domain.Booking, error) {
			return h.svc.CreateBooking(c.Request.Context(), actorOf(c).ID, *in)
		},
	})
	ez.RegisterAction(e, ez.Action[service.UserBookingQuery, pagination.Result[domain.Booking]]{
		Method: http.MethodGet,
		Path:   "",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *service.UserBookingQuery) (pagination.Result[domain.Booking], error) {
			return h.svc.ListUserBookings(c.Request.Context(), actorOf(c).ID, *in)
		},
	})
	ez.RegisterAction(e, ez.Action[Empty, *domain.Booking]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *Empty) (*domain.Booking, error) {
			a := actorOf(c)
			return h.svc.GetBooking(c.Request.Context(), a.ID, c.Param("id"), false)
		},
	})
	ez.RegisterAction(e, ez.Action[Empty, *domain.Booking]{
		Method: http.MethodPut,
		Path:   "/:id/cancel",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *Empty) (*domain.Booking, error) {
			return h.svc.CancelBooking(c.Request.Context(), actorOf(c).ID, c.Param("id"))
		},
	})
}
