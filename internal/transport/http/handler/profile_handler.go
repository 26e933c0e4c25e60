package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salon-booking/internal/domain"
	"salon-booking/internal/service"
	"salon-booking/internal/transport/http/ez"
)

type ProfileHandler struct{ svc *service.ProfileService }

func NewProfileHandler(svc *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

func (h *ProfileHandler) MountAPI(_, user *gin.RouterGroup) {
	e := ez.New(user.Group("/user"))

	ez.RegisterAction(e, ez.Action[Empty, *domain.PublicUser]{
		Method: http.MethodGet,
		Path:   "/profile",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *Empty) (*domain.PublicUser, error) {
			return h.svc.GetProfile(c.Request.Context(), actorOf(c).ID)
		},
	})
	ez.RegisterAction(e, ez.Action[service.ProfileInput, *domain.PublicUser]{
		Method: http.MethodPut,
		Path:   "/profile",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *service.ProfileInput) (*domain.PublicUser, error) {
			return h.svc.UpdateProfile(c.Request.Context(), actorOf(c).ID, *in)
		},
	})

	ez.RegisterAction(e, ez.Action[Empty, []domain.Address]{
		Method: http.MethodGet,
		Path:   "/addresses",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *Empty) ([]domain.Address, error) {
			return h.svc.ListAddresses(c.Request.Context(), actorOf(c).ID)
		},
	})
	ez.RegisterAction(e, ez.Action[service.AddressInput, *domain.Address]{
		Method: http.MethodPost,
		Path:   "/addresses",
		Binder: ez.BindJSON,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.AddressInput) (*domain.Address, error) {
			return h.svc.CreateAddress(c.Request.Context(), actorOf(c).ID, *in)
		},
	})
	ez.RegisterAction(e, ez.Action[service.AddressPatch, *domain.Address]{
		Method: http.MethodPut,
		Path:   "/addresses/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *service.AddressPatch) (*domain.Address, error) {
			return h.svc.UpdateAddress(c.Request.Context(), actorOf(c).ID, c.Param("id"), *in)
		},
	})
	ez.RegisterAction(e, ez.Action[Empty, struct{}]{
		Method: http.MethodDelete,
		Path:   "/addresses/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, _ *Empty) (struct{}, error) {
			return struct{}{}, h.svc.DeleteAddress(c.Request.Context(), actorOf(c).ID, c.Param("id"))
		},
	})
}
