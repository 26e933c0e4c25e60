package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"salon-booking/internal/service"
	"salon-booking/internal/transport/http/ez"
	"salon-booking/internal/transport/http/middleware"
)

// 登录/注册按 IP 限速
const (
	authRPS   rate.Limit = 5
	authBurst            = 20
)

type AuthHandler struct{ svc *service.AuthService }

func NewAuthHandler(svc *service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

func (h *AuthHandler) Priority() int { return 10 }

func (h *AuthHandler) MountAPI(public, _ *gin.RouterGroup) {
	e := ez.New(public.Group("/auth", middleware.RateLimitPerIP(authRPS, authBurst)))

	ez.RegisterAction(e, ez.Action[service.RegisterInput, *service.AuthResult]{
		Method: http.MethodPost,
		Path:   "/register",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.RegisterInput) (*service.AuthResult, error) {
			return h.svc.Register(c.Request.Context(), *in)
		},
	})

	ez.RegisterAction(e, ez.Action[service.LoginInput, *service.AuthResult]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: ez.BindJSON,
		Status: http.StatusOK,
		Handler: func(c *gin.Context, in *service.LoginInput) (*service.AuthResult, error) {
			return h.svc.Login(c.Request.Context(), *in)
		},
	})
}
