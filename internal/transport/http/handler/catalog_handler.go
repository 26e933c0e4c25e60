package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salon-booking/internal/domain"
	"salon-booking/internal/pagination"
	"salon-booking/internal/service"
	"salon-booking/internal/transport/http/ez"
)

type CatalogHandler struct{ svc *service.CatalogService }

func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

type includeQuery struct {
	IncludeServices bool `form:"includeServices"`
}

var adminOnly = []domain.Role{domain.RoleAdmin}

func (h *CatalogHandler) MountAPI(public, user *gin.RouterGroup) {
	pub := ez.New(public.Group("/catalog"))
	adm := ez.New(user.Group("/catalog"))

	// 公共读
	ez.RegisterAction(pub, ez.Action[service.CategoryQuery, pagination.Result[domain.Category]]{
		Method: http.MethodGet,
		Path:   "/categories",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *service.CategoryQuery) (pagination.Result[domain.Category], error) {
			return h.svc.ListCategories(c.Request.Context(), *in)
		},
	})
	ez.RegisterAction(pub, ez.Action[includeQuery, *domain.Category]{
		Method: http.MethodGet,
		Path:   "/categories/:id",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *includeQuery) (*domain.Category, error) {
			return h.svc.GetCategory(c.Request.Context(), c.Param("id"), in.IncludeServices)
		},
	})
	ez.RegisterAction(pub, ez.Action[service.ServiceQuery, pagination.Result[domain.Service]]{
		Method: http.MethodGet,
		Path:   "/services",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *service.ServiceQuery) (pagination.Result[domain.Service], error) {
			return h.svc.ListServices(c.Request.Context(), *in)
		},
	})
	ez.RegisterAction(pub, ez.Action[Empty, *domain.Service]{
		Method: http.MethodGet,
		Path:   "/services/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *Empty) (*domain.Service, error) {
			return h.svc.GetService(c.Request.Context(), c.Param("id"))
		},
	})

	// 管理写
	ez.RegisterAction(adm, ez.Action[service.CategoryInput, *domain.Category]{
		Method: http.MethodPost,
		Path:   "/categories",
		Binder: ez.BindJSON,
		Roles:  adminOnly,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.CategoryInput) (*domain.Category, error) {
			return h.svc.CreateCategory(c.Request.Context(), *in)
		},
	})
	ez.RegisterAction(adm, ez.Action[service.CategoryPatch, *domain.Category]{
		Method: http.MethodPut,
		Path:   "/categories/:id",
		Binder: ez.BindJSON,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, in *service.CategoryPatch) (*domain.Category, error) {
			return h.svc.UpdateCategory(c.Request.Context(), c.Param("id"), *in)
		},
	})
	ez.RegisterAction(adm, ez.Action[Empty, gin.H]{
		Method: http.MethodDelete,
		Path:   "/categories/:id",
		Binder: ez.BindNone,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, _ *Empty) (gin.H, error) {
			if err := h.svc.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
				return nil, err
			}
			return gin.H{"message": "Category deleted successfully"}, nil
		},
	})
	ez.RegisterAction(adm, ez.Action[service.ServiceInput, *domain.Service]{
		Method: http.MethodPost,
		Path:   "/services",
		Binder: ez.BindJSON,
		Roles:  adminOnly,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.ServiceInput) (*domain.Service, error) {
			return h.svc.CreateService(c.Request.Context(), *in)
		},
	})
	ez.RegisterAction(adm, ez.Action[service.ServicePatch, *domain.Service]{
		Method: http.MethodPut,
		Path:   "/services/:id",
		Binder: ez.BindJSON,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, in *service.ServicePatch) (*domain.Service, error) {
			return h.svc.UpdateService(c.Request.Context(), c.Param("id"), *in)
		},
	})
	ez.RegisterAction(adm, ez.Action[Empty, gin.H]{
		Method: http.MethodDelete,
		Path:   "/services/:id",
		Binder: ez.BindNone,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, _ *Empty) (gin.H, error) {
			if err := h.svc.DeleteService(c.Request.Context(), c.Param("id")); err != nil {
				return nil, err
			}
			return gin.H{"message": "Service deleted successfully"}, nil
		},
	})
}
