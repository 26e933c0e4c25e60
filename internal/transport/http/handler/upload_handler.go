package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salon-booking/internal/apperr"
	"salon-booking/internal/service"
	"salon-booking/internal/transport/http/ez"
)

// 上传表单字段名
const fileField = "file"

type UploadHandler struct{ svc *service.UploadService }

func NewUploadHandler(svc *service.UploadService) *UploadHandler {
	return &UploadHandler{svc: svc}
}

type deleteImageQuery struct {
	URL string `form:"url"`
}

func (h *UploadHandler) MountAPI(_, user *gin.RouterGroup) {
	e := ez.New(user.Group("/upload"))

	ez.RegisterAction(e, ez.Action[Empty, *service.UploadResult]{
		Method: http.MethodPost,
		Path:   "/image/:folder",
		Binder: ez.BindNone,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, _ *Empty) (*service.UploadResult, error) {
			fh, err := c.FormFile(fileField)
			if err != nil {
				return nil, apperr.BadRequest("No file uploaded")
			}
			return h.svc.SaveImage(c.Request.Context(), c.Param("folder"), fh)
		},
	})
	ez.RegisterAction(e, ez.Action[deleteImageQuery, gin.H]{
		Method: http.MethodDelete,
		Path:   "/image",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *deleteImageQuery) (gin.H, error) {
			if err := h.svc.DeleteImage(c.Request.Context(), in.URL); err != nil {
				return nil, err
			}
			return gin.H{"message": "Image deleted successfully"}, nil
		},
	})
}
