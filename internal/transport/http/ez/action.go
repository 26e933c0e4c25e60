package ez

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"salon-booking/internal/domain"
	"salon-booking/internal/transport/http/middleware"
	resp "salon-booking/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

func (e EZ) Group() *gin.RouterGroup { return e.g }

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindForm  Binder = "form"  // 按 Content-Type：JSON 或 multipart/form-data
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string        // "GET" | "POST" | "PUT" | "DELETE"
	Path    string        // 例："/auth/login"、"/bookings/:id/cancel"
	Binder  Binder        // 绑定方式
	Auth    bool          // 是否要求登录（检查 userId）
	Roles   []domain.Role // 限定角色（可选），SUPERADMIN 总是放行
	Status  int           // 成功状态码，默认 200
	Handler func(c *gin.Context, in *I) (O, error)
}

// RegisterAction 在当前 EZ 下注册动作接口
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		// 1) 鉴权/角色
		if a.Auth || len(a.Roles) > 0 {
			if c.GetString(middleware.KeyUserID) == "" {
				resp.Abort(c, http.StatusUnauthorized, "Unauthorized")
				return
			}
			if !middleware.HasRole(domain.Role(c.GetString(middleware.KeyRole)), a.Roles...) {
				resp.Abort(c, http.StatusForbidden, "Forbidden resource")
				return
			}
		}

		// 2) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		case BindForm:
			bindErr = c.ShouldBind(&in)
		default: // BindNone: 不绑定
		}
		if bindErr != nil {
			resp.Abort(c, http.StatusBadRequest, bindMessages(bindErr))
			return
		}

		// 3) 执行 + 统一错误映射
		out, err := a.Handler(c, &in)
		if err != nil {
			resp.Fail(c, err)
			return
		}
		resp.OK(c, status, out)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}

// bindMessages turns validator errors into one message per field.
func bindMessages(err error) any {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldMessage(fe))
	}
	return msgs
}

func fieldMessage(fe validator.FieldError) string {
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " should not be empty"
	case "email":
		return field + " must be an email"
	case "url":
		return field + " must be a URL address"
	case "min":
		return fmt.Sprintf("%s must not be less than %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must not be greater than %s", field, fe.Param())
	}
	return fmt.Sprintf("%s failed on the '%s' rule", field, fe.Tag())
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	switch {
	case strings.HasSuffix(s, "IDs"):
		s = s[:len(s)-3] + "Ids"
	case strings.HasSuffix(s, "ID"):
		s = s[:len(s)-2] + "Id"
	}
	return strings.ToLower(s[:1]) + s[1:]
}
