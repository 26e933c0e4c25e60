package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"salon-booking/internal/core/auth"
	"salon-booking/internal/core/cache"
	"salon-booking/internal/core/config"
	"salon-booking/internal/core/server"
	"salon-booking/internal/domain"
	"salon-booking/internal/repo"
	"salon-booking/internal/service"
	"salon-booking/internal/storage"
	"salon-booking/internal/transport/http/handler"
	mdw "salon-booking/internal/transport/http/middleware"
)

// Deps 组装 API 所需的依赖
type Deps struct {
	Log        *zap.Logger
	HTTP       config.HTTP
	JWT        *auth.JWTer
	Store      *repo.Store
	Cache      *cache.Cache // 可为 nil：不缓存
	CatalogTTL time.Duration
	Storage    storage.Storage
	UploadDir  string // 非空时以 /uploads 提供本地文件
	MaxUpload  int64
}

func NewAPIEngine(d Deps) *gin.Engine {
	r := server.NewRouter(d.Log, d.HTTP.CORSOrigins)

	// 中间件
	r.Use(mdw.RequestID())
	r.Use(mdw.Guards(d.HTTP)...)
	r.Use(mdw.SimpleRecovery(d.Log), mdw.Metrics(), mdw.AccessLog(d.Log))

	// 健康检查 / 指标 / 静态文件
	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := d.Store.DB().DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if d.UploadDir != "" {
		r.Static(storage.URLPrefix, d.UploadDir)
	}

	// 服务
	bookings := service.NewBookingService(d.Store, d.Log.Named("booking"))
	uploads := service.NewUploadService(d.Storage, d.MaxUpload, d.Log.Named("upload"))
	reg := &Registry{}
	reg.Register(
		handler.NewAuthHandler(service.NewAuthService(d.Store, d.JWT, d.Log.Named("auth"))),
		handler.NewCatalogHandler(service.NewCatalogService(d.Store, d.Cache, d.CatalogTTL, d.Log.Named("catalog"))),
		handler.NewBookingHandler(bookings),
		handler.NewProfileHandler(service.NewProfileService(d.Store, d.Log.Named("profile"))),
		handler.NewUploadHandler(uploads),
		handler.NewAdminHandler(service.NewAdminService(d.Store, bookings, uploads, d.Log.Named("admin"))),
	)

	// 前缀
	api := r.Group("/api")
	public := api.Group("")
	user := api.Group("", mdw.AuthJWT(d.JWT, d.Store.Users))
	admin := user.Group("/admin", mdw.RequireRoles(domain.RoleAdmin))

	reg.MountAllAPI(public, user)
	reg.MountAllAdmin(admin)

	return r
}
