package router

import (
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
)

// APIModule 挂载 /api 下的公共路由与登录路由
type APIModule interface {
	MountAPI(public, user *gin.RouterGroup)
}

// AdminModule 挂载 /api/admin 下的管理路由（分组已校验 ADMIN）
type AdminModule interface {
	MountAdmin(admin *gin.RouterGroup)
}

// 可选：实现该接口可控制挂载顺序（数值越小越先挂）
// 不实现则默认 100
type prioritizer interface{ Priority() int }

// Registry 收集模块；每个 engine 一个实例，避免全局状态导致重复注册路由
type Registry struct {
	mu        sync.RWMutex
	apiMods   []APIModule
	adminMods []AdminModule
}

// Register 统一注册入口：根据类型断言分发到 API/Admin 列表
func (r *Registry) Register(mods ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, mod := range mods {
		if m, ok := mod.(APIModule); ok {
			r.apiMods = append(r.apiMods, m)
		}
		if m, ok := mod.(AdminModule); ok {
			r.adminMods = append(r.adminMods, m)
		}
	}
}

func (r *Registry) MountAllAPI(public, user *gin.RouterGroup) {
	r.mu.RLock()
	mods := append([]APIModule(nil), r.apiMods...)
	r.mu.RUnlock()

	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.MountAPI(public, user)
	}
}

func (r *Registry) MountAllAdmin(admin *gin.RouterGroup) {
	r.mu.RLock()
	mods := append([]AdminModule(nil), r.adminMods...)
	r.mu.RUnlock()

	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.MountAdmin(admin)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
