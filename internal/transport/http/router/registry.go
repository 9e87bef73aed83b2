package router

import (
	"sort"

	httpez "taskboard/internal/transport/http/ez"
)

// Module 业务模块：public 免登录，protected 已挂 AuthJWT
type Module interface {
	Mount(public, protected httpez.EZ)
}

// 可选：实现该接口可控制挂载顺序（数值越小越先挂）
// 不实现则默认 100
type prioritizer interface{ Priority() int }

// MountAll 按优先级挂载所有模块；同优先级保持传入顺序
func MountAll(public, protected httpez.EZ, mods ...Module) {
	mods = append([]Module(nil), mods...)
	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.Mount(public, protected)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
