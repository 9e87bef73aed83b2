package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	httpez "taskboard/internal/transport/http/ez"
)

// Counter 用户、任务仓储都实现
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

type HealthHandler struct {
	users, tasks  Counter
	started       time.Time
	defaultSecret bool
	now           func() time.Time
}

func NewHealthHandler(users, tasks Counter, defaultSecret bool) *HealthHandler {
	return &HealthHandler{
		users:         users,
		tasks:         tasks,
		started:       time.Now(),
		defaultSecret: defaultSecret,
		now:           time.Now,
	}
}

type memoryView struct {
	Alloc     uint64 `json:"alloc"`
	HeapAlloc uint64 `json:"heapAlloc"`
	Sys       uint64 `json:"sys"`
	NumGC     uint32 `json:"numGC"`
}

type healthOut struct {
	Status        string     `json:"status"`
	Message       string     `json:"message"`
	Timestamp     time.Time  `json:"timestamp"`
	Uptime        float64    `json:"uptime"` // 秒
	UsersCount    int64      `json:"usersCount"`
	TasksCount    int64      `json:"tasksCount"`
	Memory        memoryView `json:"memory"`
	DefaultSecret bool       `json:"defaultSecret"`
}

func (h *HealthHandler) Priority() int { return 0 }

func (h *HealthHandler) Mount(public, _ httpez.EZ) {
	httpez.RegisterAction(public, httpez.Action[struct{}, healthOut]{
		Method:  http.MethodGet,
		Path:    "/health",
		Binder:  httpez.BindNone,
		Handler: h.health,
	})
}

func (h *HealthHandler) health(c *gin.Context, _ *struct{}) (healthOut, error) {
	out := healthOut{
		Status:        "OK",
		Message:       "Backend server is running",
		DefaultSecret: h.defaultSecret,
	}
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		out.UsersCount, err = h.users.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.TasksCount, err = h.tasks.Count(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return healthOut{}, httpez.Internal("Internal server error", err)
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	out.Memory = memoryView{Alloc: ms.Alloc, HeapAlloc: ms.HeapAlloc, Sys: ms.Sys, NumGC: ms.NumGC}
	now := h.now()
	out.Timestamp = now.UTC()
	out.Uptime = now.Sub(h.started).Seconds()
	return out, nil
}
