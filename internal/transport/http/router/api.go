package router

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskboard/internal/core/config"
	"taskboard/internal/core/server"
	httpez "taskboard/internal/transport/http/ez"
	mdw "taskboard/internal/transport/http/middleware"
	resp "taskboard/internal/transport/http/response"
)

type Deps struct {
	Log      *zap.Logger
	HTTP     config.HTTP
	Verifier mdw.TokenVerifier
	Modules  []Module
}

func NewAPIEngine(d Deps) *gin.Engine {
	l := d.Log
	if l == nil {
		l = zap.NewNop()
	}
	r := server.NewRouter(l, d.HTTP.AllowOrigins)

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.ConcurrencyLimit(d.HTTP.MaxInFlight),
		mdw.MaxBodyBytes(d.HTTP.MaxBodyBytes),
		mdw.Timeout(time.Duration(d.HTTP.RequestTimeoutSec)*time.Second),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	r.GET("/metrics", mdw.MetricsHandler())

	api := r.Group("/api")
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(d.Verifier))

	MountAll(httpez.New(api, l), httpez.New(authed, l), d.Modules...)

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			resp.Abort(c, resp.KindNotFound, "API endpoint not found")
			return
		}
		resp.Abort(c, resp.KindNotFound, "")
	})
	return r
}
