package ez

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskboard/internal/domain"
	resp "taskboard/internal/transport/http/response"
)

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// AErr 统一错误对象；Err 只写日志，不返回给客户端
type AErr struct {
	Kind resp.Kind
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &AErr{Kind: resp.KindInvalidInput, Msg: msg} }
func Conflict(msg string) error     { return &AErr{Kind: resp.KindConflict, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Kind: resp.KindUnauthenticated, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Kind: resp.KindForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Kind: resp.KindNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Kind: resp.KindInternal, Msg: msg, Err: err}
}

// FromDomain 把服务层错误映射到分类；未知错误一律 Internal
func FromDomain(err error) *AErr {
	var ae *AErr
	if errors.As(err, &ae) {
		return ae
	}
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return &AErr{Kind: resp.KindInvalidInput, Msg: ve.Msg}
	case errors.Is(err, domain.ErrDuplicateEmail):
		return &AErr{Kind: resp.KindConflict, Msg: "User already exists with this email"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return &AErr{Kind: resp.KindInvalidCredentials, Msg: "Invalid email or password"}
	case errors.Is(err, domain.ErrNotFound):
		return &AErr{Kind: resp.KindNotFound, Msg: "Not Found"}
	case errors.Is(err, context.DeadlineExceeded):
		return &AErr{Kind: resp.KindTimeout, Err: err}
	default:
		return &AErr{Kind: resp.KindInternal, Msg: "Internal server error", Err: err}
	}
}

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, log: l}
}

// Action 一个接口的声明：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string // "GET" | "POST" | "PUT" | "DELETE"
	Path    string // 例："/tasks/:id"
	Binder  Binder
	Status  int // 成功状态码，默认 200
	Handler func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default:
		}
		if bindErr != nil {
			resp.Abort(c, resp.KindInvalidInput, "Invalid request body")
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			ae := FromDomain(err)
			if ae.Kind == resp.KindInternal || ae.Kind == resp.KindTimeout {
				e.log.Error("request failed",
					zap.String("method", c.Request.Method),
					zap.String("path", c.FullPath()),
					zap.Error(err),
				)
				_ = c.Error(err)
			}
			resp.Abort(c, ae.Kind, ae.Msg)
			return
		}
		c.JSON(status, out)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}
