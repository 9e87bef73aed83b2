package response

import "net/http"

// Kind 错误分类，随响应体的 code 字段返回
type Kind string

const (
	KindInvalidInput       Kind = "invalid_input"
	KindConflict           Kind = "conflict"
	KindUnauthenticated    Kind = "unauthenticated"
	KindTokenExpired       Kind = "token_expired"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindForbidden          Kind = "forbidden"
	KindNotFound           Kind = "not_found"
	KindInternal           Kind = "internal"
	KindBusy               Kind = "busy"
	KindTimeout            Kind = "timeout"
)

// 重复邮箱按约定返回 400 而不是 409
var kindStatus = map[Kind]int{
	KindInvalidInput:       http.StatusBadRequest,
	KindConflict:           http.StatusBadRequest,
	KindUnauthenticated:    http.StatusUnauthorized,
	KindTokenExpired:       http.StatusUnauthorized,
	KindInvalidCredentials: http.StatusUnauthorized,
	KindForbidden:          http.StatusForbidden,
	KindNotFound:           http.StatusNotFound,
	KindInternal:           http.StatusInternalServerError,
	KindBusy:               http.StatusServiceUnavailable,
	KindTimeout:            http.StatusGatewayTimeout,
}

// KindMsgMap 默认文案
var KindMsgMap = map[Kind]string{
	KindInvalidInput:       "Bad Request",
	KindConflict:           "Conflict",
	KindUnauthenticated:    "Unauthorized",
	KindTokenExpired:       "Token expired",
	KindInvalidCredentials: "Invalid email or password",
	KindForbidden:          "Forbidden",
	KindNotFound:           "Not Found",
	KindInternal:           "Internal server error",
	KindBusy:               "Server busy",
	KindTimeout:            "Request timeout",
}

func (k Kind) Status() int {
	if s, ok := kindStatus[k]; ok {
		return s
	}
	return http.StatusInternalServerError
}
