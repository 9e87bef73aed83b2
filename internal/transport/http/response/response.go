package response

import "github.com/gin-gonic/gin"

type ErrBody struct {
	Error string `json:"error"`
	Code  Kind   `json:"code"`
}

// Error 失败响应体（customMsg 为空时用默认文案）
func Error(kind Kind, customMsg string) ErrBody {
	msg := KindMsgMap[kind]
	if customMsg != "" {
		msg = customMsg
	}
	return ErrBody{Error: msg, Code: kind}
}

// Abort 写错误并终止后续 handler
func Abort(c *gin.Context, kind Kind, customMsg string) {
	c.AbortWithStatusJSON(kind.Status(), Error(kind, customMsg))
}
