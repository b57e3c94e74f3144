package response

import (
	"github.com/gin-gonic/gin"
)

// 业务错误码，HTTP 状态码仍为 200，由 code 区分
const (
	CodeOK             = 0
	CodeInvalidInput   = 4000
	CodeUnauthorized   = 4010
	CodeForbidden      = 4030
	CodeNotFound       = 4040
	CodeTokenUsed      = 4091
	CodeInsufficient   = 4092
	CodeNoPending      = 4093
	CodeRequestExpired = 4094
	CodeLastAdmin      = 4095
	CodeCreditFailed   = 5001
	CodeInternal       = 5000
)

type BizError struct {
	Code int
	Msg  string
}

func (e *BizError) Error() string {
	return e.Msg
}

func NewError(code int, msg string) *BizError {
	return &BizError{
		Code: code,
		Msg:  msg,
	}
}

func Abort(c *gin.Context, httpStatus int, msg string) {
	c.AbortWithStatusJSON(httpStatus, Response{
		Code: httpStatus,
		Msg:  msg,
		Data: nil,
	})
}
