package context

import (
	"Ninety/pkg/log"
	"Ninety/pkg/response"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	CtxSubject = "subject"
	CtxRole    = "role"
	// 业务错误码，供指标中间件按结果分类
	CtxBizCode = "biz_code"
)

type HandlerFunc func(*gin.Context) error

func Wrap(h func(*gin.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h(c); err != nil {

			// 如果已经写过响应，直接返回
			if c.Writer.Written() {
				return
			}
			// 业务错误
			var be *response.BizError
			if errors.As(err, &be) {
				c.Set(CtxBizCode, be.Code)
				c.JSON(http.StatusOK, response.Response{
					Code: be.Code,
					Msg:  be.Msg,
				})
				return
			}
			c.Set(CtxBizCode, response.CodeInternal)
			log.L.Error("handler error", zap.String("path", c.FullPath()), zap.Error(err))
			c.JSON(http.StatusInternalServerError, response.Response{
				Code: response.CodeInternal,
				Msg:  "系统异常",
			})
		}
	}
}

// GetSubject 返回 JWT 中的主体（机器编号或管理员 LINE ID）
func GetSubject(c *gin.Context) (string, error) {
	v, ok := c.Get(CtxSubject)
	if !ok {
		return "", errors.New("subject 不存在")
	}

	sub, ok := v.(string)
	if !ok || sub == "" {
		return "", errors.New("subject 类型错误")
	}

	return sub, nil
}
