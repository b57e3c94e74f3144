package handler

import (
	"Ninety/config"
	"Ninety/middleware"
	"Ninety/pkg/context"
	"Ninety/pkg/jwt"
	"Ninety/pkg/response"
	"Ninety/service"
	"Ninety/types"

	"github.com/gin-gonic/gin"
)

// Token 机器端：投币后申请积分二维码
type Token struct {
	Config       *config.Config
	TokenService service.ITokenService
}

func (t *Token) RegisterRouter(r gin.IRouter) {
	g := r.Group("/v1/tokens", middleware.Auth([]byte(t.Config.Jwt.Secret), jwt.RoleMachine))
	g.POST("", context.Wrap(t.Issue))
}

func (t *Token) Issue(c *gin.Context) error {
	var req types.IssueTokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(response.CodeInvalidInput, "参数格式错误: "+err.Error())
	}
	machineID, err := context.GetSubject(c)
	if err != nil {
		return response.NewError(response.CodeUnauthorized, err.Error())
	}

	resp, err := t.TokenService.IssueToken(c.Request.Context(), req.Amount, machineID)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}
