package handler

import (
	"Ninety/config"
	"Ninety/middleware"
	"Ninety/pkg/context"
	"Ninety/pkg/response"
	"Ninety/service"
	"Ninety/types"

	"github.com/gin-gonic/gin"
)

// Point 会员端（LIFF）积分接口
type Point struct {
	Config            *config.Config
	Verifier          middleware.IDTokenVerifier
	PointService      service.IPointService
	TokenService      service.ITokenService
	RedemptionService service.IRedemptionService
}

func (p *Point) RegisterRouter(r gin.IRouter) {
	pointGroup := r.Group("/v1/points")
	if p.Config.Line.LoginChannelID != "" {
		pointGroup.Use(middleware.MemberAuth(p.Verifier))
	}
	pointGroup.POST("/claim", context.Wrap(p.Claim))
	pointGroup.POST("/redeem", context.Wrap(p.Redeem))
	pointGroup.POST("/refund", context.Wrap(p.Refund))
	pointGroup.GET("/balance", context.Wrap(p.Balance))
	pointGroup.GET("/records", context.Wrap(p.GetRecords))
}

// member 开启 LIFF 校验时，请求里的 line_user_id 必须与 ID token 一致
func member(c *gin.Context, claimed string) (string, error) {
	if role, _ := c.Get(context.CtxRole); role != middleware.RoleMember {
		return claimed, nil
	}
	subject, err := context.GetSubject(c)
	if err != nil {
		return "", response.NewError(response.CodeUnauthorized, err.Error())
	}
	if subject != claimed {
		return "", response.NewError(response.CodeForbidden, "line_user_id 与登录身份不一致")
	}
	return subject, nil
}

func (p *Point) Claim(c *gin.Context) error {
	var req types.ClaimTokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(response.CodeInvalidInput, "参数格式错误: "+err.Error())
	}
	lineUserID, err := member(c, req.LineUserID)
	if err != nil {
		return err
	}
	resp, err := p.TokenService.ClaimToken(c.Request.Context(), req.Token, lineUserID)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (p *Point) Redeem(c *gin.Context) error {
	var req types.RedeemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(response.CodeInvalidInput, "参数格式错误: "+err.Error())
	}
	lineUserID, err := member(c, req.LineUserID)
	if err != nil {
		return err
	}
	resp, err := p.RedemptionService.Redeem(c.Request.Context(), lineUserID, req.Points, req.MachineID)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (p *Point) Refund(c *gin.Context) error {
	var req types.RefundReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(response.CodeInvalidInput, "参数格式错误: "+err.Error())
	}
	lineUserID, err := member(c, req.LineUserID)
	if err != nil {
		return err
	}
	resp, err := p.RedemptionService.RefundLatestPending(c.Request.Context(), lineUserID)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (p *Point) Balance(c *gin.Context) error {
	var req types.BalanceReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return response.NewError(response.CodeInvalidInput, "参数格式错误: "+err.Error())
	}
	lineUserID, err := member(c, req.LineUserID)
	if err != nil {
		return err
	}
	resp, err := p.PointService.GetBalance(c.Request.Context(), lineUserID)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (p *Point) GetRecords(c *gin.Context) error {
	var req types.ListPointRecordsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return response.NewError(response.CodeInvalidInput, "参数格式错误: "+err.Error())
	}
	lineUserID, err := member(c, req.LineUserID)
	if err != nil {
		return err
	}
	resp, err := p.PointService.ListPointRecords(c.Request.Context(), lineUserID, req.Action, req.Cursor, req.Limit)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}
