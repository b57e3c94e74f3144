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

// Request 补分申请：会员提交，管理员审批
type Request struct {
	Config              *config.Config
	Verifier            middleware.IDTokenVerifier
	PointRequestService service.IPointRequestService
}

func (h *Request) RegisterRouter(r gin.IRouter) {
	g := r.Group("/v1/requests")
	create := []gin.HandlerFunc{context.Wrap(h.Create)}
	if h.Config.Line.LoginChannelID != "" {
		create = append([]gin.HandlerFunc{middleware.MemberAuth(h.Verifier)}, create...)
	}
	g.POST("", create...)

	admin := g.Group("", middleware.Auth([]byte(h.Config.Jwt.Secret), jwt.RoleAdmin))
	admin.GET("", context.Wrap(h.List))
	admin.POST("/:code/approve", context.Wrap(h.Approve))
}

func (h *Request) Create(c *gin.Context) error {
	var req types.PointRequestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(response.CodeInvalidInput, "参数格式错误: "+err.Error())
	}
	lineUserID, err := member(c, req.LineUserID)
	if err != nil {
		return err
	}
	item, err := h.PointRequestService.RequestPoints(c.Request.Context(), lineUserID, req.Points)
	if err != nil {
		return err
	}
	response.Success(c, item)
	return nil
}

func (h *Request) List(c *gin.Context) error {
	var req types.ListRequestsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return response.NewError(response.CodeInvalidInput, "参数格式错误: "+err.Error())
	}
	items, err := h.PointRequestService.ListRequests(c.Request.Context(), req.Limit)
	if err != nil {
		return err
	}
	response.Success(c, items)
	return nil
}

func (h *Request) Approve(c *gin.Context) error {
	resp, err := h.PointRequestService.ApproveByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}
