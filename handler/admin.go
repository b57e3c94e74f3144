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

type Admin struct {
	Config       *config.Config
	AdminService service.IAdminService
}

func (a *Admin) RegisterRouter(r gin.IRouter) {
	g := r.Group("/v1/admin", middleware.Auth([]byte(a.Config.Jwt.Secret), jwt.RoleAdmin))
	g.GET("/ratio", context.Wrap(a.GetRatio))
	g.PUT("/ratio", context.Wrap(a.SetRatio))
	g.GET("/admins", context.Wrap(a.ListAdmins))
}

func (a *Admin) GetRatio(c *gin.Context) error {
	ratio, err := a.AdminService.GetExchangeRatio(c.Request.Context())
	if err != nil {
		return err
	}
	response.Success(c, ratio)
	return nil
}

func (a *Admin) SetRatio(c *gin.Context) error {
	var req types.ExchangeRatio
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(response.CodeInvalidInput, "参数格式错误: "+err.Error())
	}
	if err := a.AdminService.SetExchangeRatio(c.Request.Context(), req.BahtVal, req.PointVal); err != nil {
		return err
	}
	response.Success(c, req)
	return nil
}

func (a *Admin) ListAdmins(c *gin.Context) error {
	admins, err := a.AdminService.ListAdmins(c.Request.Context())
	if err != nil {
		return err
	}
	response.Success(c, admins)
	return nil
}
