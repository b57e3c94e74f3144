package handler

import (
	"Ninety/config"
	"Ninety/middleware"
	"Ninety/pkg/context"
	"Ninety/pkg/jwt"
	"Ninety/pkg/response"
	"Ninety/service"

	"github.com/gin-gonic/gin"
)

// Machine 机器启动后的确认回调
type Machine struct {
	Config            *config.Config
	RedemptionService service.IRedemptionService
}

func (m *Machine) RegisterRouter(r gin.IRouter) {
	g := r.Group("/v1/machines", middleware.Auth([]byte(m.Config.Jwt.Secret), jwt.RoleMachine))
	g.POST("/:machine_id/confirm", context.Wrap(m.Confirm))
}

func (m *Machine) Confirm(c *gin.Context) error {
	machineID := c.Param("machine_id")
	subject, err := context.GetSubject(c)
	if err != nil {
		return response.NewError(response.CodeUnauthorized, err.Error())
	}
	// 机器只能确认自己的兑换
	if subject != machineID {
		return response.NewError(response.CodeForbidden, "机器编号与 token 不一致")
	}

	if err := m.RedemptionService.ConfirmRedemption(c.Request.Context(), machineID); err != nil {
		return err
	}
	response.Success(c, gin.H{"machine_id": machineID})
	return nil
}
