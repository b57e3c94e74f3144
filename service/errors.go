package service

import "Ninety/pkg/response"

// 业务错误，handler 层经 context.Wrap 原样返回 code
var (
	ErrInvalidInput              = response.NewError(response.CodeInvalidInput, "参数错误")
	ErrTokenAlreadyUsedOrInvalid = response.NewError(response.CodeTokenUsed, "二维码无效或已被使用")
	ErrCreditFailed              = response.NewError(response.CodeCreditFailed, "积分入账失败，请重试")
	ErrMemberNotFound            = response.NewError(response.CodeNotFound, "会员不存在")
	ErrInsufficientBalance       = response.NewError(response.CodeInsufficient, "积分余额不足")
	ErrNoPendingTransaction      = response.NewError(response.CodeNoPending, "该机器没有待确认的兑换")
	ErrNoPendingRedemption       = response.NewError(response.CodeNoPending, "没有可退回的兑换")
	ErrRequestNotFound           = response.NewError(response.CodeNotFound, "加分申请不存在或已处理")
	ErrRequestExpired            = response.NewError(response.CodeRequestExpired, "加分申请已过期")
	ErrAdminNotFound             = response.NewError(response.CodeNotFound, "管理员不存在")
	ErrLastAdmin                 = response.NewError(response.CodeLastAdmin, "不能删除最后一个管理员")
)
