package service

import (
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewClock,
	NewNotifier,
	NewRequestCodec,

	wire.Struct(new(TokenService), "*"),
	wire.Bind(new(ITokenService), new(*TokenService)),

	wire.Struct(new(RedemptionService), "*"),
	wire.Bind(new(IRedemptionService), new(*RedemptionService)),

	wire.Struct(new(PointService), "*"),
	wire.Bind(new(IPointService), new(*PointService)),

	wire.Struct(new(PointRequestService), "*"),
	wire.Bind(new(IPointRequestService), new(*PointRequestService)),

	wire.Struct(new(AdminService), "*"),
	wire.Bind(new(IAdminService), new(*AdminService)),

	wire.Struct(new(ChatService), "*"),
	wire.Bind(new(IChatService), new(*ChatService)),
)
