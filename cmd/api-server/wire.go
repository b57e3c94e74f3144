//go:build wireinject
// +build wireinject

package main

import (
	"Ninety/config"
	"Ninety/dao"
	"Ninety/handler"
	"Ninety/middleware"
	"Ninety/pkg/client"
	"Ninety/pkg/database"
	"Ninety/pkg/line"
	"Ninety/pkg/rocketmq"
	"Ninety/pkg/server"
	"Ninety/process"
	"Ninety/service"

	"github.com/google/wire"
)

var baseSet = wire.NewSet(
	database.NewDB,
	client.NewRedisClient,
	config.ProvideRocketMQConfig,
	config.ProvideLineConfig,
	config.ProvideLedgerConfig,
	rocketmq.InitProducer,
	line.NewClient,
	dao.ProviderSet,
	service.ProviderSet,
)

func InitServer(cfg *config.Config) (*server.AppProvider, error) {
	wire.Build(
		baseSet,
		wire.Bind(new(handler.Replier), new(*line.Client)),
		wire.Bind(new(middleware.IDTokenVerifier), new(*line.Client)),
		wire.Struct(new(handler.Ops), "*"),
		wire.Struct(new(handler.Webhook), "*"),
		wire.Struct(new(handler.Token), "*"),
		wire.Struct(new(handler.Machine), "*"),
		wire.Struct(new(handler.Point), "*"),
		wire.Struct(new(handler.Request), "*"),
		wire.Struct(new(handler.Admin), "*"),
		wire.Struct(new(server.Handlers), "*"),
		server.NewGinEngine,

		wire.Struct(new(process.Reaper), "*"),
		wire.Struct(new(process.SubServers), "Reaper"),
		process.NewServer,

		wire.Struct(new(server.AppProvider), "*"),
	)
	return nil, nil
}

func InitSweeper(cfg *config.Config) *process.Reaper {
	wire.Build(
		baseSet,
		wire.Struct(new(process.Reaper), "*"),
	)
	return nil
}

func InitWorker(cfg *config.Config) (*process.Server, error) {
	wire.Build(
		config.ProvideRocketMQConfig,
		config.ProvideLineConfig,
		line.NewClient,
		rocketmq.InitConsumer,
		wire.Bind(new(service.Pusher), new(*line.Client)),
		wire.Struct(new(process.NotifyConsumer), "*"),
		wire.Struct(new(process.SubServers), "NotifyConsumer"),
		process.NewServer,
	)
	return nil, nil
}
