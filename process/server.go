package process

import (
	"Ninety/pkg/log"
	"context"
	"reflect"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type IServer interface {
	Init() error
	Setup(ctx context.Context) error
}

// SubServers 后台任务列表，未注入的任务为 nil 时跳过
type SubServers struct {
	Reaper         *Reaper         // 超时兑换自动退回
	NotifyConsumer *NotifyConsumer // RocketMQ 通知消费
}

type Server struct {
	items []IServer
	SubServers
}

func NewServer(servers *SubServers) *Server {
	s := &Server{SubServers: *servers}
	s.binds(servers)
	return s
}

func (c *Server) binds(servers *SubServers) {
	elem := reflect.ValueOf(servers).Elem()
	for i := 0; i < elem.NumField(); i++ {
		field := elem.Field(i)
		if field.Kind() == reflect.Ptr && field.IsNil() {
			continue
		}
		if v, ok := field.Interface().(IServer); ok {
			c.items = append(c.items, v)
		}
	}
}

// Start 初始化并在 errgroup 中运行所有任务，ctx 取消后退出
func (c *Server) Start(eg *errgroup.Group, ctx context.Context) error {
	for _, process := range c.items {
		if err := process.Init(); err != nil {
			return err
		}
	}

	for _, process := range c.items {
		serv := process
		eg.Go(func() error {
			return serv.Setup(ctx)
		})
	}
	log.L.Info("background process started", zap.Int("count", len(c.items)))
	return nil
}
