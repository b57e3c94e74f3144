package process

import (
	"Ninety/config"
	"Ninety/pkg/line"
	"Ninety/pkg/log"
	"Ninety/service"
	"context"
	"errors"

	"github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/consumer"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// NotifyConsumer 消费 notify topic，调用 LINE push
type NotifyConsumer struct {
	Config   *config.Config
	Consumer rocketmq.PushConsumer
	Line     service.Pusher
}

func (n *NotifyConsumer) Init() error {
	selector := consumer.MessageSelector{}
	return n.Consumer.Subscribe(n.Config.Notify.Topic, selector, n.handle)
}

func (n *NotifyConsumer) Setup(ctx context.Context) error {
	if err := n.Consumer.Start(); err != nil {
		return err
	}
	log.L.Info("notify consumer started", zap.String("topic", n.Config.Notify.Topic))

	<-ctx.Done()
	log.L.Info("正在优雅关闭 RocketMQ 消费者...")
	return n.Consumer.Shutdown()
}

func (n *NotifyConsumer) handle(ctx context.Context, msgs ...*primitive.MessageExt) (consumer.ConsumeResult, error) {
	for _, msg := range msgs {
		if err := n.deliver(ctx, msg.Body); err != nil {
			log.L.Warn("deliver notification", zap.String("msg_id", msg.MsgId), zap.Error(err))
			// 失败交给 MQ 重投
			return consumer.ConsumeRetryLater, nil
		}
	}
	return consumer.ConsumeSuccess, nil
}

// deliver 不可重试的错误（消息格式、4xx）直接丢弃
func (n *NotifyConsumer) deliver(ctx context.Context, body []byte) error {
	var msg service.NotifyMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		log.L.Error("unmarshal notification", zap.Error(err))
		return nil
	}
	if msg.To == "" || msg.Text == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, n.Config.Notify.Timeout)
	defer cancel()

	err := n.Line.Push(ctx, msg.To, msg.Text)
	var apiErr *line.APIError
	if errors.As(err, &apiErr) && apiErr.Status < 500 {
		log.L.Warn("line rejected notification", zap.String("to", msg.To), zap.Int("status", apiErr.Status))
		return nil
	}
	if errors.Is(err, line.ErrNotConfigured) {
		return nil
	}
	return err
}
