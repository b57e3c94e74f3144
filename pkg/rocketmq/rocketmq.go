package rocketmq

import (
	"Ninety/config"
	"Ninety/pkg/log"
	"context"
	"fmt"

	"github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/consumer"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/apache/rocketmq-client-go/v2/producer"
	"github.com/apache/rocketmq-client-go/v2/rlog"
	"go.uber.org/zap"
)

func init() {
	rlog.SetLogLevel("error")
}

// Publisher 只暴露投递能力，方便在 service 层替换成假的实现
type Publisher interface {
	Publish(ctx context.Context, topic, key string, body []byte) error
}

type Rocketmq struct {
	RocketmqProducer rocketmq.Producer
}

var _ Publisher = (*Rocketmq)(nil)

// InitProducer 未配置 nameserver 时返回 nil，调用方退化为直接推送
func InitProducer(cfg *config.RocketMQConfig) *Rocketmq {
	if !cfg.Enabled() {
		return nil
	}
	retry := cfg.Producer.Retry
	if retry <= 0 {
		retry = 2
	}
	p, err := rocketmq.NewProducer(
		producer.WithNameServer(cfg.NameServer),
		producer.WithGroupName(cfg.Producer.Group),
		producer.WithRetry(retry),
	)
	if err != nil {
		log.L.Fatal("init rocketmq producer", zap.Error(err))
	}
	if err = p.Start(); err != nil {
		log.L.Fatal("start rocketmq producer", zap.Error(err))
	}
	log.L.Info("init producer success")

	return &Rocketmq{RocketmqProducer: p}
}

func InitConsumer(cfg *config.RocketMQConfig) (rocketmq.PushConsumer, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("rocketmq nameserver not configured")
	}
	return rocketmq.NewPushConsumer(
		consumer.WithNameServer(cfg.NameServer),
		consumer.WithGroupName(cfg.Consumer.Group),
		consumer.WithConsumeFromWhere(consumer.ConsumeFromLastOffset),
	)
}

func (p *Rocketmq) Publish(ctx context.Context, topic, key string, body []byte) error {
	msg := primitive.NewMessage(topic, body)
	if key != "" {
		msg.WithKeys([]string{key})
	}

	// 发送同步消息
	res, err := p.RocketmqProducer.SendSync(ctx, msg)
	if err != nil {
		return err
	}
	log.L.Debug("send message success", zap.String("topic", topic), zap.String("msg_id", res.MsgID))
	return nil
}

func (p *Rocketmq) Shutdown() error {
	return p.RocketmqProducer.Shutdown()
}
