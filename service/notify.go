package service

import (
	"Ninety/config"
	"Ninety/pkg/line"
	"Ninety/pkg/log"
	"Ninety/pkg/rocketmq"
	"context"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Notifier 给会员或管理员发一条文本消息，失败不影响账本
type Notifier interface {
	Notify(ctx context.Context, to, text string) error
}

type Pusher interface {
	Push(ctx context.Context, to, text string) error
}

// NotifyMessage notify-worker 消费的消息体
type NotifyMessage struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

// DirectNotifier 同步调用 LINE push
type DirectNotifier struct {
	Line Pusher
}

func (d *DirectNotifier) Notify(ctx context.Context, to, text string) error {
	return d.Line.Push(ctx, to, text)
}

// QueueNotifier 投递到 RocketMQ，由 notify-worker 推送
type QueueNotifier struct {
	MQ    rocketmq.Publisher
	Topic string
}

func (q *QueueNotifier) Notify(ctx context.Context, to, text string) error {
	body, err := json.Marshal(NotifyMessage{To: to, Text: text})
	if err != nil {
		return err
	}
	return q.MQ.Publish(ctx, q.Topic, to, body)
}

func NewNotifier(conf *config.Config, client *line.Client, mq *rocketmq.Rocketmq) Notifier {
	if conf.Notify.Mode == config.NotifyMQ {
		if mq != nil {
			return &QueueNotifier{MQ: mq, Topic: conf.Notify.Topic}
		}
		log.L.Warn("notify mode mq without rocketmq, fall back to direct push")
	}
	return &DirectNotifier{Line: client}
}

// notifyQuietly 事务提交后调用；使用独立超时，不受请求取消影响
func notifyQuietly(ctx context.Context, n Notifier, timeout time.Duration, to, text string) {
	if n == nil || to == "" {
		return
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if err := n.Notify(ctx, to, text); err != nil {
		notifyFailuresTotal.Inc()
		log.L.Warn("notify failed", zap.String("to", to), zap.Error(err))
	}
}
