package process

import (
	"Ninety/config"
	"Ninety/dao/cache"
	"Ninety/pkg/line"
	"Ninety/service"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/apache/rocketmq-client-go/v2/consumer"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

type fakeSweeper struct {
	service.IRedemptionService
	calls atomic.Int32
}

func (f *fakeSweeper) SweepExpiredPending(context.Context) (int, error) {
	f.calls.Add(1)
	return 2, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	conf, err := config.Parse([]byte("ledger:\n  sweep_interval: 20ms\n"))
	if err != nil {
		t.Fatal(err)
	}
	return conf
}

func TestReaper_RunOnceHoldsLock(t *testing.T) {
	mr := miniredis.RunT(t)
	rds := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rds.Close()
	ctx := context.Background()

	sweeper := &fakeSweeper{}
	reaper := &Reaper{Config: testConfig(t), RedemptionService: sweeper, Lock: cache.NewLockStorage(rds)}

	n, err := reaper.RunOnce(ctx)
	if err != nil || n != 2 {
		t.Fatalf("run once = %d, %v", n, err)
	}

	// 其他实例持有锁时跳过本轮
	other := cache.NewLockStorage(rds)
	if ok, _ := other.TryLock(ctx, sweepLockName, time.Minute); !ok {
		t.Fatal("lock should be released after run")
	}
	n, _ = reaper.RunOnce(ctx)
	if n != 0 || sweeper.calls.Load() != 1 {
		t.Fatalf("run while locked = %d, calls = %d", n, sweeper.calls.Load())
	}
}

func TestReaper_RunsUntilCancelled(t *testing.T) {
	sweeper := &fakeSweeper{}
	server := NewServer(&SubServers{Reaper: &Reaper{Config: testConfig(t), RedemptionService: sweeper}})
	if len(server.items) != 1 {
		t.Fatalf("items = %d, want 1 (nil consumer skipped)", len(server.items))
	}

	ctx, cancel := context.WithCancel(context.Background())
	eg := &errgroup.Group{}
	if err := server.Start(eg, ctx); err != nil {
		t.Fatal(err)
	}
	time.Sleep(120 * time.Millisecond)
	cancel()
	if err := eg.Wait(); err != nil {
		t.Fatal(err)
	}
	if sweeper.calls.Load() == 0 {
		t.Fatal("reaper never swept")
	}
}

type fakePusher struct {
	err  error
	sent []string
}

func (f *fakePusher) Push(_ context.Context, to, text string) error {
	f.sent = append(f.sent, to+":"+text)
	return f.err
}

func notifyBody(t *testing.T, to, text string) *primitive.MessageExt {
	t.Helper()
	body, err := json.Marshal(service.NotifyMessage{To: to, Text: text})
	if err != nil {
		t.Fatal(err)
	}
	return &primitive.MessageExt{Message: primitive.Message{Body: body}, MsgId: "m1"}
}

func TestNotifyConsumer_Handle(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want consumer.ConsumeResult
	}{
		{name: "delivered", want: consumer.ConsumeSuccess},
		{name: "client error dropped", err: &line.APIError{Status: 400}, want: consumer.ConsumeSuccess},
		{name: "not configured dropped", err: line.ErrNotConfigured, want: consumer.ConsumeSuccess},
		{name: "server error retried", err: &line.APIError{Status: 503}, want: consumer.ConsumeRetryLater},
		{name: "network error retried", err: errors.New("timeout"), want: consumer.ConsumeRetryLater},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pusher := &fakePusher{err: tt.err}
			n := &NotifyConsumer{Config: testConfig(t), Line: pusher}
			got, err := n.handle(context.Background(), notifyBody(t, "U1", "hi"))
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("result = %v, want %v", got, tt.want)
			}
			if len(pusher.sent) != 1 || pusher.sent[0] != "U1:hi" {
				t.Errorf("sent = %v", pusher.sent)
			}
		})
	}
}

func TestNotifyConsumer_BadBodyDropped(t *testing.T) {
	pusher := &fakePusher{}
	n := &NotifyConsumer{Config: testConfig(t), Line: pusher}
	msg := &primitive.MessageExt{Message: primitive.Message{Body: []byte("{bad")}}
	got, _ := n.handle(context.Background(), msg)
	if got != consumer.ConsumeSuccess || len(pusher.sent) != 0 {
		t.Fatalf("result = %v, sent = %v", got, pusher.sent)
	}
}
