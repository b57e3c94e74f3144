package cache

import (
	"Ninety/config"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rds := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rds.Close() })
	return mr, rds
}

func TestConversation_TakeOnce(t *testing.T) {
	ctx := context.Background()
	_, rds := newTestRedis(t)
	conv := NewConversationStorage(rds, &config.Ledger{ConversationTTL: time.Minute})

	if err := conv.Set(ctx, "U1", StepSetRatio); err != nil {
		t.Fatal(err)
	}
	step, err := conv.Take(ctx, "U1")
	if err != nil || step != StepSetRatio {
		t.Fatalf("take = %q, %v", step, err)
	}
	step, err = conv.Take(ctx, "U1")
	if err != nil || step != "" {
		t.Fatalf("second take = %q, %v", step, err)
	}
}

func TestConversation_Expires(t *testing.T) {
	ctx := context.Background()
	mr, rds := newTestRedis(t)
	conv := NewConversationStorage(rds, &config.Ledger{ConversationTTL: time.Minute})

	_ = conv.Set(ctx, "U1", StepAddAdmin)
	mr.FastForward(2 * time.Minute)

	step, err := conv.Take(ctx, "U1")
	if err != nil || step != "" {
		t.Fatalf("expired take = %q, %v", step, err)
	}
}

func TestLock_Exclusive(t *testing.T) {
	ctx := context.Background()
	mr, rds := newTestRedis(t)
	a := NewLockStorage(rds)
	b := NewLockStorage(rds)

	ok, err := a.TryLock(ctx, "sweep", 10*time.Second)
	if err != nil || !ok {
		t.Fatalf("a lock = %v, %v", ok, err)
	}
	ok, _ = b.TryLock(ctx, "sweep", 10*time.Second)
	if ok {
		t.Fatal("b should not get the lock")
	}

	// 非持有者解锁无效
	_ = b.Unlock(ctx, "sweep")
	if !mr.Exists("ninety:lock:sweep") {
		t.Fatal("lock released by non owner")
	}

	if err := a.Unlock(ctx, "sweep"); err != nil {
		t.Fatal(err)
	}
	ok, _ = b.TryLock(ctx, "sweep", 10*time.Second)
	if !ok {
		t.Fatal("b should get the lock after unlock")
	}
}
