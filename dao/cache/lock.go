package cache

import (
	"context"
	"fmt"

	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// 只删除自己持有的锁
var unlockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

type LockStorage struct {
	redis *redis.Client
	owner string
}

func NewLockStorage(rds *redis.Client) *LockStorage {
	return &LockStorage{redis: rds, owner: uuid.NewString()}
}

// TryLock 抢占锁，false 表示其他节点持有
// @params name  锁名
// @params ttl   持有时长，进程崩溃时自动释放
func (l *LockStorage) TryLock(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	return l.redis.SetNX(ctx, l.name(name), l.owner, ttl).Result()
}

func (l *LockStorage) Unlock(ctx context.Context, name string) error {
	return unlockScript.Run(ctx, l.redis, []string{l.name(name)}, l.owner).Err()
}

// ninety:lock:name
func (l *LockStorage) name(name string) string {
	return fmt.Sprintf("ninety:lock:%s", name)
}
