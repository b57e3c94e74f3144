package cache

import (
	"Ninety/config"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 聊天多步指令的等待状态
const (
	StepSetRatio = "set_ratio"
	StepAddAdmin = "add_admin"
)

type ConversationStorage struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewConversationStorage(rds *redis.Client, conf *config.Ledger) *ConversationStorage {
	return &ConversationStorage{redis: rds, ttl: conf.ConversationTTL}
}

// Set 记录用户下一条消息应处理的步骤，过期后自动放弃
// @params uid   LINE 用户ID
// @params step  等待的步骤
func (c *ConversationStorage) Set(ctx context.Context, uid, step string) error {
	return c.redis.Set(ctx, c.name(uid), step, c.ttl).Err()
}

// Take 取出并清除等待状态，没有时返回空串
// @params uid   LINE 用户ID
func (c *ConversationStorage) Take(ctx context.Context, uid string) (string, error) {
	step, err := c.redis.GetDel(ctx, c.name(uid)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return step, err
}

// Clear 删除等待状态
// @params uid   LINE 用户ID
func (c *ConversationStorage) Clear(ctx context.Context, uid string) {
	c.redis.Del(ctx, c.name(uid))
}

// ninety:conv:uid
func (c *ConversationStorage) name(uid string) string {
	return fmt.Sprintf("ninety:conv:%s", uid)
}
