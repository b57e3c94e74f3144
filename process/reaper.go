package process

import (
	"Ninety/config"
	"Ninety/dao/cache"
	"Ninety/pkg/log"
	"Ninety/service"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const sweepLockName = "sweep"

// Reaper 定时退回超时未确认的兑换。
// 多实例部署时用 Redis 锁避免同一轮重复扫描，正确性由条件更新保证
type Reaper struct {
	Config            *config.Config
	RedemptionService service.IRedemptionService
	Lock              *cache.LockStorage
}

func (r *Reaper) Init() error {
	if r.Config.Ledger.SweepInterval <= 0 {
		return fmt.Errorf("invalid sweep interval %s", r.Config.Ledger.SweepInterval)
	}
	return nil
}

func (r *Reaper) Setup(ctx context.Context) error {
	ticker := time.NewTicker(r.Config.Ledger.SweepInterval)
	defer ticker.Stop()

	log.L.Info("reaper started", zap.Duration("interval", r.Config.Ledger.SweepInterval))
	for {
		select {
		case <-ctx.Done():
			log.L.Info("reaper stopped")
			return nil
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil {
				log.L.Error("sweep expired redemptions", zap.Error(err))
			}
		}
	}
}

// RunOnce 执行一轮清理；未抢到锁时返回 0
func (r *Reaper) RunOnce(ctx context.Context) (int, error) {
	if r.Lock != nil {
		ok, err := r.Lock.TryLock(ctx, sweepLockName, r.Config.Ledger.SweepInterval)
		if err != nil {
			// Redis 不可用时仍然清理
			log.L.Warn("sweep lock unavailable", zap.Error(err))
		} else if !ok {
			return 0, nil
		} else {
			defer func() {
				if err := r.Lock.Unlock(context.WithoutCancel(ctx), sweepLockName); err != nil {
					log.L.Warn("release sweep lock", zap.Error(err))
				}
			}()
		}
	}
	return r.RedemptionService.SweepExpiredPending(ctx)
}
