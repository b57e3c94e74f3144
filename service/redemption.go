package service

import (
	"Ninety/config"
	"Ninety/dao"
	"Ninety/models"
	"Ninety/pkg/log"
	"Ninety/pkg/snowflake"
	"Ninety/types"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 单次清理最多处理的超时记录数，剩余的留给下一轮
const sweepBatch = 500

type RedemptionService struct {
	Config        *config.Config
	DB            *gorm.DB
	MemberDAO     *dao.Member
	PointDAO      *dao.Point
	RedemptionDAO *dao.Redemption
	Notifier      Notifier
	Clock         Clock
}

var _ IRedemptionService = (*RedemptionService)(nil)

type IRedemptionService interface {
	// Redeem 扣减积分并创建 pending 兑换，等待机器确认
	Redeem(ctx context.Context, lineUserID string, points int64, machineID string) (*types.RedeemResp, error)
	// ConfirmRedemption 机器启动后回调，最新的 pending 记录转为 success
	ConfirmRedemption(ctx context.Context, machineID string) error
	// RefundLatestPending 会员手动退回最近一次未确认的兑换
	RefundLatestPending(ctx context.Context, lineUserID string) (*types.RefundResp, error)
	// SweepExpiredPending 退回超时未确认的兑换，返回退回条数
	SweepExpiredPending(ctx context.Context) (int, error)
}

// NormalizeMachineID 兼容把机器二维码的完整链接当作机器编号传入
func NormalizeMachineID(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "machine_id=") {
		return raw
	}
	query := raw
	if i := strings.Index(raw, "?"); i >= 0 {
		query = raw[i+1:]
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return raw
	}
	return strings.TrimSpace(values.Get("machine_id"))
}

func (r *RedemptionService) Redeem(ctx context.Context, lineUserID string, points int64, machineID string) (*types.RedeemResp, error) {
	machineID = NormalizeMachineID(machineID)
	if lineUserID == "" || points <= 0 || machineID == "" {
		return nil, ErrInvalidInput
	}

	now := r.Clock()
	logID := snowflake.GenID()
	var balance int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member, err := r.MemberDAO.With(tx).FindByLineUserID(ctx, lineUserID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		if err != nil {
			return err
		}

		wallet := r.PointDAO.With(tx)
		// 条件扣减：余额不足时影响 0 行
		rows, err := wallet.Debit(ctx, member.ID, points)
		if err != nil {
			return fmt.Errorf("扣减积分失败: %w", err)
		}
		if rows == 0 {
			return ErrInsufficientBalance
		}

		err = r.RedemptionDAO.With(tx).Create(ctx, &models.RedemptionLog{
			ID:             logID,
			MemberID:       member.ID,
			MachineID:      machineID,
			PointsRedeemed: points,
			Status:         models.RedeemPending,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if err != nil {
			return fmt.Errorf("创建兑换记录失败: %w", err)
		}

		balance, err = journal(ctx, wallet, member.ID, -points, ledgerEntry{
			ChangeType: models.TypeRedeem,
			SourceID:   strconv.FormatInt(logID, 10),
			Remark:     "兑换机器 " + machineID,
			Extra:      extraJSON(map[string]any{"machine_id": machineID}),
			At:         now,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	pointsRedeemedTotal.Add(float64(points))
	redemptionsTotal.WithLabelValues(models.RedeemPending).Inc()
	notifyQuietly(ctx, r.Notifier, r.Config.Notify.Timeout, lineUserID,
		fmt.Sprintf("ใช้ %d แต้ม เครื่อง %s คงเหลือ %d แต้ม", points, machineID, balance))

	return &types.RedeemResp{
		RedemptionID: logID,
		NewBalance:   balance,
		Signal:       fmt.Sprintf("SUCCESS: MACHINE_%s_START", machineID),
	}, nil
}

func (r *RedemptionService) ConfirmRedemption(ctx context.Context, machineID string) error {
	machineID = NormalizeMachineID(machineID)
	if machineID == "" {
		return ErrInvalidInput
	}

	pending, err := r.RedemptionDAO.LatestPendingByMachine(ctx, machineID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.L.Info("confirm without pending redemption", zap.String("machine", machineID))
		return ErrNoPendingTransaction
	}
	if err != nil {
		return err
	}

	rows, err := r.RedemptionDAO.Transition(ctx, pending.ID, models.RedeemPending, models.RedeemSuccess)
	if err != nil {
		return err
	}
	if rows == 0 {
		// 同时被退回或被其他确认抢先
		log.L.Info("confirm lost race", zap.String("machine", machineID), zap.Int64("id", pending.ID))
		return ErrNoPendingTransaction
	}

	redemptionsTotal.WithLabelValues(models.RedeemSuccess).Inc()
	return nil
}

func (r *RedemptionService) RefundLatestPending(ctx context.Context, lineUserID string) (*types.RefundResp, error) {
	if lineUserID == "" {
		return nil, ErrInvalidInput
	}

	member, err := r.MemberDAO.FindByLineUserID(ctx, lineUserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}

	var (
		refunded *models.RedemptionLog
		balance  int64
	)
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pending, err := r.RedemptionDAO.With(tx).LatestPendingByMember(ctx, member.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoPendingRedemption
		}
		if err != nil {
			return err
		}
		refunded = pending
		balance, err = r.refund(ctx, tx, pending, models.TypeRefund, "手动退回")
		return err
	})
	if err != nil {
		return nil, err
	}

	redemptionsTotal.WithLabelValues(models.RedeemRefunded).Inc()
	notifyQuietly(ctx, r.Notifier, r.Config.Notify.Timeout, lineUserID,
		fmt.Sprintf("คืน %d แต้มแล้ว (เครื่อง %s) คงเหลือ %d แต้ม", refunded.PointsRedeemed, refunded.MachineID, balance))

	return &types.RefundResp{
		RefundedPoints: refunded.PointsRedeemed,
		MachineID:      refunded.MachineID,
		NewBalance:     balance,
	}, nil
}

// refund pending -> refunded 并退回积分，需在事务内调用
func (r *RedemptionService) refund(ctx context.Context, tx *gorm.DB, pending *models.RedemptionLog, changeType int8, remark string) (int64, error) {
	rows, err := r.RedemptionDAO.With(tx).Transition(ctx, pending.ID, models.RedeemPending, models.RedeemRefunded)
	if err != nil {
		return 0, err
	}
	if rows == 0 {
		return 0, ErrNoPendingRedemption
	}

	wallet := r.PointDAO.With(tx)
	if err := wallet.Restore(ctx, pending.MemberID, pending.PointsRedeemed); err != nil {
		return 0, fmt.Errorf("退回积分失败: %w", err)
	}
	return journal(ctx, wallet, pending.MemberID, pending.PointsRedeemed, ledgerEntry{
		ChangeType: changeType,
		SourceID:   strconv.FormatInt(pending.ID, 10),
		Remark:     remark,
		Extra:      extraJSON(map[string]any{"machine_id": pending.MachineID}),
		At:         r.Clock(),
	})
}

func (r *RedemptionService) SweepExpiredPending(ctx context.Context) (int, error) {
	cutoff := r.Clock().Add(-r.Config.Ledger.PendingTimeout)
	expired, err := r.RedemptionDAO.ListExpired(ctx, cutoff, sweepBatch)
	if err != nil {
		return 0, fmt.Errorf("查询超时兑换失败: %w", err)
	}
	if len(expired) == 0 {
		return 0, nil
	}

	var refunded atomic.Int64
	p := pool.New().WithMaxGoroutines(max(r.Config.Ledger.SweepWorkers, 1))
	for i := range expired {
		item := expired[i]
		p.Go(func() {
			// 每条记录独立事务，单条失败不影响其他记录
			err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				_, err := r.refund(ctx, tx, &item, models.TypeAutoRefund, "机器超时未确认，自动退回")
				return err
			})
			if errors.Is(err, ErrNoPendingRedemption) {
				// 已被确认或手动退回
				return
			}
			if err != nil {
				log.L.Error("auto refund failed", zap.Int64("id", item.ID), zap.Error(err))
				return
			}

			refunded.Add(1)
			redemptionsTotal.WithLabelValues("auto_refunded").Inc()
			notifyQuietly(ctx, r.Notifier, r.Config.Notify.Timeout, item.LineUserID,
				fmt.Sprintf("คืน %d แต้มอัตโนมัติ เนื่องจากเครื่อง %s ไม่ตอบสนอง", item.PointsRedeemed, item.MachineID))
		})
	}
	p.Wait()

	n := int(refunded.Load())
	if n > 0 {
		log.L.Info("auto refund done", zap.Int("refunded", n), zap.Int("expired", len(expired)))
	}
	return n, nil
}
