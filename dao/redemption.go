package dao

import (
	"Ninety/models"
	"context"
	"time"

	"gorm.io/gorm"
)

type Redemption struct {
	Repo[models.RedemptionLog]
}

func NewRedemption(db *gorm.DB) *Redemption {
	return &Redemption{Repo: NewRepo[models.RedemptionLog](db)}
}

func (r *Redemption) With(tx *gorm.DB) *Redemption {
	return NewRedemption(tx)
}

// LatestPendingByMember 找不到时返回 gorm.ErrRecordNotFound
func (r *Redemption) LatestPendingByMember(ctx context.Context, memberID int64) (*models.RedemptionLog, error) {
	var log models.RedemptionLog
	err := r.Db.WithContext(ctx).
		Where("member_id = ? AND status = ?", memberID, models.RedeemPending).
		Order("created_at DESC").Order("id DESC").
		First(&log).Error
	return &log, err
}

func (r *Redemption) LatestPendingByMachine(ctx context.Context, machineID string) (*models.RedemptionLog, error) {
	var log models.RedemptionLog
	err := r.Db.WithContext(ctx).
		Where("machine_id = ? AND status = ?", machineID, models.RedeemPending).
		Order("created_at DESC").Order("id DESC").
		First(&log).Error
	return &log, err
}

// Transition 只有当前状态仍为 from 时才更新，返回受影响行数
func (r *Redemption) Transition(ctx context.Context, id int64, from, to string) (int64, error) {
	result := r.Model(ctx).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}

// ListExpired 超时未确认的 pending 记录，带上会员的 LINE id 用于通知
func (r *Redemption) ListExpired(ctx context.Context, before time.Time, limit int) ([]models.RedemptionLog, error) {
	var logs []models.RedemptionLog
	err := r.Db.WithContext(ctx).
		Table("redeem_logs").
		Select("redeem_logs.*, members.line_user_id").
		Joins("LEFT JOIN members ON members.id = redeem_logs.member_id").
		Where("redeem_logs.status = ? AND redeem_logs.created_at < ?", models.RedeemPending, before).
		Order("redeem_logs.created_at ASC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
