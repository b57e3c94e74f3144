package dao

import (
	"Ninety/models"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Point 钱包余额与积分流水
type Point struct {
	Repo[models.Wallet]
}

func NewPoint(db *gorm.DB) *Point {
	return &Point{
		Repo: NewRepo[models.Wallet](db),
	}
}

func (p *Point) With(tx *gorm.DB) *Point {
	return NewPoint(tx)
}

// EnsureWallet 新会员初始化余额为 0 的钱包
func (p *Point) EnsureWallet(ctx context.Context, memberID int64) error {
	return p.Db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "member_id"}},
		DoNothing: true,
	}).Create(&models.Wallet{MemberID: memberID}).Error
}

func (p *Point) GetWallet(ctx context.Context, memberID int64) (*models.Wallet, error) {
	return p.FindByWhere(ctx, "member_id = ?", memberID)
}

// Credit 入账，gorm.Expr 保证并发下的原子加减
func (p *Point) Credit(ctx context.Context, memberID int64, amount int64) error {
	return p.Model(ctx).
		Where("member_id = ?", memberID).
		Updates(map[string]interface{}{
			"point_balance": gorm.Expr("point_balance + ?", amount),
			"total_earned":  gorm.Expr("total_earned + ?", amount),
		}).Error
}

// Debit 余额充足时扣减，返回受影响行数；0 表示余额不足或钱包不存在
func (p *Point) Debit(ctx context.Context, memberID int64, amount int64) (int64, error) {
	result := p.Model(ctx).
		Where("member_id = ? AND point_balance >= ?", memberID, amount).
		Updates(map[string]interface{}{
			"point_balance": gorm.Expr("point_balance - ?", amount),
			"total_used":    gorm.Expr("total_used + ?", amount),
		})
	return result.RowsAffected, result.Error
}

// Restore 兑换退回，冲减 total_used
func (p *Point) Restore(ctx context.Context, memberID int64, amount int64) error {
	return p.Model(ctx).
		Where("member_id = ?", memberID).
		Updates(map[string]interface{}{
			"point_balance": gorm.Expr("point_balance + ?", amount),
			"total_used":    gorm.Expr("total_used - ?", amount),
		}).Error
}

func (p *Point) Balance(ctx context.Context, memberID int64) (int64, error) {
	var balance int64
	err := p.Model(ctx).Select("point_balance").Where("member_id = ?", memberID).Scan(&balance).Error
	return balance, err
}

func (p *Point) CreatePointLog(ctx context.Context, log *models.PointLog) error {
	return p.Db.WithContext(ctx).Create(log).Error
}

// ListRecords 分页筛选查询
func (p *Point) ListRecords(ctx context.Context, memberID int64, action string, cursor int64, limit int) ([]models.PointLog, error) {
	var logs []models.PointLog
	query := p.Db.WithContext(ctx).Where("member_id = ?", memberID)

	switch action {
	case "income":
		query = query.Where("amount > ?", 0)
	case "expense":
		query = query.Where("amount < ?", 0)
	}

	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}

	err := query.Order("id DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
