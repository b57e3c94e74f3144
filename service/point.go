package service

import (
	"Ninety/dao"
	"Ninety/models"
	"Ninety/types"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PointService struct {
	MemberDAO *dao.Member
	PointDAO  *dao.Point
}

var _ IPointService = (*PointService)(nil)

type IPointService interface {
	GetBalance(ctx context.Context, lineUserID string) (*types.PointsAccount, error)
	ListPointRecords(ctx context.Context, lineUserID string, action string, cursor int64, limit int) (*types.ListPointsRecord, error)
}

// GetBalance 未知会员返回 0
func (p *PointService) GetBalance(ctx context.Context, lineUserID string) (*types.PointsAccount, error) {
	if lineUserID == "" {
		return nil, ErrInvalidInput
	}
	member, err := p.MemberDAO.FindByLineUserID(ctx, lineUserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &types.PointsAccount{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询会员失败: %w", err)
	}

	account, err := p.PointDAO.GetWallet(ctx, member.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &types.PointsAccount{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询积分账户失败: %w", err)
	}
	return &types.PointsAccount{
		Balance:     account.PointBalance,
		TotalEarned: account.TotalEarned,
		TotalUsed:   account.TotalUsed,
	}, nil
}

func (p *PointService) ListPointRecords(ctx context.Context, lineUserID string, action string, cursor int64, limit int) (*types.ListPointsRecord, error) {
	resp := &types.ListPointsRecord{
		Records: make([]types.PointRecord, 0),
		HasMore: false,
	}
	if lineUserID == "" || limit <= 0 {
		return nil, ErrInvalidInput
	}

	member, err := p.MemberDAO.FindByLineUserID(ctx, lineUserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return resp, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询会员失败: %w", err)
	}

	logs, err := p.PointDAO.ListRecords(ctx, member.ID, action, cursor, limit+1)
	if err != nil {
		return nil, fmt.Errorf("查询积分流水失败: %w", err)
	}

	if len(logs) > limit {
		resp.HasMore = true
		logs = logs[:limit]
		resp.NextCursor = logs[len(logs)-1].ID
	}

	for _, l := range logs {
		orderType := "INCOME"
		if l.Amount < 0 {
			orderType = "EXPENSE"
		}
		resp.Records = append(resp.Records, types.PointRecord{
			ID:          l.ID,
			Amount:      l.Amount,
			Balance:     l.Balance,
			Description: l.Remark,
			OrderType:   orderType,
			ChangeType:  l.ChangeType,
			SourceID:    l.SourceID,
			CreatedAt:   l.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return resp, nil
}

// ledgerEntry 一次入账需要写入流水的信息
type ledgerEntry struct {
	ChangeType int8
	SourceID   string
	Remark     string
	Extra      datatypes.JSON
	At         time.Time
}

// credit 给会员入账（会员与钱包不存在时自动创建）并写流水，返回入账后余额。
// members / points 必须绑定在同一个事务上
func credit(ctx context.Context, members *dao.Member, points *dao.Point, lineUserID string, amount int64, entry ledgerEntry) (int64, error) {
	if amount < 0 {
		return 0, ErrInvalidInput
	}
	member, err := members.Ensure(ctx, lineUserID)
	if err != nil {
		return 0, fmt.Errorf("创建会员失败: %w", err)
	}
	if err := points.EnsureWallet(ctx, member.ID); err != nil {
		return 0, fmt.Errorf("创建钱包失败: %w", err)
	}
	if err := points.Credit(ctx, member.ID, amount); err != nil {
		return 0, fmt.Errorf("更新积分余额失败: %w", err)
	}
	return journal(ctx, points, member.ID, amount, entry)
}

// journal 读取变动后的余额并记录流水
func journal(ctx context.Context, points *dao.Point, memberID int64, amount int64, entry ledgerEntry) (int64, error) {
	balance, err := points.Balance(ctx, memberID)
	if err != nil {
		return 0, fmt.Errorf("查询余额失败: %w", err)
	}
	err = points.CreatePointLog(ctx, &models.PointLog{
		MemberID:   memberID,
		Amount:     amount,
		Balance:    balance,
		ChangeType: entry.ChangeType,
		SourceID:   entry.SourceID,
		Remark:     entry.Remark,
		Extra:      entry.Extra,
		CreatedAt:  entry.At,
	})
	if err != nil {
		return 0, fmt.Errorf("记录积分流水失败: %w", err)
	}
	return balance, nil
}

func extraJSON(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}
