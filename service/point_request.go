package service

import (
	"Ninety/config"
	"Ninety/dao"
	"Ninety/models"
	"Ninety/pkg/log"
	"Ninety/pkg/snowflake"
	"Ninety/pkg/utils"
	"Ninety/types"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PointRequestService struct {
	Config          *config.Config
	DB              *gorm.DB
	PointRequestDAO *dao.PointRequest
	MemberDAO       *dao.Member
	PointDAO        *dao.Point
	TokenDAO        *dao.Token
	AdminDAO        *dao.Admin
	Codec           *utils.HashID
	Notifier        Notifier
	Clock           Clock
}

var _ IPointRequestService = (*PointRequestService)(nil)

type IPointRequestService interface {
	// RequestPoints 会员申请补分，同一会员只保留最新一条
	RequestPoints(ctx context.Context, lineUserID string, points int64) (*types.PointRequestItem, error)
	ApproveRequest(ctx context.Context, requestID int64) (*types.ApproveResp, error)
	// ApproveByCode 管理员使用列表中的申请号审批
	ApproveByCode(ctx context.Context, code string) (*types.ApproveResp, error)
	ListRequests(ctx context.Context, limit int) ([]types.PointRequestItem, error)
}

// NewRequestCodec 申请号对外编码
func NewRequestCodec(conf *config.Ledger) (*utils.HashID, error) {
	return utils.NewHashID(conf.HashSalt)
}

func (p *PointRequestService) RequestPoints(ctx context.Context, lineUserID string, points int64) (*types.PointRequestItem, error) {
	if lineUserID == "" || points <= 0 || points > p.Config.Ledger.MaxRequestPoints {
		return nil, ErrInvalidInput
	}

	req := &models.PointRequest{
		ID:         snowflake.GenID(),
		LineUserID: lineUserID,
		Points:     points,
		RequestAt:  p.Clock(),
	}
	err := p.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return p.PointRequestDAO.With(tx).Replace(ctx, req)
	})
	if err != nil {
		return nil, fmt.Errorf("保存加分申请失败: %w", err)
	}

	item := p.toItem(req)
	p.notifyAdmins(ctx, fmt.Sprintf("คำขอแต้มใหม่ %d แต้ม จาก %s\nAPPROVE_ID %s", points, lineUserID, item.Code))
	return &item, nil
}

func (p *PointRequestService) ApproveByCode(ctx context.Context, code string) (*types.ApproveResp, error) {
	id, err := p.Codec.Decode(code)
	if err != nil {
		return nil, ErrRequestNotFound
	}
	return p.ApproveRequest(ctx, id)
}

func (p *PointRequestService) ApproveRequest(ctx context.Context, requestID int64) (*types.ApproveResp, error) {
	req, err := p.PointRequestDAO.FindByID(ctx, requestID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}

	now := p.Clock()
	if window := p.Config.Ledger.RequestWindow; window > 0 && now.Sub(req.RequestAt) > window {
		return nil, ErrRequestExpired
	}

	var balance int64
	err = p.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 删除成功的审批才入账，并发审批只有一个生效
		rows, err := p.PointRequestDAO.With(tx).DeleteByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrRequestNotFound
		}

		// 写一条已使用的手工 token，审批加分出现在积分历史中
		usedBy := req.LineUserID
		err = p.TokenDAO.With(tx).Create(ctx, &models.EarnToken{
			Token:     "MANUAL-" + uuid.NewString(),
			MachineID: models.MachineAdmin,
			PointGet:  req.Points,
			IsUsed:    true,
			UsedBy:    &usedBy,
			UsedAt:    &now,
			CreatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("写入审批记录失败: %w", err)
		}

		balance, err = credit(ctx, p.MemberDAO.With(tx), p.PointDAO.With(tx), req.LineUserID, req.Points, ledgerEntry{
			ChangeType: models.TypeApprove,
			SourceID:   strconv.FormatInt(req.ID, 10),
			Remark:     "管理员审批加分",
			At:         now,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	log.L.Info("point request approved", zap.Int64("id", req.ID), zap.String("user", req.LineUserID), zap.Int64("points", req.Points))
	pointsEarnedTotal.WithLabelValues("approve").Add(float64(req.Points))
	notifyQuietly(ctx, p.Notifier, p.Config.Notify.Timeout, req.LineUserID,
		fmt.Sprintf("ได้รับ +%d แต้ม จากแอดมิน คงเหลือ %d แต้ม", req.Points, balance))

	return &types.ApproveResp{
		LineUserID: req.LineUserID,
		Points:     req.Points,
		NewBalance: balance,
	}, nil
}

func (p *PointRequestService) ListRequests(ctx context.Context, limit int) ([]types.PointRequestItem, error) {
	if limit <= 0 {
		limit = 20
	}
	// 超出审批窗口的申请不再展示
	var since time.Time
	if window := p.Config.Ledger.RequestWindow; window > 0 {
		since = p.Clock().Add(-window)
	}

	list, err := p.PointRequestDAO.ListSince(ctx, since, limit)
	if err != nil {
		return nil, fmt.Errorf("查询加分申请失败: %w", err)
	}
	items := make([]types.PointRequestItem, 0, len(list))
	for i := range list {
		items = append(items, p.toItem(&list[i]))
	}
	return items, nil
}

func (p *PointRequestService) toItem(req *models.PointRequest) types.PointRequestItem {
	return types.PointRequestItem{
		Code:       p.Codec.Encode(req.ID),
		LineUserID: req.LineUserID,
		Points:     req.Points,
		RequestAt:  req.RequestAt.Format("2006-01-02 15:04:05"),
	}
}

func (p *PointRequestService) notifyAdmins(ctx context.Context, text string) {
	admins, err := p.AdminDAO.List(ctx)
	if err != nil {
		log.L.Warn("list admins for notify", zap.Error(err))
		return
	}
	for _, admin := range admins {
		notifyQuietly(ctx, p.Notifier, p.Config.Notify.Timeout, admin.LineUserID, text)
	}
}
