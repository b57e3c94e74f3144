package service

import (
	"Ninety/config"
	"Ninety/dao"
	"Ninety/models"
	"Ninety/pkg/log"
	"Ninety/types"
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TokenService struct {
	Config    *config.Config
	DB        *gorm.DB
	TokenDAO  *dao.Token
	MemberDAO *dao.Member
	PointDAO  *dao.Point
	ConfigDAO *dao.SystemConfig
	Notifier  Notifier
	Clock     Clock
}

var _ ITokenService = (*TokenService)(nil)

type ITokenService interface {
	// IssueToken 机器按消费金额生成一次性积分二维码
	IssueToken(ctx context.Context, amount int64, machineID string) (*types.IssueTokenResp, error)
	// ClaimToken 会员扫码领取积分，同一个 token 只能成功一次
	ClaimToken(ctx context.Context, token, lineUserID string) (*types.ClaimTokenResp, error)
}

func (t *TokenService) IssueToken(ctx context.Context, amount int64, machineID string) (*types.IssueTokenResp, error) {
	machineID = NormalizeMachineID(machineID)
	if amount <= 0 || machineID == "" || amount > t.Config.Ledger.MaxScanAmount {
		return nil, ErrInvalidInput
	}

	ratio, err := loadRatio(ctx, t.ConfigDAO)
	if err != nil {
		return nil, err
	}
	if ratio.PointVal > 0 && amount > math.MaxInt64/ratio.PointVal {
		return nil, ErrInvalidInput
	}
	points := amount * ratio.PointVal / ratio.BahtVal

	token := uuid.NewString()
	redeemURL := fmt.Sprintf("https://liff.line.me/%s?token=%s", t.Config.Line.LiffID, url.QueryEscape(token))

	err = t.TokenDAO.Create(ctx, &models.EarnToken{
		Token:      token,
		MachineID:  machineID,
		ScanAmount: amount,
		PointGet:   points,
		QrURL:      redeemURL,
		CreatedAt:  t.Clock(),
	})
	if err != nil {
		return nil, fmt.Errorf("保存积分二维码失败: %w", err)
	}

	return &types.IssueTokenResp{
		Token:         token,
		PointsGranted: points,
		RedeemURL:     redeemURL,
	}, nil
}

func (t *TokenService) ClaimToken(ctx context.Context, token, lineUserID string) (*types.ClaimTokenResp, error) {
	if token == "" || lineUserID == "" {
		return nil, ErrInvalidInput
	}

	now := t.Clock()
	var (
		granted int64
		balance int64
	)
	err := t.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tokens := t.TokenDAO.With(tx)

		// 1. 抢占 token：is_used false -> true，只有一个请求能成功
		rows, err := tokens.Claim(ctx, token, lineUserID, now)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCreditFailed, err)
		}
		if rows == 0 {
			return ErrTokenAlreadyUsedOrInvalid
		}

		tk, err := tokens.FindByToken(ctx, token)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCreditFailed, err)
		}
		granted = tk.PointGet

		// 2. 入账，失败时整体回滚，token 仍可再次领取
		balance, err = credit(ctx, t.MemberDAO.With(tx), t.PointDAO.With(tx), lineUserID, granted, ledgerEntry{
			ChangeType: models.TypeEarn,
			SourceID:   token,
			Remark:     "扫码积分",
			Extra:      extraJSON(map[string]any{"machine_id": tk.MachineID, "scan_amount": tk.ScanAmount}),
			At:         now,
		})
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCreditFailed, err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrTokenAlreadyUsedOrInvalid) {
			log.L.Error("claim token failed", zap.String("user", lineUserID), zap.Error(err))
		}
		return nil, err
	}

	if granted > 0 {
		pointsEarnedTotal.WithLabelValues("qr").Add(float64(granted))
	}
	notifyQuietly(ctx, t.Notifier, t.Config.Notify.Timeout, lineUserID,
		fmt.Sprintf("ได้รับ +%d แต้ม คงเหลือ %d แต้ม", granted, balance))

	return &types.ClaimTokenResp{PointsGranted: granted, NewBalance: balance}, nil
}
