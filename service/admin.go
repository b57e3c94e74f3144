package service

import (
	"Ninety/dao"
	"Ninety/models"
	"Ninety/types"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// 未配置兑换比例时使用 10 泰铢 = 1 积分
const (
	defaultBahtVal  = 10
	defaultPointVal = 1
	// 比例两侧的上限，保证 金额*积分 不会溢出
	maxRatioValue = 10000
)

type AdminService struct {
	DB        *gorm.DB
	AdminDAO  *dao.Admin
	ConfigDAO *dao.SystemConfig
	Clock     Clock
}

var _ IAdminService = (*AdminService)(nil)

type IAdminService interface {
	IsAdmin(ctx context.Context, lineUserID string) (bool, error)
	AddAdmin(ctx context.Context, lineUserID, name string) error
	// RemoveAdmin 管理员集合永远不为空
	RemoveAdmin(ctx context.Context, lineUserID string) error
	ListAdmins(ctx context.Context) ([]types.AdminItem, error)

	GetExchangeRatio(ctx context.Context) (*types.ExchangeRatio, error)
	SetExchangeRatio(ctx context.Context, bahtVal, pointVal int64) error
}

func (a *AdminService) IsAdmin(ctx context.Context, lineUserID string) (bool, error) {
	if lineUserID == "" {
		return false, nil
	}
	return a.AdminDAO.IsAdmin(ctx, lineUserID)
}

func (a *AdminService) AddAdmin(ctx context.Context, lineUserID, name string) error {
	if lineUserID == "" {
		return ErrInvalidInput
	}
	if name == "" {
		name = "Admin"
	}
	return a.AdminDAO.Upsert(ctx, &models.Admin{
		LineUserID: lineUserID,
		AdminName:  name,
		CreatedAt:  a.Clock(),
	})
}

func (a *AdminService) RemoveAdmin(ctx context.Context, lineUserID string) error {
	if lineUserID == "" {
		return ErrInvalidInput
	}
	return a.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		admins := a.AdminDAO.With(tx)
		list, err := admins.LockAll(ctx)
		if err != nil {
			return err
		}

		found := false
		for _, item := range list {
			if item.LineUserID == lineUserID {
				found = true
				break
			}
		}
		if !found {
			return ErrAdminNotFound
		}
		if len(list) <= 1 {
			return ErrLastAdmin
		}

		_, err = admins.Delete(ctx, lineUserID)
		return err
	})
}

func (a *AdminService) ListAdmins(ctx context.Context) ([]types.AdminItem, error) {
	list, err := a.AdminDAO.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]types.AdminItem, 0, len(list))
	for _, item := range list {
		items = append(items, types.AdminItem{LineUserID: item.LineUserID, AdminName: item.AdminName})
	}
	return items, nil
}

func (a *AdminService) GetExchangeRatio(ctx context.Context) (*types.ExchangeRatio, error) {
	return loadRatio(ctx, a.ConfigDAO)
}

func (a *AdminService) SetExchangeRatio(ctx context.Context, bahtVal, pointVal int64) error {
	if bahtVal <= 0 || pointVal <= 0 || bahtVal > maxRatioValue || pointVal > maxRatioValue {
		return ErrInvalidInput
	}
	return a.ConfigDAO.Save(ctx, &models.SystemConfig{
		ConfigKey: models.ConfigExchangeRatio,
		BahtVal:   bahtVal,
		PointVal:  pointVal,
		UpdatedAt: a.Clock(),
	})
}

func loadRatio(ctx context.Context, configs *dao.SystemConfig) (*types.ExchangeRatio, error) {
	conf, err := configs.Get(ctx, models.ConfigExchangeRatio)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &types.ExchangeRatio{BahtVal: defaultBahtVal, PointVal: defaultPointVal}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取兑换比例失败: %w", err)
	}
	// 脏数据按默认比例处理，避免除零
	if conf.BahtVal <= 0 || conf.PointVal < 0 || conf.BahtVal > maxRatioValue || conf.PointVal > maxRatioValue {
		return &types.ExchangeRatio{BahtVal: defaultBahtVal, PointVal: defaultPointVal}, nil
	}
	return &types.ExchangeRatio{BahtVal: conf.BahtVal, PointVal: conf.PointVal}, nil
}
