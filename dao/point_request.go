package dao

import (
	"Ninety/models"
	"context"
	"time"

	"gorm.io/gorm"
)

type PointRequest struct {
	Repo[models.PointRequest]
}

func NewPointRequest(db *gorm.DB) *PointRequest {
	return &PointRequest{Repo: NewRepo[models.PointRequest](db)}
}

func (p *PointRequest) With(tx *gorm.DB) *PointRequest {
	return NewPointRequest(tx)
}

// Replace 删除会员之前的申请再写入新的一条，需在事务内调用
func (p *PointRequest) Replace(ctx context.Context, req *models.PointRequest) error {
	db := p.Db.WithContext(ctx)
	if err := db.Where("line_user_id = ?", req.LineUserID).Delete(&models.PointRequest{}).Error; err != nil {
		return err
	}
	return db.Create(req).Error
}

func (p *PointRequest) FindByID(ctx context.Context, id int64) (*models.PointRequest, error) {
	return p.FindByWhere(ctx, "id = ?", id)
}

// DeleteByID 返回 0 说明已被其他审批处理
func (p *PointRequest) DeleteByID(ctx context.Context, id int64) (int64, error) {
	result := p.Db.WithContext(ctx).Where("id = ?", id).Delete(&models.PointRequest{})
	return result.RowsAffected, result.Error
}

// ListSince since 为零值时不限时间
func (p *PointRequest) ListSince(ctx context.Context, since time.Time, limit int) ([]models.PointRequest, error) {
	var list []models.PointRequest
	query := p.Db.WithContext(ctx)
	if !since.IsZero() {
		query = query.Where("request_at >= ?", since)
	}
	err := query.Order("request_at DESC").Order("id DESC").Limit(limit).Find(&list).Error
	return list, err
}
