package dao

import (
	"Ninety/models"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Member struct {
	Repo[models.Member]
}

func NewMember(db *gorm.DB) *Member {
	return &Member{Repo: NewRepo[models.Member](db)}
}

func (m *Member) With(tx *gorm.DB) *Member {
	return NewMember(tx)
}

func (m *Member) FindByLineUserID(ctx context.Context, lineUserID string) (*models.Member, error) {
	return m.FindByWhere(ctx, "line_user_id = ?", lineUserID)
}

// Ensure 按 LINE id 取会员，不存在则创建；并发创建时唯一索引兜底
func (m *Member) Ensure(ctx context.Context, lineUserID string) (*models.Member, error) {
	err := m.Db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "line_user_id"}},
		DoNothing: true,
	}).Create(&models.Member{LineUserID: lineUserID}).Error
	if err != nil {
		return nil, err
	}
	return m.FindByLineUserID(ctx, lineUserID)
}
