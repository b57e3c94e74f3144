package dao

import (
	"Ninety/models"
	"context"
	"time"

	"gorm.io/gorm"
)

type Token struct {
	Repo[models.EarnToken]
}

func NewToken(db *gorm.DB) *Token {
	return &Token{Repo: NewRepo[models.EarnToken](db)}
}

func (t *Token) With(tx *gorm.DB) *Token {
	return NewToken(tx)
}

func (t *Token) FindByToken(ctx context.Context, token string) (*models.EarnToken, error) {
	return t.FindByWhere(ctx, "qr_token = ?", token)
}

// Claim 条件更新 is_used false -> true，返回 0 说明 token 不存在或已被使用
func (t *Token) Claim(ctx context.Context, token, usedBy string, usedAt time.Time) (int64, error) {
	result := t.Model(ctx).
		Where("qr_token = ? AND is_used = ?", token, false).
		Updates(map[string]interface{}{
			"is_used": true,
			"used_by": usedBy,
			"used_at": usedAt,
		})
	return result.RowsAffected, result.Error
}
