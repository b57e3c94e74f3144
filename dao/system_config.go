package dao

import (
	"Ninety/models"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SystemConfig struct {
	Repo[models.SystemConfig]
}

func NewSystemConfig(db *gorm.DB) *SystemConfig {
	return &SystemConfig{Repo: NewRepo[models.SystemConfig](db)}
}

// Get 找不到时返回 gorm.ErrRecordNotFound
func (s *SystemConfig) Get(ctx context.Context, key string) (*models.SystemConfig, error) {
	return s.FindByWhere(ctx, "config_key = ?", key)
}

// Save 后写覆盖
func (s *SystemConfig) Save(ctx context.Context, conf *models.SystemConfig) error {
	return s.Db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "config_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"baht_val", "point_val", "updated_at"}),
	}).Create(conf).Error
}
