package dao

import (
	"Ninety/models"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Admin struct {
	Repo[models.Admin]
}

func NewAdmin(db *gorm.DB) *Admin {
	return &Admin{Repo: NewRepo[models.Admin](db)}
}

func (a *Admin) With(tx *gorm.DB) *Admin {
	return NewAdmin(tx)
}

func (a *Admin) IsAdmin(ctx context.Context, lineUserID string) (bool, error) {
	return a.IsExist(ctx, "line_user_id = ?", lineUserID)
}

// Upsert 已存在时只更新名字
func (a *Admin) Upsert(ctx context.Context, admin *models.Admin) error {
	return a.Db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "line_user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"admin_name"}),
	}).Create(admin).Error
}

func (a *Admin) List(ctx context.Context) ([]models.Admin, error) {
	var list []models.Admin
	err := a.Db.WithContext(ctx).Order("id ASC").Find(&list).Error
	return list, err
}

// LockAll 锁住全部管理员行，用于删除前的数量判断，需在事务内调用
func (a *Admin) LockAll(ctx context.Context) ([]models.Admin, error) {
	var list []models.Admin
	err := a.Db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

func (a *Admin) Delete(ctx context.Context, lineUserID string) (int64, error) {
	result := a.Db.WithContext(ctx).Where("line_user_id = ?", lineUserID).Delete(&models.Admin{})
	return result.RowsAffected, result.Error
}
