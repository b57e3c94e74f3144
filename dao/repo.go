package dao

import (
	"context"

	"gorm.io/gorm"
)

// Repo 通用的单表操作，具体 DAO 通过嵌入复用
type Repo[T any] struct {
	Db *gorm.DB
}

func NewRepo[T any](db *gorm.DB) Repo[T] {
	return Repo[T]{Db: db}
}

func (r Repo[T]) Model(ctx context.Context) *gorm.DB {
	return r.Db.WithContext(ctx).Model(new(T))
}

func (r Repo[T]) Create(ctx context.Context, v *T) error {
	return r.Db.WithContext(ctx).Create(v).Error
}

// FindByWhere 找不到时返回 gorm.ErrRecordNotFound
func (r Repo[T]) FindByWhere(ctx context.Context, where string, args ...any) (*T, error) {
	var v T
	err := r.Db.WithContext(ctx).Where(where, args...).First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r Repo[T]) FindCount(ctx context.Context, where string, args ...any) (int64, error) {
	var count int64
	err := r.Model(ctx).Where(where, args...).Count(&count).Error
	return count, err
}

// IsExist 只取一列标量，不扫描整行
func (r Repo[T]) IsExist(ctx context.Context, where string, args ...any) (bool, error) {
	var one int
	err := r.Model(ctx).Select("1").Where(where, args...).Limit(1).Scan(&one).Error
	if err != nil {
		return false, err
	}
	return one == 1, nil
}
