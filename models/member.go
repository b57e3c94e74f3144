package models

import "time"

// Member 以 LINE user id 作为外部身份，首次积分或审批时自动创建，不会删除
type Member struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	LineUserID string    `gorm:"column:line_user_id;size:64;uniqueIndex"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (Member) TableName() string {
	return "members"
}

// Admin 管理员名单，仅作为权限判断
type Admin struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	LineUserID string    `gorm:"column:line_user_id;size:64;uniqueIndex"`
	AdminName  string    `gorm:"column:admin_name;size:64"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (Admin) TableName() string {
	return "bot_admins"
}
