package models

import "time"

// MachineAdmin 管理员审批加分时写入的“虚拟机器”，使其出现在积分历史里
const MachineAdmin = "ADMIN"

// EarnToken 一次扫码积分机会，is_used 从 false 到 true 只发生一次
type EarnToken struct {
	ID         int64      `gorm:"primaryKey;column:id"`
	Token      string     `gorm:"column:qr_token;size:64;uniqueIndex"`
	MachineID  string     `gorm:"column:machine_id;size:64;index"`
	ScanAmount int64      `gorm:"column:scan_amount"`
	PointGet   int64      `gorm:"column:point_get"`
	QrURL      string     `gorm:"column:qr_url;size:512"`
	IsUsed     bool       `gorm:"column:is_used;not null;default:false;index:idx_used_at,priority:1"`
	UsedBy     *string    `gorm:"column:used_by;size:64;index"`
	UsedAt     *time.Time `gorm:"column:used_at;index:idx_used_at,priority:2"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
}

func (EarnToken) TableName() string {
	return "qr_point_tokens"
}
