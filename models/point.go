package models

import (
	"time"

	"gorm.io/datatypes"
)

// Wallet 会员积分钱包，与 Member 一对一，point_balance 永远 >= 0
type Wallet struct {
	ID           int64     `gorm:"primaryKey;column:id"`
	MemberID     int64     `gorm:"column:member_id;uniqueIndex"`
	PointBalance int64     `gorm:"column:point_balance;not null;default:0"`
	TotalEarned  int64     `gorm:"column:total_earned;not null;default:0"`
	TotalUsed    int64     `gorm:"column:total_used;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (Wallet) TableName() string {
	return "member_wallets"
}

// 积分变动类型
const (
	// 收入类
	TypeEarn       = 1 // 扫码积分
	TypeApprove    = 2 // 管理员审批加分
	TypeRefund     = 3 // 会员/管理员手动退回
	TypeAutoRefund = 4 // 机器超时未确认，自动退回

	// 支出类
	TypeRedeem = 10 // 兑换启动机器
)

// PointLog 每一次余额变动的流水
type PointLog struct {
	ID         int64          `gorm:"primaryKey;column:id"`
	MemberID   int64          `gorm:"column:member_id;index:idx_member_id"`
	Amount     int64          `gorm:"column:amount"`  // 变动数额（正负）
	Balance    int64          `gorm:"column:balance"` // 变动后余额
	ChangeType int8           `gorm:"column:change_type"`
	SourceID   string         `gorm:"column:source_id;index:idx_source_id;size:64"` // token / 兑换流水 id / 申请 id
	Remark     string         `gorm:"column:remark;size:255"`
	Extra      datatypes.JSON `gorm:"column:extra"`
	CreatedAt  time.Time      `gorm:"column:created_at"`
}

func (PointLog) TableName() string {
	return "point_logs"
}
