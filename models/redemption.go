package models

import "time"

const (
	RedeemPending  = "pending"
	RedeemSuccess  = "success"
	RedeemRefunded = "refunded"
	// 旧版一次性 nonce 流程写入的状态，等同 success
	RedeemUsed = "used"
)

// RedemptionLog 一次兑换：扣分时以 pending 创建，机器确认后 success，超时或手动退回后 refunded
type RedemptionLog struct {
	ID             int64     `gorm:"primaryKey;autoIncrement:false;column:id"`
	MemberID       int64     `gorm:"column:member_id;index"`
	MachineID      string    `gorm:"column:machine_id;size:64;index:idx_machine_status,priority:1"`
	PointsRedeemed int64     `gorm:"column:points_redeemed"`
	Status         string    `gorm:"column:status;size:16;index:idx_machine_status,priority:2;index:idx_status_created,priority:1"`
	CreatedAt      time.Time `gorm:"column:created_at;index:idx_status_created,priority:2"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`

	// 仅查询时回填（JOIN members）
	LineUserID string `gorm:"->;column:line_user_id;-:migration"`
}

func (RedemptionLog) TableName() string {
	return "redeem_logs"
}

// Completed success 与 used 都视为机器已完成
func (r *RedemptionLog) Completed() bool {
	return r.Status == RedeemSuccess || r.Status == RedeemUsed
}

// PointRequest 会员在聊天中提交的加分申请，审批后删除
type PointRequest struct {
	ID         int64     `gorm:"primaryKey;autoIncrement:false;column:id"`
	LineUserID string    `gorm:"column:line_user_id;size:64;index"`
	Points     int64     `gorm:"column:points"`
	RequestAt  time.Time `gorm:"column:request_at;index"`
}

func (PointRequest) TableName() string {
	return "point_requests"
}

const ConfigExchangeRatio = "exchange_ratio"

// SystemConfig 全局配置行，目前只有兑换比例
type SystemConfig struct {
	ConfigKey string    `gorm:"primaryKey;column:config_key;size:64"`
	BahtVal   int64     `gorm:"column:baht_val"`
	PointVal  int64     `gorm:"column:point_val"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (SystemConfig) TableName() string {
	return "system_configs"
}
