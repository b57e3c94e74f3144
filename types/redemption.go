package types

type RedeemReq struct {
	LineUserID string `json:"line_user_id" binding:"required"`
	Points     int64  `json:"points" binding:"required,gt=0"`
	MachineID  string `json:"machine_id" binding:"required"` // 可以是二维码里的完整链接
}

type RedeemResp struct {
	RedemptionID int64  `json:"redemption_id,string"`
	NewBalance   int64  `json:"new_balance"`
	Signal       string `json:"signal"` // 机器启动信号 SUCCESS: MACHINE_<id>_START
}

type RefundReq struct {
	LineUserID string `json:"line_user_id" binding:"required"`
}

type RefundResp struct {
	RefundedPoints int64  `json:"refunded_points"`
	MachineID      string `json:"machine_id"`
	NewBalance     int64  `json:"new_balance"`
}
