package types

// IssueTokenReq 机器投币后申请一个积分二维码
type IssueTokenReq struct {
	Amount int64 `json:"amount" binding:"required,gt=0"` // 消费金额（泰铢）
}

type IssueTokenResp struct {
	Token         string `json:"token"`
	PointsGranted int64  `json:"points_granted"`
	RedeemURL     string `json:"redeem_url"`
}

type ClaimTokenReq struct {
	Token      string `json:"token" binding:"required"`
	LineUserID string `json:"line_user_id" binding:"required"`
}

type ClaimTokenResp struct {
	PointsGranted int64 `json:"points_granted"`
	NewBalance    int64 `json:"new_balance"`
}
