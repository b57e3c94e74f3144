package types

type PointRequestReq struct {
	LineUserID string `json:"line_user_id" binding:"required"`
	Points     int64  `json:"points" binding:"required,gt=0"`
}

// PointRequestItem 对外只暴露 hashids 编码后的申请号
type PointRequestItem struct {
	Code       string `json:"code"`
	LineUserID string `json:"line_user_id"`
	Points     int64  `json:"points"`
	RequestAt  string `json:"request_at"`
}

type ListRequestsReq struct {
	Limit int `form:"limit,default=20" binding:"min=1,max=100"`
}

type ApproveResp struct {
	LineUserID string `json:"line_user_id"`
	Points     int64  `json:"points"`
	NewBalance int64  `json:"new_balance"`
}
