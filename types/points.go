package types

// PointRecord 每一条流水的细节
type PointRecord struct {
	ID          int64  `json:"id"`          // 流水唯一ID
	Amount      int64  `json:"amount"`      // 变动数值（如 +10, -50）
	Balance     int64  `json:"balance"`     // 变动后的余额快照
	Description string `json:"description"` // 详细描述（如：扫码积分、兑换机器）
	OrderType   string `json:"order_type"`  // 业务类型：INCOME(收入), EXPENSE(支出)
	ChangeType  int8   `json:"change_type"`
	SourceID    string `json:"source_id"`
	CreatedAt   string `json:"created_at"` // 格式化时间: 2006-01-02 15:04:05
}

// ListPointsRecord 流水列表包装
type ListPointsRecord struct {
	Records    []PointRecord `json:"records"`     // 积分流水细节
	NextCursor int64         `json:"next_cursor"` // 游标：用于下一页请求
	HasMore    bool          `json:"has_more"`    // 标记是否还有更多数据
}

// PointsAccount 账户概览统计
type PointsAccount struct {
	Balance     int64 `json:"balance"`      // 当前可用积分余额
	TotalEarned int64 `json:"total_earned"` // 历史累计获得
	TotalUsed   int64 `json:"total_used"`   // 历史累计使用
}

type BalanceReq struct {
	LineUserID string `form:"line_user_id" binding:"required"`
}

type ListPointRecordsReq struct {
	LineUserID string `form:"line_user_id" binding:"required"`
	Action     string `form:"action" binding:"omitempty,oneof=income expense"` // 空-全部
	Cursor     int64  `form:"cursor"`                                          // 分页游标 (ID)
	Limit      int    `form:"limit,default=10" binding:"min=1,max=100"`        // 每页数量
}
