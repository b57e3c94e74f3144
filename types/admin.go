package types

// ExchangeRatio 每 BahtVal 泰铢兑换 PointVal 积分
type ExchangeRatio struct {
	BahtVal  int64 `json:"baht_val" binding:"required,gt=0,lte=10000"`
	PointVal int64 `json:"point_val" binding:"required,gt=0,lte=10000"`
}

type AdminItem struct {
	LineUserID string `json:"line_user_id"`
	AdminName  string `json:"admin_name"`
}
