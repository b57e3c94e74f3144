package models

// All 需要 AutoMigrate 的表
func All() []any {
	return []any{
		&Member{},
		&Wallet{},
		&Admin{},
		&EarnToken{},
		&RedemptionLog{},
		&PointRequest{},
		&SystemConfig{},
		&PointLog{},
	}
}
