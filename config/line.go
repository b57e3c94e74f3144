package config

type Line struct {
	ChannelAccessToken string `json:"channel_access_token" yaml:"channel_access_token"`
	ChannelSecret      string `json:"channel_secret" yaml:"channel_secret"`
	LiffID             string `json:"liff_id" yaml:"liff_id"`
	// LIFF 所属的 LINE Login channel，配置后会员接口要求携带 LIFF ID token
	LoginChannelID string `json:"login_channel_id" yaml:"login_channel_id"`
	ApiBase        string `json:"api_base" yaml:"api_base"`
	// 每秒推送上限，LINE 对 push 接口有频率限制
	PushRate float64 `json:"push_rate" yaml:"push_rate"`
}

func ProvideLineConfig(cfg *Config) *Line {
	return cfg.Line
}
