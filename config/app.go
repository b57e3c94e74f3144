package config

type App struct {
	Env   string `json:"env" yaml:"env"`
	Debug bool   `json:"debug" yaml:"debug"`
	// 首次 migrate 时写入 bot_admins，保证管理员集合不为空
	Admins []string `json:"admins" yaml:"admins"`
}

type Jwt struct {
	Secret string `json:"secret" yaml:"secret"`
	Issuer string `json:"issuer" yaml:"issuer"`
}
