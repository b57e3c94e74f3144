package config

type RocketMQConfig struct {
	NameServer []string `yaml:"nameserver"`

	Producer Producer `yaml:"producer"`

	Consumer Consumer `yaml:"consumer"`
}

type Producer struct {
	Group string `yaml:"group"`
	Retry int    `yaml:"retry"`
}

type Consumer struct {
	Group string `yaml:"group"`
}

// Enabled 未配置 nameserver 时不启用 MQ
func (r *RocketMQConfig) Enabled() bool {
	return r != nil && len(r.NameServer) > 0
}

func ProvideRocketMQConfig(cfg *Config) *RocketMQConfig {
	if cfg.RocketMQ == nil {
		return &RocketMQConfig{}
	}
	return cfg.RocketMQ
}
