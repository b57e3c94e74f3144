package config

import "time"

const (
	NotifyDirect = "direct"
	NotifyMQ     = "mq"
)

// Ledger 积分账本相关的业务参数
type Ledger struct {
	SweepInterval  time.Duration `json:"sweep_interval" yaml:"sweep_interval"`
	PendingTimeout time.Duration `json:"pending_timeout" yaml:"pending_timeout"`
	// 超过该时长的加分申请不再允许审批，默认 24h，配置为负数表示不限制
	RequestWindow time.Duration `json:"request_window" yaml:"request_window"`
	// 会话状态（多步指令）在 Redis 中的过期时间
	ConversationTTL time.Duration `json:"conversation_ttl" yaml:"conversation_ttl"`
	SweepWorkers    int           `json:"sweep_workers" yaml:"sweep_workers"`
	// 单次扫码金额上限（泰铢），超出视为非法请求
	MaxScanAmount int64 `json:"max_scan_amount" yaml:"max_scan_amount"`
	// 单次加分申请上限
	MaxRequestPoints int64  `json:"max_request_points" yaml:"max_request_points"`
	HashSalt         string `json:"hash_salt" yaml:"hash_salt"`
}

func (l *Ledger) applyDefaults() {
	if l.SweepInterval <= 0 {
		l.SweepInterval = 30 * time.Second
	}
	if l.PendingTimeout <= 0 {
		l.PendingTimeout = 60 * time.Second
	}
	switch {
	case l.RequestWindow == 0:
		l.RequestWindow = 24 * time.Hour
	case l.RequestWindow < 0:
		l.RequestWindow = 0
	}
	if l.ConversationTTL <= 0 {
		l.ConversationTTL = 5 * time.Minute
	}
	if l.SweepWorkers <= 0 {
		l.SweepWorkers = 4
	}
	if l.MaxScanAmount <= 0 {
		l.MaxScanAmount = 100000
	}
	if l.MaxRequestPoints <= 0 {
		l.MaxRequestPoints = 100000
	}
	if l.HashSalt == "" {
		l.HashSalt = "ninety"
	}
}

type Notify struct {
	// direct: 直接调用 LINE；mq: 投递到 RocketMQ，由 notify-worker 消费
	Mode    string        `json:"mode" yaml:"mode"`
	Topic   string        `json:"topic" yaml:"topic"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

func ProvideLedgerConfig(cfg *Config) *Ledger {
	return cfg.Ledger
}
