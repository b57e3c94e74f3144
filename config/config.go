package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 配置信息
type Config struct {
	App      *App            `json:"app" yaml:"app"`
	Redis    *Redis          `json:"redis" yaml:"redis"`
	MySQL    *MySQL          `json:"mysql" yaml:"mysql"`
	Jwt      *Jwt            `json:"jwt" yaml:"jwt"`
	Server   *Server         `json:"server" yaml:"server"`
	RocketMQ *RocketMQConfig `json:"rocketmq" yaml:"rocketmq"`
	Line     *Line           `json:"line" yaml:"line"`
	Ledger   *Ledger         `json:"ledger" yaml:"ledger"`
	Notify   *Notify         `json:"notify" yaml:"notify"`
}

type Server struct {
	Http int `json:"http" yaml:"http"`
}

func New(filename string) *Config {
	conf, err := Load(filename)
	if err != nil {
		panic(err)
	}
	return conf
}

// Load 读取配置文件，支持 ${ENV} 形式引用环境变量（密钥类配置不落盘）
func Load(filename string) (*Config, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", filename, err)
	}
	return Parse(content)
}

func Parse(content []byte) (*Config, error) {
	var conf Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(content))), &conf); err != nil {
		return nil, fmt.Errorf("解析 config.yaml 读取错误: %w", err)
	}
	conf.applyDefaults()
	return &conf, nil
}

func (c *Config) applyDefaults() {
	if c.App == nil {
		c.App = &App{Env: "dev"}
	}
	if c.Server == nil {
		c.Server = &Server{}
	}
	if c.Server.Http == 0 {
		c.Server.Http = 8080
	}
	if c.Redis == nil {
		c.Redis = &Redis{Address: "127.0.0.1", Port: 6379}
	}
	if c.Jwt == nil {
		c.Jwt = &Jwt{}
	}
	if c.Line == nil {
		c.Line = &Line{}
	}
	if c.Line.ApiBase == "" {
		c.Line.ApiBase = "https://api.line.me"
	}
	if c.Line.PushRate <= 0 {
		c.Line.PushRate = 50
	}
	if c.Ledger == nil {
		c.Ledger = &Ledger{}
	}
	c.Ledger.applyDefaults()
	if c.Notify == nil {
		c.Notify = &Notify{}
	}
	if c.Notify.Mode == "" {
		c.Notify.Mode = NotifyDirect
	}
	if c.Notify.Topic == "" {
		c.Notify.Topic = "NINETY_NOTIFY"
	}
	if c.Notify.Timeout <= 0 {
		c.Notify.Timeout = 5 * time.Second
	}
}

// Debug 调试模式
func (c *Config) Debug() bool {
	return c.App.Debug
}
