package config

import "fmt"

type MySQL struct {
	// mysql（默认）或 sqlite；sqlite 时 Database 为文件路径，仅用于本地调试
	Driver   string `json:"driver" yaml:"driver"`
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
	Database string `json:"database" yaml:"database"`
	Charset  string `json:"charset" yaml:"charset"`
	MaxOpen  int    `json:"max_open" yaml:"max_open"`
	MaxIdle  int    `json:"max_idle" yaml:"max_idle"`
}

func (m *MySQL) Dsn() string {
	charset := m.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=UTC",
		m.Username, m.Password, m.Host, m.Port, m.Database, charset)
}
