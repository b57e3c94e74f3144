package service

import "time"

// Clock 当前时间，测试中替换以模拟超时
type Clock func() time.Time

func NewClock() Clock {
	return func() time.Time { return time.Now().UTC() }
}
