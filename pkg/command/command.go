// Package command 把 LINE 聊天文本解析成有限的指令集合。
package command

import (
	"regexp"
	"strconv"
	"strings"
)

// Command 封闭的指令集合，只有本包内的类型实现
type Command interface {
	command()
}

type (
	Unknown       struct{ Text string }
	WhoAmI        struct{}
	CheckPoint    struct{}
	Refund        struct{}
	RedeemCheck   struct{ Points int64 }
	RequestPoints struct{ Points int64 }

	AdminMenu     struct{}
	ListAdmins    struct{}
	ListRequests  struct{}
	SetRatioStart struct{}
	AddAdminStart struct{}
	DeleteAdmin   struct{ LineUserID string }
	Approve       struct{ Code string }
	History       struct{ LineUserID string }
)

func (Unknown) command()       {}
func (WhoAmI) command()        {}
func (CheckPoint) command()    {}
func (Refund) command()        {}
func (RedeemCheck) command()   {}
func (RequestPoints) command() {}
func (AdminMenu) command()     {}
func (ListAdmins) command()    {}
func (ListRequests) command()  {}
func (SetRatioStart) command() {}
func (AddAdminStart) command() {}
func (DeleteAdmin) command()   {}
func (Approve) command()       {}
func (History) command()       {}

var pointPattern = regexp.MustCompile(`(?i)^(\d+)\s*(แต้ม|p|point)?$`)

func Parse(text string) Command {
	raw := strings.TrimSpace(text)
	upper := strings.ToUpper(raw)

	switch upper {
	case "USER_LINE":
		return WhoAmI{}
	case "CHECK_POINT":
		return CheckPoint{}
	case "REFUND":
		return Refund{}
	case "ADMIN":
		return AdminMenu{}
	case "LIST_ADMIN":
		return ListAdmins{}
	case "LIST_REQUEST", "REPORT":
		return ListRequests{}
	case "SET_RATIO_STEP1":
		return SetRatioStart{}
	case "ADD_ADMIN_STEP1":
		return AddAdminStart{}
	}

	if rest, ok := strings.CutPrefix(upper, "REDEEM_"); ok {
		if n, err := strconv.ParseInt(rest, 10, 64); err == nil && n > 0 {
			return RedeemCheck{Points: n}
		}
		return Unknown{Text: raw}
	}
	if strings.HasPrefix(upper, "DEL_ADMIN_ID ") {
		// LINE user id 区分大小写，取原文
		if id := argument(raw); id != "" {
			return DeleteAdmin{LineUserID: id}
		}
		return Unknown{Text: raw}
	}
	if strings.HasPrefix(upper, "GET_HISTORY ") {
		if id := argument(raw); id != "" {
			return History{LineUserID: id}
		}
		return Unknown{Text: raw}
	}
	if strings.HasPrefix(upper, "APPROVE_ID ") {
		if code := argument(raw); code != "" {
			return Approve{Code: code}
		}
		return Unknown{Text: raw}
	}

	if m := pointPattern.FindStringSubmatch(raw); m != nil {
		if n, err := strconv.ParseInt(m[1], 10, 64); err == nil && n > 0 {
			return RequestPoints{Points: n}
		}
	}
	return Unknown{Text: raw}
}

// AdminOnly 需要管理员身份才能执行的指令
func AdminOnly(cmd Command) bool {
	switch cmd.(type) {
	case AdminMenu, ListAdmins, ListRequests, SetRatioStart, AddAdminStart, DeleteAdmin, Approve, History:
		return true
	}
	return false
}

func argument(raw string) string {
	fields := strings.Fields(raw)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

// ParseRatio 解析 "10:1" 形式的兑换比例（泰铢:积分）
func ParseRatio(text string) (baht, point int64, ok bool) {
	parts := strings.Split(strings.TrimSpace(text), ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	b, err1 := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	p, err2 := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err1 != nil || err2 != nil || b <= 0 || p <= 0 {
		return 0, 0, false
	}
	return b, p, true
}

// ParseAdmin 解析 "<line_user_id> <名字>"，名字缺省为 Admin
func ParseAdmin(text string) (id, name string, ok bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", "", false
	}
	name = "Admin"
	if len(fields) > 1 {
		name = strings.Join(fields[1:], " ")
	}
	return fields[0], name, true
}
