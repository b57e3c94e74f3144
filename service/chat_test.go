package service

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestChat_MemberCommands(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.earn(t, "U1", 100, "M1")

	tests := []struct {
		text string
		want string
	}{
		{text: "USER_LINE", want: "U1"},
		{text: "check_point", want: "10"},
		{text: "REDEEM_4", want: "redeem=4"},
		{text: "REDEEM_40", want: "แต้มไม่พอ"},
		{text: "REFUND", want: "ไม่พบรายการ"},
		{text: "hello", want: ""},
	}
	for _, tt := range tests {
		reply, err := env.chat.HandleText(ctx, "U1", tt.text)
		if err != nil {
			t.Fatalf("%s: %v", tt.text, err)
		}
		if tt.want == "" && reply != "" {
			t.Errorf("%s: reply = %q, want none", tt.text, reply)
		}
		if !strings.Contains(reply, tt.want) {
			t.Errorf("%s: reply = %q, want contains %q", tt.text, reply, tt.want)
		}
	}

	_, _ = env.redemption.Redeem(ctx, "U1", 4, "M2")
	reply, _ := env.chat.HandleText(ctx, "U1", "REFUND")
	if !strings.Contains(reply, "M2") || env.balance(t, "U1") != 10 {
		t.Fatalf("refund reply = %q", reply)
	}
}

func TestChat_RequestAndApprove(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reply, err := env.chat.HandleText(ctx, "U1", "150 แต้ม")
	if err != nil {
		t.Fatal(err)
	}
	list, _ := env.requests.ListRequests(ctx, 10)
	if len(list) != 1 || !strings.Contains(reply, list[0].Code) {
		t.Fatalf("reply = %q, requests = %+v", reply, list)
	}

	// 普通会员的管理指令被忽略
	reply, _ = env.chat.HandleText(ctx, "U1", "APPROVE_ID "+list[0].Code)
	if reply != "" {
		t.Fatalf("non admin approve reply = %q", reply)
	}

	reply, _ = env.chat.HandleText(ctx, "U_admin", "LIST_REQUEST")
	if !strings.Contains(reply, list[0].Code) {
		t.Fatalf("list reply = %q", reply)
	}
	reply, _ = env.chat.HandleText(ctx, "U_admin", "APPROVE_ID "+list[0].Code)
	if !strings.Contains(reply, "150") || env.balance(t, "U1") != 150 {
		t.Fatalf("approve reply = %q", reply)
	}
	reply, _ = env.chat.HandleText(ctx, "U_admin", "APPROVE_ID "+list[0].Code)
	if !strings.Contains(reply, "ไม่พบคำขอ") {
		t.Fatalf("repeat approve reply = %q", reply)
	}
}

func TestChat_SetRatioSteps(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.chat.HandleText(ctx, "U_admin", "SET_RATIO_STEP1"); err != nil {
		t.Fatal(err)
	}
	reply, err := env.chat.HandleText(ctx, "U_admin", "20:1")
	if err != nil || !strings.Contains(reply, "20") {
		t.Fatalf("ratio reply = %q, %v", reply, err)
	}
	ratio, _ := env.admins.GetExchangeRatio(ctx)
	if ratio.BahtVal != 20 || ratio.PointVal != 1 {
		t.Fatalf("ratio = %+v", ratio)
	}

	// 状态只消费一次，之后的 "20:1" 是普通文本
	reply, _ = env.chat.HandleText(ctx, "U_admin", "20:1")
	if reply != "" {
		t.Fatalf("plain text reply = %q", reply)
	}
}

func TestChat_StepExpires(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _ = env.chat.HandleText(ctx, "U_admin", "ADD_ADMIN_STEP1")
	env.mr.FastForward(env.conf.Ledger.ConversationTTL + time.Second)

	_, _ = env.chat.HandleText(ctx, "U_admin", "U_other Other")
	ok, _ := env.admins.IsAdmin(ctx, "U_other")
	if ok {
		t.Fatal("expired step should not add admin")
	}
}

func TestChat_AdminManagement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reply, _ := env.chat.HandleText(ctx, "U_admin", "DEL_ADMIN_ID U_admin")
	if !strings.Contains(reply, "ลบไม่ได้") {
		t.Fatalf("delete last admin reply = %q", reply)
	}

	_, _ = env.chat.HandleText(ctx, "U_admin", "ADD_ADMIN_STEP1")
	_, _ = env.chat.HandleText(ctx, "U_admin", "U_other Somchai")
	reply, _ = env.chat.HandleText(ctx, "U_other", "LIST_ADMIN")
	if !strings.Contains(reply, "U_admin") || !strings.Contains(reply, "Somchai") {
		t.Fatalf("list admin reply = %q", reply)
	}

	reply, _ = env.chat.HandleText(ctx, "U_other", "DEL_ADMIN_ID U_admin")
	if !strings.Contains(reply, "U_admin") {
		t.Fatalf("delete reply = %q", reply)
	}
	if ok, _ := env.admins.IsAdmin(ctx, "U_admin"); ok {
		t.Fatal("U_admin should be removed")
	}
}

func TestChat_AdminCommandsReply(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, _ = env.requests.RequestPoints(ctx, "U1", 30)

	tests := []struct {
		text string
		want string
	}{
		{text: "ADMIN", want: "GET_HISTORY"},
		{text: "LIST_ADMIN", want: "U_admin"},
		{text: "LIST_REQUEST", want: "U1"},
		{text: "SET_RATIO_STEP1", want: "10:1"},
		{text: "cancel-step", want: "รูปแบบไม่ถูกต้อง"},
		{text: "ADD_ADMIN_STEP1", want: "LINE ID"},
		{text: "U_second", want: "Admin"},
		{text: "DEL_ADMIN_ID U_second", want: "U_second"},
		{text: "GET_HISTORY U1", want: "ไม่มีประวัติ"},
	}
	for _, tt := range tests {
		reply, err := env.chat.HandleText(ctx, "U_admin", tt.text)
		if err != nil {
			t.Fatalf("%s: %v", tt.text, err)
		}
		if !strings.Contains(reply, tt.want) {
			t.Errorf("%s: reply = %q, want contains %q", tt.text, reply, tt.want)
		}
	}
}

func TestChat_History(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.earn(t, "U1", 100, "M1")
	if _, err := env.redemption.Redeem(ctx, "U1", 4, "M1"); err != nil {
		t.Fatal(err)
	}

	reply, err := env.chat.HandleText(ctx, "U_admin", "GET_HISTORY U1")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(reply, "+10") || !strings.Contains(reply, "-4") || !strings.Contains(reply, "คงเหลือ 6") {
		t.Fatalf("history reply = %q", reply)
	}

	// 会员查不到别人的流水
	reply, err = env.chat.HandleText(ctx, "U1", "GET_HISTORY U1")
	if err != nil || reply != "" {
		t.Fatalf("member history reply = %q, %v", reply, err)
	}
}

func TestChat_RemovedAdminCannotFinishStep(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	if err := env.admins.AddAdmin(ctx, "U_other", "Other"); err != nil {
		t.Fatal(err)
	}

	if _, err := env.chat.HandleText(ctx, "U_other", "SET_RATIO_STEP1"); err != nil {
		t.Fatal(err)
	}
	if err := env.admins.RemoveAdmin(ctx, "U_other"); err != nil {
		t.Fatal(err)
	}

	reply, err := env.chat.HandleText(ctx, "U_other", "1:100")
	if err != nil {
		t.Fatal(err)
	}
	if reply != "" {
		t.Fatalf("removed admin reply = %q", reply)
	}
	ratio, _ := env.admins.GetExchangeRatio(ctx)
	if ratio.BahtVal != 10 || ratio.PointVal != 1 {
		t.Fatalf("ratio changed to %+v", ratio)
	}
}
