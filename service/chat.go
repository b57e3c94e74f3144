package service

import (
	"Ninety/config"
	"Ninety/dao/cache"
	"Ninety/pkg/command"
	"Ninety/pkg/log"
	"Ninety/pkg/response"
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

type ChatService struct {
	Config              *config.Config
	Conversation        *cache.ConversationStorage
	PointService        IPointService
	RedemptionService   IRedemptionService
	PointRequestService IPointRequestService
	AdminService        IAdminService
}

var _ IChatService = (*ChatService)(nil)

type IChatService interface {
	// HandleText 处理一条聊天文本，返回需要回复的内容，空串表示不回复
	HandleText(ctx context.Context, lineUserID, text string) (string, error)
}

const adminMenu = `คำสั่งแอดมิน
LIST_REQUEST - ดูคำขอแต้ม
APPROVE_ID <code> - อนุมัติคำขอ
SET_RATIO_STEP1 - ตั้งอัตราแลกแต้ม
LIST_ADMIN - รายชื่อแอดมิน
ADD_ADMIN_STEP1 - เพิ่มแอดมิน
DEL_ADMIN_ID <id> - ลบแอดมิน
GET_HISTORY <id> - ประวัติแต้มของสมาชิก`

// historySize 聊天里查看流水的条数
const historySize = 15

func (c *ChatService) HandleText(ctx context.Context, lineUserID, text string) (string, error) {
	if lineUserID == "" {
		return "", ErrInvalidInput
	}

	// 多步指令：上一条消息设置了等待状态
	step, err := c.Conversation.Take(ctx, lineUserID)
	if err != nil {
		log.L.Warn("load conversation step", zap.String("user", lineUserID), zap.Error(err))
	}
	if step != "" {
		// 目前的多步指令都只属于管理员，期间被移除的管理员不能继续
		ok, err := c.AdminService.IsAdmin(ctx, lineUserID)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", nil
		}
		return c.handleStep(ctx, lineUserID, step, text)
	}

	cmd := command.Parse(text)
	if command.AdminOnly(cmd) {
		ok, err := c.AdminService.IsAdmin(ctx, lineUserID)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", nil
		}
	}

	reply, err := c.dispatch(ctx, lineUserID, cmd)
	if err != nil {
		var be *response.BizError
		if errors.As(err, &be) {
			return replyForError(err), nil
		}
		return "", err
	}
	return reply, nil
}

func (c *ChatService) dispatch(ctx context.Context, lineUserID string, cmd command.Command) (string, error) {
	switch cmd := cmd.(type) {
	case command.WhoAmI:
		return "LINE ID: " + lineUserID, nil

	case command.CheckPoint:
		account, err := c.PointService.GetBalance(ctx, lineUserID)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("แต้มสะสมของคุณ: %d แต้ม", account.Balance), nil

	case command.Refund:
		res, err := c.RedemptionService.RefundLatestPending(ctx, lineUserID)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("คืน %d แต้มแล้ว (เครื่อง %s)\nคงเหลือ %d แต้ม", res.RefundedPoints, res.MachineID, res.NewBalance), nil

	case command.RedeemCheck:
		account, err := c.PointService.GetBalance(ctx, lineUserID)
		if err != nil {
			return "", err
		}
		if account.Balance < cmd.Points {
			return fmt.Sprintf("แต้มไม่พอ (มี %d ต้องการ %d)", account.Balance, cmd.Points), nil
		}
		return fmt.Sprintf("สแกน QR ที่เครื่องเพื่อใช้ %d แต้ม\nhttps://liff.line.me/%s?redeem=%d", cmd.Points, c.Config.Line.LiffID, cmd.Points), nil

	case command.RequestPoints:
		item, err := c.PointRequestService.RequestPoints(ctx, lineUserID, cmd.Points)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("ส่งคำขอ %d แต้มแล้ว รอแอดมินอนุมัติ (รหัส %s)", item.Points, item.Code), nil

	case command.AdminMenu:
		return adminMenu, nil

	case command.ListAdmins:
		admins, err := c.AdminService.ListAdmins(ctx)
		if err != nil {
			return "", err
		}
		var b strings.Builder
		b.WriteString("แอดมิน")
		for _, a := range admins {
			fmt.Fprintf(&b, "\n%s %s", a.LineUserID, a.AdminName)
		}
		return b.String(), nil

	case command.ListRequests:
		items, err := c.PointRequestService.ListRequests(ctx, 20)
		if err != nil {
			return "", err
		}
		if len(items) == 0 {
			return "ไม่มีคำขอแต้ม", nil
		}
		var b strings.Builder
		b.WriteString("คำขอแต้ม")
		for _, item := range items {
			fmt.Fprintf(&b, "\n%s | %s | %d แต้ม | %s", item.Code, item.LineUserID, item.Points, item.RequestAt)
		}
		return b.String(), nil

	case command.SetRatioStart:
		if err := c.Conversation.Set(ctx, lineUserID, cache.StepSetRatio); err != nil {
			return "", err
		}
		return "ส่งอัตราในรูปแบบ บาท:แต้ม เช่น 10:1", nil

	case command.AddAdminStart:
		if err := c.Conversation.Set(ctx, lineUserID, cache.StepAddAdmin); err != nil {
			return "", err
		}
		return "ส่ง LINE ID และชื่อ เช่น Uxxxx Somchai", nil

	case command.DeleteAdmin:
		if err := c.AdminService.RemoveAdmin(ctx, cmd.LineUserID); err != nil {
			return "", err
		}
		return "ลบแอดมิน " + cmd.LineUserID + " แล้ว", nil

	case command.History:
		page, err := c.PointService.ListPointRecords(ctx, cmd.LineUserID, "", 0, historySize)
		if err != nil {
			return "", err
		}
		if len(page.Records) == 0 {
			return "ไม่มีประวัติแต้มของ " + cmd.LineUserID, nil
		}
		var b strings.Builder
		b.WriteString("ประวัติแต้ม " + cmd.LineUserID)
		for _, r := range page.Records {
			fmt.Fprintf(&b, "\n%+d | คงเหลือ %d | %s | %s", r.Amount, r.Balance, r.Description, r.CreatedAt)
		}
		return b.String(), nil

	case command.Approve:
		res, err := c.PointRequestService.ApproveByCode(ctx, cmd.Code)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("อนุมัติ %d แต้มให้ %s แล้ว (คงเหลือ %d)", res.Points, res.LineUserID, res.NewBalance), nil
	}

	// 未知文本不回复，留给人工客服
	return "", nil
}

func (c *ChatService) handleStep(ctx context.Context, lineUserID, step, text string) (string, error) {
	var err error
	switch step {
	case cache.StepSetRatio:
		baht, point, ok := command.ParseRatio(text)
		if !ok {
			return "รูปแบบไม่ถูกต้อง กรุณาเริ่มใหม่", nil
		}
		if err = c.AdminService.SetExchangeRatio(ctx, baht, point); err == nil {
			return fmt.Sprintf("ตั้งอัตรา %d บาท = %d แต้ม แล้ว", baht, point), nil
		}

	case cache.StepAddAdmin:
		id, name, ok := command.ParseAdmin(text)
		if !ok {
			return "รูปแบบไม่ถูกต้อง กรุณาเริ่มใหม่", nil
		}
		if err = c.AdminService.AddAdmin(ctx, id, name); err == nil {
			return "เพิ่มแอดมิน " + name + " แล้ว", nil
		}

	default:
		return "", nil
	}

	if errors.As(err, new(*response.BizError)) {
		return replyForError(err), nil
	}
	return "", err
}

// replyForError 业务错误转成给会员看的文本
func replyForError(err error) string {
	switch {
	case errors.Is(err, ErrNoPendingRedemption), errors.Is(err, ErrMemberNotFound):
		return "ไม่พบรายการที่รอคืนแต้ม"
	case errors.Is(err, ErrInsufficientBalance):
		return "แต้มไม่พอ"
	case errors.Is(err, ErrRequestNotFound):
		return "ไม่พบคำขอ หรือคำขอถูกดำเนินการแล้ว"
	case errors.Is(err, ErrRequestExpired):
		return "คำขอหมดอายุแล้ว"
	case errors.Is(err, ErrLastAdmin):
		return "ลบไม่ได้ ต้องมีแอดมินอย่างน้อย 1 คน"
	case errors.Is(err, ErrAdminNotFound):
		return "ไม่พบแอดมินนี้"
	case errors.Is(err, ErrInvalidInput):
		return "ข้อมูลไม่ถูกต้อง"
	}
	return "เกิดข้อผิดพลาด กรุณาลองใหม่ภายหลัง"
}
