package handler

import (
	"Ninety/config"
	"Ninety/pkg/line"
	"Ninety/pkg/log"
	"Ninety/service"
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

type Replier interface {
	Reply(ctx context.Context, replyToken, text string) error
}

// Webhook LINE Messaging API 回调
type Webhook struct {
	Config      *config.Config
	ChatService service.IChatService
	Line        Replier
}

func (w *Webhook) RegisterRouter(r gin.IRouter) {
	r.POST("/webhook", w.Receive)
}

func (w *Webhook) Receive(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	if !line.VerifySignature(w.Config.Line.ChannelSecret, body, c.GetHeader("X-Line-Signature")) {
		log.L.Warn("webhook signature mismatch", zap.String("ip", c.ClientIP()))
		c.Status(http.StatusUnauthorized)
		return
	}

	ctx := c.Request.Context()
	gjson.GetBytes(body, "events").ForEach(func(_, event gjson.Result) bool {
		if event.Get("type").String() != "message" || event.Get("message.type").String() != "text" {
			return true
		}
		userID := event.Get("source.userId").String()
		text := event.Get("message.text").String()
		replyToken := event.Get("replyToken").String()

		reply, err := w.ChatService.HandleText(ctx, userID, text)
		if err != nil {
			log.L.Error("handle chat text", zap.String("user", userID), zap.Error(err))
			return true
		}
		if reply == "" || replyToken == "" {
			return true
		}
		if err := w.Line.Reply(ctx, replyToken, reply); err != nil {
			log.L.Warn("reply chat text", zap.String("user", userID), zap.Error(err))
		}
		return true
	})

	// LINE 只关心 200，处理失败也不重试
	c.Status(http.StatusOK)
}
