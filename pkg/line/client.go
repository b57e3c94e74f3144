// Package line 封装 LINE Messaging API 的纯文本推送/回复与 webhook 验签。
package line

import (
	"Ninety/config"
	"Ninety/pkg/log"
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	ErrNotConfigured      = errors.New("line channel access token not configured")
	ErrLoginNotConfigured = errors.New("line login channel id not configured")
	ErrInvalidIDToken     = errors.New("line id token has no subject")
)

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type pushRequest struct {
	To       string        `json:"to"`
	Messages []textMessage `json:"messages"`
}

type replyRequest struct {
	ReplyToken string        `json:"replyToken"`
	Messages   []textMessage `json:"messages"`
}

// APIError LINE 返回的非 2xx 响应
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("line api status %d: %s", e.Status, e.Body)
}

// idTokenClaims /oauth2/v2.1/verify 返回的字段，只取需要的部分
type idTokenClaims struct {
	Sub string `json:"sub"`
	Aud string `json:"aud"`
}

type Client struct {
	base    string
	token   string
	login   string
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[struct{}]
}

func NewClient(cfg *config.Line) *Client {
	c := &Client{
		base:    cfg.ApiBase,
		token:   cfg.ChannelAccessToken,
		login:   cfg.LoginChannelID,
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(cfg.PushRate), int(cfg.PushRate)+1),
	}
	c.breaker = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "line-api",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// 4xx 是请求本身的问题（用户拉黑、token 过期），不代表 LINE 不可用
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.Status < 500
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.L.Warn("circuit breaker state changed",
				zap.String("name", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})
	return c
}

// Push 主动推送文本消息
func (c *Client) Push(ctx context.Context, to, text string) error {
	return c.post(ctx, "/v2/bot/message/push", pushRequest{
		To:       to,
		Messages: []textMessage{{Type: "text", Text: text}},
	})
}

// Reply 使用 webhook 事件中的 replyToken 回复
func (c *Client) Reply(ctx context.Context, replyToken, text string) error {
	return c.post(ctx, "/v2/bot/message/reply", replyRequest{
		ReplyToken: replyToken,
		Messages:   []textMessage{{Type: "text", Text: text}},
	})
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	if c.token == "" {
		return ErrNotConfigured
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	_, err = c.breaker.Execute(func() (struct{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
		if err != nil {
			return struct{}{}, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.token)

		resp, err := c.http.Do(req)
		if err != nil {
			return struct{}{}, err
		}
		defer resp.Body.Close()

		if resp.StatusCode/100 != 2 {
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			return struct{}{}, &APIError{Status: resp.StatusCode, Body: string(b)}
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		return struct{}{}, nil
	})
	return err
}

// VerifyIDToken 由 LINE 校验 LIFF 的 ID token（签名、过期、aud），返回其中的 user id
func (c *Client) VerifyIDToken(ctx context.Context, idToken string) (string, error) {
	if c.login == "" {
		return "", ErrLoginNotConfigured
	}
	form := url.Values{"id_token": {idToken}, "client_id": {c.login}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/oauth2/v2.1/verify", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &APIError{Status: resp.StatusCode, Body: string(b)}
	}
	var claims idTokenClaims
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&claims); err != nil {
		return "", fmt.Errorf("decode id token claims: %w", err)
	}
	if claims.Sub == "" || claims.Aud != c.login {
		return "", ErrInvalidIDToken
	}
	return claims.Sub, nil
}

// VerifySignature 校验 X-Line-Signature：base64(HMAC-SHA256(channelSecret, body))
func VerifySignature(channelSecret string, body []byte, signature string) bool {
	if channelSecret == "" || signature == "" {
		return false
	}
	decoded, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	return hmac.Equal(decoded, mac.Sum(nil))
}
