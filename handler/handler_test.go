package handler

import (
	"Ninety/config"
	"Ninety/dao"
	"Ninety/dao/cache"
	"Ninety/pkg/database"
	"Ninety/pkg/jwt"
	"Ninety/pkg/response"
	"Ninety/service"
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const (
	testSecret        = "test-secret"
	testChannelSecret = "channel-secret"
)

type fakeReplier struct {
	mu      sync.Mutex
	replies []string
}

func (f *fakeReplier) Reply(_ context.Context, _ string, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, text)
	return nil
}

type silentNotifier struct{}

func (silentNotifier) Notify(context.Context, string, string) error { return nil }

type testServer struct {
	engine  *gin.Engine
	replier *fakeReplier
}

type fakeVerifier map[string]string

func (f fakeVerifier) VerifyIDToken(_ context.Context, idToken string) (string, error) {
	if sub, ok := f[idToken]; ok {
		return sub, nil
	}
	return "", errors.New("invalid id token")
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return buildTestServer(t, "", nil)
}

// buildTestServer loginChannel 非空时会员接口要求 LIFF ID token
func buildTestServer(t *testing.T, loginChannel string, verifier fakeVerifier) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conf, err := config.Parse([]byte("jwt:\n  secret: " + testSecret + "\nline:\n  channel_secret: " + testChannelSecret + "\n"))
	if err != nil {
		t.Fatal(err)
	}
	conf.Line.LoginChannelID = loginChannel
	db, err := database.Open(&config.MySQL{
		Driver:   database.DriverSQLite,
		Database: filepath.Join(t.TempDir(), "ledger.db"),
		MaxOpen:  8,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := database.Migrate(db, []string{"U_admin"}); err != nil {
		t.Fatal(err)
	}
	mr := miniredis.RunT(t)
	rds := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rds.Close() })

	codec, _ := service.NewRequestCodec(conf.Ledger)
	clock := service.NewClock()
	members, points, tokens := dao.NewMember(db), dao.NewPoint(db), dao.NewToken(db)
	configs, admins := dao.NewSystemConfig(db), dao.NewAdmin(db)

	tokenSvc := &service.TokenService{Config: conf, DB: db, TokenDAO: tokens, MemberDAO: members,
		PointDAO: points, ConfigDAO: configs, Notifier: silentNotifier{}, Clock: clock}
	redemptionSvc := &service.RedemptionService{Config: conf, DB: db, MemberDAO: members, PointDAO: points,
		RedemptionDAO: dao.NewRedemption(db), Notifier: silentNotifier{}, Clock: clock}
	pointSvc := &service.PointService{MemberDAO: members, PointDAO: points}
	requestSvc := &service.PointRequestService{Config: conf, DB: db, PointRequestDAO: dao.NewPointRequest(db),
		MemberDAO: members, PointDAO: points, TokenDAO: tokens, AdminDAO: admins, Codec: codec,
		Notifier: silentNotifier{}, Clock: clock}
	adminSvc := &service.AdminService{DB: db, AdminDAO: admins, ConfigDAO: configs, Clock: clock}
	chatSvc := &service.ChatService{Config: conf, Conversation: cache.NewConversationStorage(rds, conf.Ledger),
		PointService: pointSvc, RedemptionService: redemptionSvc, PointRequestService: requestSvc, AdminService: adminSvc}

	replier := &fakeReplier{}
	r := gin.New()
	(&Ops{DB: db, Redis: rds}).RegisterRouter(r)
	(&Webhook{Config: conf, ChatService: chatSvc, Line: replier}).RegisterRouter(r)
	api := r.Group("/api")
	(&Token{Config: conf, TokenService: tokenSvc}).RegisterRouter(api)
	(&Machine{Config: conf, RedemptionService: redemptionSvc}).RegisterRouter(api)
	(&Point{Config: conf, Verifier: verifier, PointService: pointSvc, TokenService: tokenSvc,
		RedemptionService: redemptionSvc}).RegisterRouter(api)
	(&Request{Config: conf, Verifier: verifier, PointRequestService: requestSvc}).RegisterRouter(api)
	(&Admin{Config: conf, AdminService: adminSvc}).RegisterRouter(api)

	return &testServer{engine: r, replier: replier}
}

func bearer(t *testing.T, subject, role string) string {
	t.Helper()
	token, err := jwt.GenerateToken([]byte(testSecret), "ninety", subject, role, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + token
}

type apiResult struct {
	Status int
	Body   response.Response
	Data   map[string]any
}

func (s *testServer) do(t *testing.T, method, path, auth string, body any) apiResult {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	res := apiResult{Status: w.Code}
	_ = json.Unmarshal(w.Body.Bytes(), &res.Body)
	if m, ok := res.Body.Data.(map[string]any); ok {
		res.Data = m
	}
	return res
}

func TestTokenAndClaimFlow(t *testing.T) {
	s := newTestServer(t)
	machine := bearer(t, "M1", jwt.RoleMachine)

	res := s.do(t, http.MethodPost, "/api/v1/tokens", "", map[string]any{"amount": 100})
	if res.Status != http.StatusUnauthorized {
		t.Fatalf("no auth status = %d", res.Status)
	}

	res = s.do(t, http.MethodPost, "/api/v1/tokens", machine, map[string]any{"amount": 97})
	if res.Body.Code != response.CodeOK || res.Data["points_granted"] != float64(9) {
		t.Fatalf("issue = %+v", res.Body)
	}
	token := res.Data["token"].(string)

	claim := map[string]any{"token": token, "line_user_id": "U1"}
	res = s.do(t, http.MethodPost, "/api/v1/points/claim", "", claim)
	if res.Body.Code != response.CodeOK || res.Data["new_balance"] != float64(9) {
		t.Fatalf("claim = %+v", res.Body)
	}
	res = s.do(t, http.MethodPost, "/api/v1/points/claim", "", claim)
	if res.Status != http.StatusOK || res.Body.Code != response.CodeTokenUsed {
		t.Fatalf("second claim = %d %+v", res.Status, res.Body)
	}

	res = s.do(t, http.MethodGet, "/api/v1/points/balance?line_user_id=U1", "", nil)
	if res.Data["balance"] != float64(9) {
		t.Fatalf("balance = %+v", res.Body)
	}
	res = s.do(t, http.MethodGet, "/api/v1/points/records?line_user_id=U1&limit=5", "", nil)
	if records, _ := res.Data["records"].([]any); len(records) != 1 {
		t.Fatalf("records = %+v", res.Body)
	}
}

func TestRedeemConfirmAndRefund(t *testing.T) {
	s := newTestServer(t)
	machine := bearer(t, "M1", jwt.RoleMachine)

	res := s.do(t, http.MethodPost, "/api/v1/tokens", machine, map[string]any{"amount": 100})
	s.do(t, http.MethodPost, "/api/v1/points/claim", "", map[string]any{"token": res.Data["token"], "line_user_id": "U1"})

	res = s.do(t, http.MethodPost, "/api/v1/points/redeem", "", map[string]any{"line_user_id": "U1", "points": 50, "machine_id": "M1"})
	if res.Body.Code != response.CodeInsufficient {
		t.Fatalf("overdraw = %+v", res.Body)
	}
	res = s.do(t, http.MethodPost, "/api/v1/points/redeem", "", map[string]any{"line_user_id": "U1", "points": 4, "machine_id": "M1"})
	if res.Body.Code != response.CodeOK || res.Data["signal"] != "SUCCESS: MACHINE_M1_START" {
		t.Fatalf("redeem = %+v", res.Body)
	}

	res = s.do(t, http.MethodPost, "/api/v1/machines/M2/confirm", machine, nil)
	if res.Body.Code != response.CodeForbidden {
		t.Fatalf("confirm other machine = %+v", res.Body)
	}
	res = s.do(t, http.MethodPost, "/api/v1/machines/M1/confirm", machine, nil)
	if res.Body.Code != response.CodeOK {
		t.Fatalf("confirm = %+v", res.Body)
	}
	res = s.do(t, http.MethodPost, "/api/v1/machines/M1/confirm", machine, nil)
	if res.Body.Code != response.CodeNoPending {
		t.Fatalf("second confirm = %+v", res.Body)
	}

	res = s.do(t, http.MethodPost, "/api/v1/points/refund", "", map[string]any{"line_user_id": "U1"})
	if res.Body.Code != response.CodeNoPending {
		t.Fatalf("refund confirmed = %+v", res.Body)
	}
}

func TestRequestApproveAndAdmin(t *testing.T) {
	s := newTestServer(t)
	admin := bearer(t, "U_admin", jwt.RoleAdmin)

	res := s.do(t, http.MethodPost, "/api/v1/requests", "", map[string]any{"line_user_id": "U9", "points": 20})
	if res.Body.Code != response.CodeOK {
		t.Fatalf("request = %+v", res.Body)
	}
	code := res.Data["code"].(string)

	res = s.do(t, http.MethodGet, "/api/v1/requests", bearer(t, "M1", jwt.RoleMachine), nil)
	if res.Status != http.StatusUnauthorized {
		t.Fatalf("machine list status = %d", res.Status)
	}
	res = s.do(t, http.MethodGet, "/api/v1/requests", admin, nil)
	if items, _ := res.Body.Data.([]any); len(items) != 1 {
		t.Fatalf("list = %+v", res.Body)
	}

	res = s.do(t, http.MethodPost, "/api/v1/requests/"+code+"/approve", admin, nil)
	if res.Body.Code != response.CodeOK || res.Data["new_balance"] != float64(20) {
		t.Fatalf("approve = %+v", res.Body)
	}
	res = s.do(t, http.MethodPost, "/api/v1/requests/"+code+"/approve", admin, nil)
	if res.Body.Code != response.CodeNotFound {
		t.Fatalf("second approve = %+v", res.Body)
	}

	res = s.do(t, http.MethodPut, "/api/v1/admin/ratio", admin, map[string]any{"baht_val": 0, "point_val": 1})
	if res.Body.Code != response.CodeInvalidInput {
		t.Fatalf("bad ratio = %+v", res.Body)
	}
	s.do(t, http.MethodPut, "/api/v1/admin/ratio", admin, map[string]any{"baht_val": 5, "point_val": 1})
	res = s.do(t, http.MethodGet, "/api/v1/admin/ratio", admin, nil)
	if res.Data["baht_val"] != float64(5) {
		t.Fatalf("ratio = %+v", res.Body)
	}
}

func sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testChannelSecret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestWebhook(t *testing.T) {
	s := newTestServer(t)
	body := []byte(`{"events":[
		{"type":"message","replyToken":"r1","source":{"userId":"U1"},"message":{"type":"text","text":"USER_LINE"}},
		{"type":"follow","replyToken":"r2","source":{"userId":"U1"}},
		{"type":"message","replyToken":"r3","source":{"userId":"U1"},"message":{"type":"sticker"}}
	]}`)

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set("X-Line-Signature", "bm90LXZhbGlk")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized || len(s.replier.replies) != 0 {
		t.Fatalf("bad signature status = %d replies = %v", w.Code, s.replier.replies)
	}

	req = httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set("X-Line-Signature", sign(body))
	w = httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if len(s.replier.replies) != 1 || !strings.Contains(s.replier.replies[0], "U1") {
		t.Fatalf("replies = %v", s.replier.replies)
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("healthz = %d %s", w.Code, w.Body.String())
	}
}

func TestMemberRoutes_BoundToIDToken(t *testing.T) {
	s := buildTestServer(t, "165000", fakeVerifier{"id-u1": "U1"})
	machine := bearer(t, "M1", jwt.RoleMachine)
	member := "Bearer id-u1"

	res := s.do(t, http.MethodPost, "/api/v1/tokens", machine, map[string]any{"amount": 100})
	token := res.Data["token"].(string)

	res = s.do(t, http.MethodPost, "/api/v1/points/claim", "", map[string]any{"token": token, "line_user_id": "U1"})
	if res.Status != http.StatusUnauthorized {
		t.Fatalf("claim without id token status = %d", res.Status)
	}
	res = s.do(t, http.MethodPost, "/api/v1/points/claim", "Bearer forged", map[string]any{"token": token, "line_user_id": "U1"})
	if res.Status != http.StatusUnauthorized {
		t.Fatalf("claim with bad id token status = %d", res.Status)
	}

	// 拿自己的 ID token 冒充别人
	res = s.do(t, http.MethodPost, "/api/v1/points/claim", member, map[string]any{"token": token, "line_user_id": "U2"})
	if res.Body.Code != response.CodeForbidden {
		t.Fatalf("claim for other member = %+v", res.Body)
	}
	res = s.do(t, http.MethodPost, "/api/v1/points/claim", member, map[string]any{"token": token, "line_user_id": "U1"})
	if res.Body.Code != response.CodeOK || res.Data["new_balance"] != float64(10) {
		t.Fatalf("claim = %+v", res.Body)
	}

	res = s.do(t, http.MethodPost, "/api/v1/points/redeem", member, map[string]any{"line_user_id": "U2", "points": 5, "machine_id": "M1"})
	if res.Body.Code != response.CodeForbidden {
		t.Fatalf("redeem for other member = %+v", res.Body)
	}
	res = s.do(t, http.MethodPost, "/api/v1/points/refund", member, map[string]any{"line_user_id": "U2"})
	if res.Body.Code != response.CodeForbidden {
		t.Fatalf("refund for other member = %+v", res.Body)
	}
	res = s.do(t, http.MethodGet, "/api/v1/points/balance?line_user_id=U2", member, nil)
	if res.Body.Code != response.CodeForbidden {
		t.Fatalf("balance of other member = %+v", res.Body)
	}
	res = s.do(t, http.MethodGet, "/api/v1/points/balance?line_user_id=U1", member, nil)
	if res.Data["balance"] != float64(10) {
		t.Fatalf("balance = %+v", res.Body)
	}

	res = s.do(t, http.MethodPost, "/api/v1/requests", "", map[string]any{"line_user_id": "U1", "points": 5})
	if res.Status != http.StatusUnauthorized {
		t.Fatalf("request without id token status = %d", res.Status)
	}
	res = s.do(t, http.MethodPost, "/api/v1/requests", member, map[string]any{"line_user_id": "U1", "points": 5})
	if res.Body.Code != response.CodeOK {
		t.Fatalf("request = %+v", res.Body)
	}
}
