package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/user-admin/internal/core/service"
	"github.com/99minutos/user-admin/internal/infrastructure/db/memory"
)

const (
	testPermanentCode = "perm-code"
	testTemporaryCode = "temp-code"
	testSecret        = "test-secret"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	e     *echo.Echo
	users *memory.UserRepository
	auth  *service.AuthService
}

func newTestEnv(t *testing.T, requireAuth bool) *testEnv {
	t.Helper()
	log := zerolog.Nop()
	users := memory.NewUserRepository()
	admins := memory.NewAdminRepository()

	authSvc := service.NewAuthService(admins, nil, testSecret, time.Hour, log)
	codes := service.GrantCodes{Permanent: testPermanentCode, Temporary: testTemporaryCode}

	e := NewRouter(Deps{
		Bans:        service.NewBanService(users, nil, log),
		Grants:      service.NewGrantService(users, codes, nil, log).WithClock(func() time.Time { return fixedNow }),
		Users:       service.NewUserService(users, log),
		Auth:        authSvc,
		JWTSecret:   testSecret,
		RequireAuth: requireAuth,
		Log:         log,
	})
	return &testEnv{e: e, users: users, auth: authSvc}
}

func (env *testEnv) do(t *testing.T, method, path, body, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)

	var resp map[string]any
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
		}
	}
	return rec, resp
}

func TestRouter_TemporaryGrantShowsInListAdmins(t *testing.T) {
	env := newTestEnv(t, false)
	wantExpiry := fixedNow.Add(service.DefaultTemporaryTTL).Format(time.RFC3339)

	rec, resp := env.do(t, http.MethodPost, "/becomeAdmin", `{"uid":"u1","code":"temp-code"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if resp["success"] != true || resp["type"] != "temporary" {
		t.Fatalf("unexpected grant response: %+v", resp)
	}
	if resp["expiresAt"] != wantExpiry {
		t.Fatalf("expected expiresAt %s, got %v", wantExpiry, resp["expiresAt"])
	}

	rec, resp = env.do(t, http.MethodGet, "/listAdmins", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	admins, ok := resp["admins"].([]any)
	if !ok || len(admins) != 1 {
		t.Fatalf("expected one admin, got %+v", resp["admins"])
	}
	admin := admins[0].(map[string]any)
	if admin["uid"] != "u1" || admin["type"] != "temporary" || admin["expiresAt"] != wantExpiry {
		t.Fatalf("unexpected admin entry: %+v", admin)
	}
}

func TestRouter_PermanentGrantHasNullExpiry(t *testing.T) {
	env := newTestEnv(t, false)

	rec, resp := env.do(t, http.MethodPost, "/makeAdmin", `{"uid":"u9","type":"perm-code"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if resp["type"] != "permanent" {
		t.Fatalf("expected permanent, got %v", resp["type"])
	}
	if _, present := resp["expiresAt"]; present {
		t.Fatalf("permanent grant must not carry expiresAt")
	}

	_, resp = env.do(t, http.MethodGet, "/listAdmins", "", "")
	admin := resp["admins"].([]any)[0].(map[string]any)
	if admin["expiresAt"] != nil {
		t.Fatalf("expected null expiresAt, got %v", admin["expiresAt"])
	}
}

func TestRouter_BanUnknownUserCreatesRecord(t *testing.T) {
	env := newTestEnv(t, false)

	rec, resp := env.do(t, http.MethodPost, "/banUser", `{"uid":"u2","action":"ban"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if resp["success"] != true || resp["action"] != "ban" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	u, err := env.users.Get(context.Background(), "u2")
	if err != nil {
		t.Fatalf("record not created: %v", err)
	}
	if !u.Banned {
		t.Fatalf("expected banned=true")
	}
}

func TestRouter_ErrorEnvelopes(t *testing.T) {
	env := newTestEnv(t, false)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"ban without action", http.MethodPost, "/banUser", `{"uid":"u3"}`, http.StatusBadRequest, "Missing uid or action"},
		{"ban without uid", http.MethodPost, "/banUser", `{"action":"ban"}`, http.StatusBadRequest, "Missing uid or action"},
		{"ban unknown action", http.MethodPost, "/banUser", `{"uid":"u3","action":"mute"}`, http.StatusBadRequest, "Unknown action"},
		{"grant without code", http.MethodPost, "/becomeAdmin", `{"uid":"u4"}`, http.StatusBadRequest, "Missing uid or code"},
		{"grant invalid code", http.MethodPost, "/becomeAdmin", `{"uid":"u4","code":"nope"}`, http.StatusForbidden, "Invalid code"},
		{"create without uid", http.MethodPost, "/createUserDoc", `{"email":"a@b.co"}`, http.StatusBadRequest, "Missing uid"},
		{"login missing password", http.MethodPost, "/adminLogin", `{"username":"op"}`, http.StatusBadRequest, "Missing username or password"},
		{"login unknown user", http.MethodPost, "/adminLogin", `{"username":"op","password":"x"}`, http.StatusUnauthorized, "Invalid credentials"},
		{"malformed body", http.MethodPost, "/banUser", `{`, http.StatusBadRequest, "Invalid request body"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, resp := env.do(t, tc.method, tc.path, tc.body, "")
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tc.wantStatus, rec.Code, rec.Body.String())
			}
			if resp["success"] != false || resp["message"] != tc.wantMsg {
				t.Fatalf("unexpected envelope: %+v", resp)
			}
		})
	}

	if _, err := env.users.Get(context.Background(), "u4"); err == nil {
		t.Fatalf("invalid code must not create a record")
	}
}

func TestRouter_CreateUserDocIsIdempotent(t *testing.T) {
	env := newTestEnv(t, false)

	_, resp := env.do(t, http.MethodPost, "/createUserDoc", `{"uid":"u6","email":"u6@example.com"}`, "")
	if resp["created"] != true {
		t.Fatalf("expected created=true, got %+v", resp)
	}
	_, _ = env.do(t, http.MethodPost, "/banUser", `{"uid":"u6","action":"ban"}`, "")

	_, resp = env.do(t, http.MethodPost, "/createUserDoc", `{"uid":"u6","email":"other@example.com"}`, "")
	if resp["success"] != true || resp["created"] != false {
		t.Fatalf("expected created=false, got %+v", resp)
	}

	u, _ := env.users.Get(context.Background(), "u6")
	if !u.Banned || u.Email != "u6@example.com" {
		t.Fatalf("existing record must be untouched: %+v", u)
	}
}

func TestRouter_CreateUserDocAcceptsAnyEmailString(t *testing.T) {
	env := newTestEnv(t, false)

	rec, resp := env.do(t, http.MethodPost, "/createUserDoc", `{"uid":"u5","email":"not-an-address"}`, "")
	if rec.Code != http.StatusOK || resp["created"] != true {
		t.Fatalf("expected record to be created, got %d %+v", rec.Code, resp)
	}
	u, _ := env.users.Get(context.Background(), "u5")
	if u.Email != "not-an-address" {
		t.Fatalf("unexpected email: %q", u.Email)
	}
}

func TestRouter_ListUsers(t *testing.T) {
	env := newTestEnv(t, false)
	_, _ = env.do(t, http.MethodPost, "/banUser", `{"uid":"b","action":"ban"}`, "")
	_, _ = env.do(t, http.MethodPost, "/createUserDoc", `{"uid":"a"}`, "")

	rec, resp := env.do(t, http.MethodGet, "/listUsers", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	users := resp["users"].([]any)
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	first := users[0].(map[string]any)
	if first["uid"] != "a" || first["banned"] != false {
		t.Fatalf("unexpected first user: %+v", first)
	}
}

func TestRouter_RequireAuth(t *testing.T) {
	env := newTestEnv(t, true)
	if err := env.auth.Register(context.Background(), "operator", "s3cret", "uid-op"); err != nil {
		t.Fatalf("register: %v", err)
	}

	rec, resp := env.do(t, http.MethodGet, "/listUsers", "", "")
	if rec.Code != http.StatusUnauthorized || resp["success"] != false {
		t.Fatalf("expected 401 envelope, got %d %+v", rec.Code, resp)
	}

	rec, resp = env.do(t, http.MethodPost, "/adminLogin", `{"username":"operator","password":"s3cret"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	if resp["uid"] != "uid-op" {
		t.Fatalf("unexpected uid: %v", resp["uid"])
	}
	token, _ := resp["token"].(string)
	if token == "" {
		t.Fatalf("expected token")
	}

	rec, _ = env.do(t, http.MethodPost, "/banUser", `{"uid":"u7","action":"ban"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d: %s", rec.Code, rec.Body.String())
	}

	rec, _ = env.do(t, http.MethodPost, "/createUserDoc", `{"uid":"u8"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("createUserDoc must stay public, got %d", rec.Code)
	}
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	env := newTestEnv(t, false)

	rec, resp := env.do(t, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK || resp["status"] != "ok" {
		t.Fatalf("unexpected liveness: %d %+v", rec.Code, resp)
	}

	rec, _ = env.do(t, http.MethodGet, "/health/ready", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected ready, got %d", rec.Code)
	}

	_, _ = env.do(t, http.MethodPost, "/banUser", `{"uid":"m1","action":"ban"}`, "")
	rec, _ = env.do(t, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "useradmin_bans_total") {
		t.Fatalf("expected domain metrics in exposition")
	}
}

func TestRouter_UnknownRouteUsesEnvelope(t *testing.T) {
	env := newTestEnv(t, false)

	rec, resp := env.do(t, http.MethodGet, "/nope", "", "")
	if rec.Code != http.StatusNotFound || resp["success"] != false {
		t.Fatalf("expected 404 envelope, got %d %+v", rec.Code, resp)
	}
}
