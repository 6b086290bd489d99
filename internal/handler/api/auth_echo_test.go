package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"PatternPulse/internal/domain/models"
	internalrepo "PatternPulse/internal/repository"
	"PatternPulse/internal/services/market"
	"PatternPulse/internal/usecase"
	xlogger "PatternPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

func newAuthTestServer(t *testing.T) (*echo.Echo, *usecase.AuthService) {
	t.Helper()
	log, err := xlogger.New(&xlogger.Config{Level: "error", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	store := internalrepo.NewMemoryStore()
	sender := internalrepo.NewLogWhatsAppSender(log)
	auth := usecase.NewAuthService(store, store, store.OTP(), sender,
		market.NewSource(1), log, time.Hour, time.Minute)

	e := echo.New()
	NewAuthEchoHandler(log, auth).RegisterRoutes(e)
	return e, auth
}

func postJSON(t *testing.T, e *echo.Echo, target, body, token string) envelope {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	return env
}

func TestSignupThenLoginOverHTTP(t *testing.T) {
	e, _ := newAuthTestServer(t)

	env := postJSON(t, e, "/api/auth/signup",
		`{"email":"trader@example.com","phone":"+91 9876543210","password":"hunter2"}`, "")
	if env.Status != http.StatusCreated {
		t.Fatalf("signup status = %d, body %s", env.Status, env.Data)
	}
	var sess models.Session
	if err := json.Unmarshal(env.Data, &sess); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if sess.Token == "" {
		t.Fatal("signup returned empty token")
	}

	env = postJSON(t, e, "/api/auth/signup",
		`{"email":"trader@example.com","phone":"+91 9876543210","password":"hunter2"}`, "")
	if env.Status != http.StatusConflict {
		t.Fatalf("duplicate signup status = %d, want 409", env.Status)
	}

	env = postJSON(t, e, "/api/auth/login",
		`{"identifier":"trader@example.com","password":"hunter2"}`, "")
	if env.Status != http.StatusOK {
		t.Fatalf("login status = %d", env.Status)
	}

	env = postJSON(t, e, "/api/auth/login",
		`{"identifier":"trader@example.com","password":"wrong"}`, "")
	if env.Status != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d, want 401", env.Status)
	}
}

func TestSignupValidation(t *testing.T) {
	e, _ := newAuthTestServer(t)

	// Missing email.
	env := postJSON(t, e, "/api/auth/signup", `{"phone":"+91 9876543210","password":"hunter2"}`, "")
	if env.Status != http.StatusBadRequest {
		t.Fatalf("missing email status = %d, want 400", env.Status)
	}

	// Short phone passes struct validation but the use case rejects it.
	env = postJSON(t, e, "/api/auth/signup",
		`{"email":"a@b.c","phone":"123","password":"hunter2"}`, "")
	if env.Status != http.StatusBadRequest {
		t.Fatalf("short phone status = %d, want 400", env.Status)
	}
}

func TestOTPFlowOverHTTP(t *testing.T) {
	e, auth := newAuthTestServer(t)

	env := postJSON(t, e, "/api/auth/signup",
		`{"email":"trader@example.com","phone":"+91 9876543210","password":"hunter2"}`, "")
	var sess models.Session
	if err := json.Unmarshal(env.Data, &sess); err != nil {
		t.Fatalf("decode session: %v", err)
	}

	// Anonymous request is rejected.
	env = postJSON(t, e, "/api/auth/otp/request", `{}`, "")
	if env.Status != http.StatusUnauthorized {
		t.Fatalf("anonymous otp status = %d, want 401", env.Status)
	}

	env = postJSON(t, e, "/api/auth/otp/request", `{}`, sess.Token)
	if env.Status != http.StatusOK {
		t.Fatalf("otp request status = %d", env.Status)
	}

	env = postJSON(t, e, "/api/auth/otp/verify", `{"code":"9999"}`, sess.Token)
	if env.Status != http.StatusBadRequest {
		t.Fatalf("wrong code status = %d, want 400", env.Status)
	}

	// Codes not exactly 4 characters fail validation.
	env = postJSON(t, e, "/api/auth/otp/verify", `{"code":"12"}`, sess.Token)
	if env.Status != http.StatusBadRequest {
		t.Fatalf("short code status = %d, want 400", env.Status)
	}

	// market.NewSource(1).Intn(10000) is deterministic, so reproduce it.
	wantCode := fmt.Sprintf("%04d", market.NewSource(1).Intn(10000))
	env = postJSON(t, e, "/api/auth/otp/verify", `{"code":"`+wantCode+`"}`, sess.Token)
	if env.Status != http.StatusOK {
		t.Fatalf("verify status = %d", env.Status)
	}
	var verified models.Session
	if err := json.Unmarshal(env.Data, &verified); err != nil {
		t.Fatalf("decode verified session: %v", err)
	}
	if !verified.WhatsAppVerified {
		t.Fatal("session not verified after otp")
	}

	// The stored session reflects it too.
	got, err := auth.Session(httptest.NewRequest(http.MethodGet, "/", nil).Context(), sess.Token)
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if !got.WhatsAppVerified {
		t.Fatal("stored session not verified")
	}
}

func TestLogoutOverHTTP(t *testing.T) {
	e, _ := newAuthTestServer(t)

	env := postJSON(t, e, "/api/auth/signup",
		`{"email":"trader@example.com","phone":"+91 9876543210","password":"hunter2"}`, "")
	var sess models.Session
	if err := json.Unmarshal(env.Data, &sess); err != nil {
		t.Fatalf("decode session: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+sess.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout code = %d, want 204", rec.Code)
	}

	env = postJSON(t, e, "/api/auth/otp/request", `{}`, sess.Token)
	if env.Status != http.StatusUnauthorized {
		t.Fatalf("stale token status = %d, want 401", env.Status)
	}
}
