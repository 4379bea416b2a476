package auth

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/casaluxe/stay/internal/api/authz"
	"github.com/casaluxe/stay/internal/config"
)

func withTestConfig(t *testing.T) {
	t.Helper()
	prevConfig := appConfig
	appConfig = &config.Config{}
	appConfig.App.SecretKey = "test-secret"
	appConfig.App.Environment = "development"
	t.Cleanup(func() {
		appConfig = prevConfig
	})
}

func requestWithCookies(cookies []*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func TestAuthCookieRoundTrip(t *testing.T) {
	withTestConfig(t)

	rec := httptest.NewRecorder()
	user := &authz.AuthUser{ID: "u-1", Email: "owner@example.com", Role: authz.RoleAdmin, Provider: "local"}
	if err := SetAuthCookie(rec, user); err != nil {
		t.Fatalf("SetAuthCookie: %v", err)
	}

	got, err := UserFromRequest(requestWithCookies(rec.Result().Cookies()))
	if err != nil {
		t.Fatalf("UserFromRequest: %v", err)
	}
	if got == nil || *got != *user {
		t.Fatalf("user = %+v, want %+v", got, user)
	}
}

func TestUserFromRequestWithoutCookie(t *testing.T) {
	withTestConfig(t)

	got, err := UserFromRequest(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil || got != nil {
		t.Fatalf("UserFromRequest = %v, %v; want nil, nil", got, err)
	}
}

func TestParseAuthCookieRejectsTampering(t *testing.T) {
	withTestConfig(t)

	rec := httptest.NewRecorder()
	if err := SetAuthCookie(rec, &authz.AuthUser{ID: "u-1", Role: "viewer"}); err != nil {
		t.Fatalf("SetAuthCookie: %v", err)
	}
	cookie := rec.Result().Cookies()[0]
	_, signature, _ := strings.Cut(cookie.Value, ".")

	forged, _ := json.Marshal(authSession{Subject: "u-1", Role: authz.RoleAdmin, ExpiresAt: time.Now().Add(time.Hour).Unix()})
	cookie.Value = base64.RawURLEncoding.EncodeToString(forged) + "." + signature

	if _, err := parseAuthCookie(requestWithCookies([]*http.Cookie{cookie})); err == nil {
		t.Fatal("expected signature error for forged payload")
	}
}

func TestParseAuthCookieRejectsExpired(t *testing.T) {
	withTestConfig(t)

	payload, _ := json.Marshal(authSession{Subject: "u-1", Role: authz.RoleAdmin, ExpiresAt: time.Now().Add(-time.Minute).Unix()})
	encoded := base64.RawURLEncoding.EncodeToString(payload)
	signature, err := signPayload(encoded)
	if err != nil {
		t.Fatalf("signPayload: %v", err)
	}
	cookie := &http.Cookie{Name: authCookieName, Value: encoded + "." + signature}

	if _, err := parseAuthCookie(requestWithCookies([]*http.Cookie{cookie})); err == nil {
		t.Fatal("expected expired session error")
	}
}

func TestParseAuthCookieRequiresSecret(t *testing.T) {
	prevConfig := appConfig
	appConfig = &config.Config{}
	t.Cleanup(func() {
		appConfig = prevConfig
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if session, err := parseAuthCookie(req); session != nil || err != nil {
		t.Fatalf("no cookie: session = %v, err = %v", session, err)
	}

	req.AddCookie(&http.Cookie{Name: authCookieName, Value: "payload.signature"})
	if _, err := parseAuthCookie(req); err != errAuthConfigMissing {
		t.Fatalf("err = %v, want errAuthConfigMissing", err)
	}
}

func TestClearAuthCookie(t *testing.T) {
	withTestConfig(t)

	rec := httptest.NewRecorder()
	ClearAuthCookie(rec)
	cookies := rec.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("cookies = %d, want 2", len(cookies))
	}
	for _, c := range cookies {
		if c.MaxAge >= 0 {
			t.Errorf("cookie %s not expired", c.Name)
		}
	}
}
