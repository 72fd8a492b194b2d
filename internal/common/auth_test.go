package common

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newGuardedServer() *echo.Echo {
	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "inside")
	}, NewBasicAuthGuard("admin", "secret"))
	return e
}

func TestBasicAuthGuard(t *testing.T) {
	tests := []struct {
		name       string
		username   string
		password   string
		setAuth    bool
		wantStatus int
	}{
		{name: "valid credentials", username: "admin", password: "secret", setAuth: true, wantStatus: http.StatusOK},
		{name: "wrong password", username: "admin", password: "wrong", setAuth: true, wantStatus: http.StatusUnauthorized},
		{name: "wrong username", username: "root", password: "secret", setAuth: true, wantStatus: http.StatusUnauthorized},
		{name: "password prefix", username: "admin", password: "secre", setAuth: true, wantStatus: http.StatusUnauthorized},
		{name: "empty credentials", username: "", password: "", setAuth: true, wantStatus: http.StatusUnauthorized},
		{name: "no header", setAuth: false, wantStatus: http.StatusUnauthorized},
	}

	e := newGuardedServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.setAuth {
				req.SetBasicAuth(tt.username, tt.password)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantStatus == http.StatusUnauthorized {
				challenge := rec.Header().Get(echo.HeaderWWWAuthenticate)
				if !strings.HasPrefix(strings.ToLower(challenge), "basic") {
					t.Fatalf("expected basic auth challenge, got %q", challenge)
				}
			}
		})
	}
}
