package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DhavalSuthar-24/cricksim/config"
	"github.com/DhavalSuthar-24/cricksim/pkg/token"
	"github.com/DhavalSuthar-24/cricksim/utils"
	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := utils.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	cfg := &config.Config{}
	cfg.Operator.Username = "ops"
	cfg.Operator.PasswordHash = hash
	cfg.JWT.AccessTokenSecret = "secret"
	cfg.JWT.AccessTokenExpiryMinutes = 5

	r := gin.New()
	RegisterAuthRoutes(r.Group("/api"), cfg)
	return r
}

func TestLogin(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"valid", `{"username":"ops","password":"s3cret"}`, http.StatusOK},
		{"wrong password", `{"username":"ops","password":"nope"}`, http.StatusUnauthorized},
		{"wrong user", `{"username":"root","password":"s3cret"}`, http.StatusUnauthorized},
		{"missing fields", `{}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)
			if w.Code != tt.code {
				t.Fatalf("expected %d, got %d: %s", tt.code, w.Code, w.Body.String())
			}
			if tt.code != http.StatusOK {
				return
			}
			var resp AuthResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			claims, err := token.ValidateJWT(resp.AccessToken, "secret")
			if err != nil {
				t.Fatalf("issued token invalid: %v", err)
			}
			if claims.Role != token.RoleOperator {
				t.Fatalf("expected operator role, got %s", claims.Role)
			}
		})
	}
}
