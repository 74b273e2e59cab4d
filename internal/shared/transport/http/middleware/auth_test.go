package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Skirmish/internal/shared/security"
	"Skirmish/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

func newAuthEngine(t *testing.T) (*gin.Engine, *security.Signer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	signer, err := security.NewSigner("middleware-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	e := gin.New()
	e.Use(AccessLog(logx.Nop()))
	e.POST("/orders", BearerAuth(signer), func(c *gin.Context) {
		claims, _ := ClaimsFrom(c)
		c.JSON(http.StatusOK, gin.H{"player": claims.Player})
	})
	return e, signer
}

func TestBearerAuth_缺少token返回401(t *testing.T) {
	e, _ := newAuthEngine(t)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/orders", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("期望 401, got=%d", w.Code)
	}
}

func TestBearerAuth_合法token放行并写入claims(t *testing.T) {
	e, signer := newAuthEngine(t)
	token, _ := signer.Award(3)
	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200, got=%d body=%s", w.Code, w.Body.String())
	}
	if w.Body.String() != `{"player":3}` {
		t.Fatalf("期望 player=3, got=%s", w.Body.String())
	}
}
