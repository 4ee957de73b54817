package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"foodgram-go/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type stubAuth struct{}

func (stubAuth) Authenticate(_ context.Context, token string) (*utils.Claims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &utils.Claims{UserID: 42}, nil
}

func newAuthRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"viewer": ViewerID(c)})
	})
	return r
}

func serve(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	r := newAuthRouter(AuthRequired(stubAuth{}))

	tests := []struct {
		header string
		status int
	}{
		{"", http.StatusUnauthorized},
		{"Token good", http.StatusOK},
		{"Bearer good", http.StatusOK},
		{"token good", http.StatusOK},
		{"Basic good", http.StatusUnauthorized},
		{"Token bad", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		if w := serve(r, tt.header); w.Code != tt.status {
			t.Errorf("header %q: status = %d, want %d", tt.header, w.Code, tt.status)
		}
	}
}

func TestAuthOptional(t *testing.T) {
	r := newAuthRouter(AuthOptional(stubAuth{}))

	if w := serve(r, ""); w.Code != http.StatusOK || w.Body.String() != `{"viewer":0}` {
		t.Errorf("anonymous: %d %s", w.Code, w.Body.String())
	}
	if w := serve(r, "Token good"); w.Body.String() != `{"viewer":42}` {
		t.Errorf("authenticated: %s", w.Body.String())
	}
	if w := serve(r, "Token bad"); w.Code != http.StatusUnauthorized {
		t.Errorf("invalid token: status = %d, want 401", w.Code)
	}
}

func TestUsernameValidator(t *testing.T) {
	if err := RegisterValidators(); err != nil {
		t.Fatal(err)
	}

	type form struct {
		Username string `binding:"required,username"`
	}
	for name, ok := range map[string]bool{
		"chef.ivan": true,
		"a+b@c-d_e": true,
		"bad name":  false,
		"имя!":      false,
	} {
		err := binding.Validator.ValidateStruct(&form{Username: name})
		if (err == nil) != ok {
			t.Errorf("username %q: err = %v, want ok=%v", name, err, ok)
		}
	}
}
