package ez

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"go-gin-todo-api/internal/domain"
	mdw "go-gin-todo-api/internal/transport/http/middleware"
)

type nameIn struct {
	Name string `json:"name" binding:"required"`
}

func newEngine(auth bool, status int, h func(*gin.Context, Caller, *nameIn) (gin.H, error)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/x")
	if auth {
		g.Use(func(c *gin.Context) { c.Set(mdw.KeyUserID, c.GetHeader("X-User")) })
	}
	RegisterAction(New(g, nil), Action[nameIn, gin.H]{
		Method:  http.MethodPost,
		Path:    "/:id",
		Binder:  BindJSON,
		Auth:    auth,
		Status:  status,
		Handler: h,
	})
	return r
}

func post(r *gin.Engine, path, body, user string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-User", user)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterActionErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"conflict", domain.ErrConflict, http.StatusConflict},
		{"mismatch", domain.ErrIDMismatch, http.StatusBadRequest},
		{"action error", BadRequest("invalid id"), http.StatusBadRequest},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine(false, 0, func(*gin.Context, Caller, *nameIn) (gin.H, error) { return nil, tt.err })
			w := post(r, "/x/1", `{"name":"n"}`, "")
			if w.Code != tt.code {
				t.Fatalf("status = %d, want %d", w.Code, tt.code)
			}
			if tt.code == http.StatusInternalServerError && strings.Contains(w.Body.String(), "disk") {
				t.Errorf("internal detail leaked: %s", w.Body.String())
			}
		})
	}
}

func TestRegisterActionBindAndAuth(t *testing.T) {
	var seen Caller
	r := newEngine(true, http.StatusNoContent, func(_ *gin.Context, who Caller, in *nameIn) (gin.H, error) {
		seen = who
		return nil, nil
	})

	if w := post(r, "/x/1", `{"name":"n"}`, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", w.Code)
	}
	if w := post(r, "/x/1", `{}`, "u1"); w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "name is required") {
		t.Errorf("bind failure = %d %s", w.Code, w.Body.String())
	}
	w := post(r, "/x/1", `{"name":"n"}`, "u1")
	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Errorf("success = %d %q", w.Code, w.Body.String())
	}
	if seen.UserID != "u1" {
		t.Errorf("caller = %+v", seen)
	}
}

func TestParamID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for raw, ok := range map[string]bool{"7": true, "0": false, "-1": false, "x": false} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Params = gin.Params{{Key: "id", Value: raw}}
		id, err := ParamID(c, "id")
		if (err == nil) != ok {
			t.Errorf("ParamID(%q) = %d, %v", raw, id, err)
		}
	}
}
