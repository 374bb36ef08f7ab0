package crontask

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	pkgcron "github.com/portal-berita/core/internal/pkg/cron"
)

func TestHandler_RunSyncReportsResult(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sched := pkgcron.New()
	if err := sched.Register(pkgcron.Job{Name: "sweep", Spec: "@every 1h", Fn: func(context.Context) error {
		return errors.New("bucket unreachable")
	}}); err != nil {
		t.Fatalf("register: %v", err)
	}
	r := gin.New()
	NewHandler(sched).RegisterRoutes(r.Group("/api"), func(c *gin.Context) { c.Next() })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/cron/sweep/run?wait=1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body struct {
		Data pkgcron.TaskResult `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Status != pkgcron.StatusReject || body.Data.Message != "bucket unreachable" {
		t.Fatalf("result=%+v", body.Data)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/cron/missing/run", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing job status=%d", w.Code)
	}
}
