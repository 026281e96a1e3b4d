package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestErrorWithDataAttachesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/conflict", func(c *gin.Context) {
		c.Set("request_id", "req-9")
		ErrorWithData(c, CodeConflict, "shift taken", gin.H{"held_shift_type": 1})
	})
	r.GET("/plain", func(c *gin.Context) {
		Error(c, CodeNotFound, "missing")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/conflict", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("http status want 200 got %d", w.Code)
	}
	var resp struct {
		StatusCode int                    `json:"status_code"`
		Data       map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if resp.StatusCode != CodeConflict || resp.Data["request_id"] != "req-9" || resp.Data["held_shift_type"] != float64(1) {
		t.Fatalf("unexpected response: %+v", resp)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/plain", nil))
	var plain Response
	if err := json.Unmarshal(w.Body.Bytes(), &plain); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if plain.StatusCode != CodeNotFound || plain.Data != nil {
		t.Fatalf("unexpected plain response: %+v", plain)
	}
}

func TestWrapErrorUnwraps(t *testing.T) {
	inner := http.ErrHandlerTimeout
	err := WrapError(CodeUnavailable, "gateway", inner)
	if err.Unwrap() != inner || err.Error() != "gateway: "+inner.Error() {
		t.Fatalf("unexpected wrapped error: %v", err)
	}
	if WrapError(CodeBadRequest, "bad", nil).Error() != "bad" {
		t.Fatalf("nil inner should keep message only")
	}
}
