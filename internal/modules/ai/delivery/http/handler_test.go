package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	ai "github.com/SahilxSingh/EduConnect/internal/modules/ai/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type stubModel struct {
	answer string
	err    error
}

func (s stubModel) Name() string { return "stub" }

func (s stubModel) Generate(context.Context, string) (string, error) { return s.answer, s.err }

func ask(t *testing.T, svc ai.AIService, body string) (int, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/ai/ask-doubt", NewAIHandler(svc).AskDoubt)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/ai/ask-doubt", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json %q: %v", w.Body.String(), err)
	}
	return w.Code, out
}

func TestAskDoubtHandler(t *testing.T) {
	answering := ai.NewAIService(ai.Options{Providers: []ai.Provider{stubModel{answer: "42"}}}, zerolog.Nop())
	failing := ai.NewAIService(ai.Options{Providers: []ai.Provider{stubModel{err: context.DeadlineExceeded}}}, zerolog.Nop())
	unconfigured := ai.NewAIService(ai.Options{}, zerolog.Nop())

	tests := []struct {
		name       string
		svc        ai.AIService
		body       string
		wantStatus int
		wantKey    string
		wantValue  string
	}{
		{"answer", answering, `{"question":"meaning of life?"}`, http.StatusOK, "answer", "42"},
		{"empty question", answering, `{"question":"   "}`, http.StatusBadRequest, "error", "Question is required"},
		{"missing body", answering, ``, http.StatusBadRequest, "error", "Question is required"},
		{"not configured", unconfigured, `{"question":"q"}`, http.StatusInternalServerError, "error", "AI is not configured. Missing GEMINI_API_KEY."},
		{"all failed", failing, `{"question":"q"}`, http.StatusInternalServerError, "error", "Failed to get AI answer. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := ask(t, tt.svc, tt.body)
			if code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%v)", code, tt.wantStatus, body)
			}
			if body[tt.wantKey] != tt.wantValue {
				t.Errorf("%s = %v, want %q", tt.wantKey, body[tt.wantKey], tt.wantValue)
			}
		})
	}

	_, body := ask(t, failing, `{"question":"q"}`)
	if details, _ := body["details"].(string); details == "" {
		t.Error("details missing from failure body")
	}
}
