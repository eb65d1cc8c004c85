package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"support-chat/internal/domain"
	"support-chat/internal/repository"
	"support-chat/internal/service"
)

func setupFeedbackRouter(repo repository.FeedbackRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewFeedbackHandler(zap.NewNop(), service.NewFeedbackService(zap.NewNop(), repo, nil, ""))
	r.POST("/feedback", h.PostFeedback)
	return r
}

func TestFeedbackHandler_Created(t *testing.T) {
	repo := repository.NewMemoryFeedbackRepository()
	r := setupFeedbackRouter(repo)

	rec := performRequest(r, http.MethodPost, "/feedback", map[string]string{"content": " very helpful "})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}
	var body struct {
		Feedback domain.Feedback `json:"feedback"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Feedback.ID == "" || body.Feedback.Content != "very helpful" {
		t.Fatalf("unexpected feedback %+v", body.Feedback)
	}
	if len(repo.All()) != 1 {
		t.Fatalf("expected feedback stored")
	}
}

func TestFeedbackHandler_BadRequest(t *testing.T) {
	r := setupFeedbackRouter(repository.NewMemoryFeedbackRepository())

	bodies := []any{
		`{}`,
		`not json`,
		map[string]string{"content": "   "},
		map[string]string{"content": strings.Repeat("x", service.MaxFeedbackLength+1)},
	}
	for i, b := range bodies {
		rec := performRequest(r, http.MethodPost, "/feedback", b)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("case %d: expected status 400, got %d", i, rec.Code)
		}
	}
}

func TestFeedbackHandler_BodyTooLarge(t *testing.T) {
	repo := repository.NewMemoryFeedbackRepository()
	r := setupFeedbackRouter(repo)

	rec := performRequest(r, http.MethodPost, "/feedback", map[string]string{"content": strings.Repeat("x", maxFeedbackBodyBytes+1)})
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d", rec.Code)
	}
	if len(repo.All()) != 0 {
		t.Fatalf("expected nothing stored")
	}
}
