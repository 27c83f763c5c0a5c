package handlers

import (
	"interview-api/internal/models"
	"interview-api/internal/pkg/errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterviewHandler_SaveInterview(t *testing.T) {
	interview := &models.Interview{ID: "i1", UserID: "u1", QuestionNumber: 1}
	body := `{"messages":[{"id":"m1","role":"user","content":"hello"}],"questionNumber":1}`

	tests := []struct {
		name       string
		svc        *fakeInterviewService
		wantStatus int
	}{
		{name: "new interview", svc: &fakeInterviewService{interview: interview, created: true}, wantStatus: http.StatusCreated},
		{name: "updated transcript", svc: &fakeInterviewService{interview: interview}, wantStatus: http.StatusOK},
		{name: "quota exceeded", svc: &fakeInterviewService{err: errors.ErrQuotaExceeded}, wantStatus: http.StatusPaymentRequired},
		{
			name:       "not owner",
			svc:        &fakeInterviewService{err: &errors.Error{Err: errors.ErrForbidden, Message: "Unauthorized"}},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewInterviewHandler(tt.svc)
			rec := serve(t, http.MethodPost, "/interview/{id}", "/interview/i1", "u1", body, h.SaveInterview)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestInterviewHandler_SaveInterview_MalformedBody(t *testing.T) {
	h := NewInterviewHandler(&fakeInterviewService{})
	rec := serve(t, http.MethodPost, "/interview/{id}", "/interview/i1", "u1", `[`, h.SaveInterview)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing body parameters", decodeBody(t, rec)["error"])
}

func TestInterviewHandler_ListInterviews(t *testing.T) {
	h := NewInterviewHandler(&fakeInterviewService{})

	rec := serve(t, http.MethodGet, "/interview", "/interview", "", "", h.ListInterviews)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(t, http.MethodGet, "/interview", "/interview", "u1", "", h.ListInterviews)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestInterviewHandler_SetFeedback_MissingFeedback(t *testing.T) {
	h := NewInterviewHandler(&fakeInterviewService{})
	rec := serve(t, http.MethodPatch, "/interview/{id}/feedback", "/interview/i1/feedback", "u1", `{}`, h.SetFeedback)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing feedback", decodeBody(t, rec)["error"])
}

func TestInterviewHandler_DeleteInterview(t *testing.T) {
	svc := &fakeInterviewService{}
	h := NewInterviewHandler(svc)
	rec := serve(t, http.MethodDelete, "/interview/{id}", "/interview/i1", "u1", "", h.DeleteInterview)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "i1", svc.deletedID)
}
