package handlers

import (
	"context"
	"encoding/json"
	"interview-api/internal/models"
	"interview-api/internal/quota"
	"interview-api/internal/services"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

type fakeUsageService struct {
	usage     *models.UsageRecord
	created   bool
	err       error
	increment models.Capability
}

func (f *fakeUsageService) GetUsage(ctx context.Context, userID string) (*models.UsageRecord, bool, error) {
	return f.usage, f.created, f.err
}

func (f *fakeUsageService) CreateUsage(ctx context.Context, userID string) (*models.UsageRecord, error) {
	return f.usage, f.err
}

func (f *fakeUsageService) IncrementUsage(ctx context.Context, userID string, capability models.Capability) (*models.UsageRecord, error) {
	f.increment = capability
	return f.usage, f.err
}

func (f *fakeUsageService) CheckQuota(capability models.Capability, usage *models.UsageRecord, ent models.Entitlement) quota.Decision {
	return quota.Permit
}

type fakeAIService struct {
	reply  string
	deltas []string
	err    error
}

func (f *fakeAIService) Ask(ctx context.Context, userID, message string) (string, error) {
	return f.reply, f.err
}

func (f *fakeAIService) Stream(ctx context.Context, userID string, messages []models.ChatMessage, onDelta func(string) error) error {
	for _, d := range f.deltas {
		if err := onDelta(d); err != nil {
			return err
		}
	}
	return f.err
}

type fakeInterviewService struct {
	interview *models.Interview
	created   bool
	err       error
	deletedID string
}

func (f *fakeInterviewService) List(ctx context.Context, userID string) ([]models.Interview, error) {
	if f.interview == nil {
		return nil, f.err
	}
	return []models.Interview{*f.interview}, f.err
}

func (f *fakeInterviewService) Get(ctx context.Context, userID, id string) (*models.InterviewDetail, error) {
	return &models.InterviewDetail{Interview: f.interview}, f.err
}

func (f *fakeInterviewService) Save(ctx context.Context, userID, id string, messages models.Messages, questionNumber int) (*models.Interview, bool, error) {
	return f.interview, f.created, f.err
}

func (f *fakeInterviewService) SetFeedback(ctx context.Context, userID, id, feedback string) (*models.Interview, error) {
	return f.interview, f.err
}

func (f *fakeInterviewService) Delete(ctx context.Context, userID, id string) error {
	f.deletedID = id
	return f.err
}

func (f *fakeInterviewService) DeleteAllForUser(ctx context.Context, callerID, userID string) error {
	return f.err
}

// serve routes a single request through a router holding one handler.
func serve(t *testing.T, method, pattern, target, userID, body string, h http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	router := mux.NewRouter()
	router.HandleFunc(pattern, h).Methods(method)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if userID != "" {
		req = req.WithContext(services.WithUserID(req.Context(), userID))
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
