package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/nutriplan/v1/internal/domain/plan"
	"github.com/nutriplan/v1/internal/infrastructure/config"
	"github.com/nutriplan/v1/internal/ports/inbound"
	"github.com/nutriplan/v1/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// stubAssessmentService scripts the inbound port for handler tests.
type stubAssessmentService struct {
	session  *inbound.SessionDTO
	question *inbound.QuestionDTO
	result   *inbound.AnswerResultDTO
	err      error

	lastStart  inbound.StartAssessmentCommand
	lastSubmit inbound.SubmitAnswerCommand
}

func (s *stubAssessmentService) StartAssessment(ctx context.Context, cmd inbound.StartAssessmentCommand) (*inbound.SessionDTO, error) {
	s.lastStart = cmd
	return s.session, s.err
}

func (s *stubAssessmentService) GetCurrentQuestion(ctx context.Context, sessionID uuid.UUID) (*inbound.QuestionDTO, error) {
	return s.question, s.err
}

func (s *stubAssessmentService) SubmitAnswer(ctx context.Context, cmd inbound.SubmitAnswerCommand) (*inbound.AnswerResultDTO, error) {
	s.lastSubmit = cmd
	return s.result, s.err
}

func (s *stubAssessmentService) AbandonAssessment(ctx context.Context, sessionID uuid.UUID) error {
	return s.err
}

func (s *stubAssessmentService) GetSession(ctx context.Context, sessionID uuid.UUID) (*inbound.SessionDTO, error) {
	return s.session, s.err
}

type stubPlanService struct {
	plan *plan.DietPlan
	err  error
}

func (s *stubPlanService) GenerateDietPlan(ctx context.Context, sessionID uuid.UUID) (*plan.DietPlan, bool, error) {
	return s.plan, true, s.err
}

func (s *stubPlanService) GetDietPlan(ctx context.Context, planID uuid.UUID) (*plan.DietPlan, error) {
	return s.plan, s.err
}

func (s *stubPlanService) GetActivePlan(ctx context.Context, userID uuid.UUID) (*plan.DietPlan, error) {
	return s.plan, s.err
}

func (s *stubPlanService) ArchivePlan(ctx context.Context, planID, userID uuid.UUID) error {
	return s.err
}

func testServer(t *testing.T, assessments *stubAssessmentService, plans *stubPlanService) http.Handler {
	t.Helper()
	cfg := &config.Config{}
	cfg.Server.Host = "localhost"
	cfg.Server.Port = 0
	srv := NewServer(cfg, zaptest.NewLogger(t), assessments, plans)
	return srv.Router()
}

func doRequest(t *testing.T, handler http.Handler, method, path string, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reader).Encode(body))
	}
	req := httptest.NewRequest(method, path, &reader)
	if userID != "" {
		req.Header.Set(userIDHeader, userID)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	handler := testServer(t, &stubAssessmentService{}, &stubPlanService{})
	rec := doRequest(t, handler, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStartAssessmentRequiresIdentity(t *testing.T) {
	handler := testServer(t, &stubAssessmentService{}, &stubPlanService{})

	rec := doRequest(t, handler, http.MethodPost, "/api/v1/assessments", "", map[string]string{"tier": "quick"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, handler, http.MethodPost, "/api/v1/assessments", "not-a-uuid", map[string]string{"tier": "quick"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStartAssessmentDefaultsToComprehensive(t *testing.T) {
	userID := uuid.New()
	stub := &stubAssessmentService{session: &inbound.SessionDTO{ID: uuid.New(), UserID: userID}}
	handler := testServer(t, stub, &stubPlanService{})

	rec := doRequest(t, handler, http.MethodPost, "/api/v1/assessments", userID.String(), map[string]interface{}{})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "comprehensive", string(stub.lastStart.Tier))
	assert.Equal(t, userID, stub.lastStart.UserID)
}

func TestSubmitAnswerForwardsPayload(t *testing.T) {
	userID := uuid.New()
	sessionID := uuid.New()
	stub := &stubAssessmentService{
		session: &inbound.SessionDTO{ID: sessionID, UserID: userID},
		result:  &inbound.AnswerResultDTO{Completed: false},
	}
	handler := testServer(t, stub, &stubPlanService{})

	rec := doRequest(t, handler, http.MethodPost, "/api/v1/assessments/"+sessionID.String()+"/answers", userID.String(), map[string]interface{}{
		"question_id": "health_conditions",
		"answer":      []string{"diabetes", "other"},
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sessionID, stub.lastSubmit.SessionID)
	assert.Equal(t, "health_conditions", stub.lastSubmit.QuestionID)
}

func TestSessionOwnershipEnforced(t *testing.T) {
	owner := uuid.New()
	sessionID := uuid.New()
	stub := &stubAssessmentService{session: &inbound.SessionDTO{ID: sessionID, UserID: owner}}
	handler := testServer(t, stub, &stubPlanService{})

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/assessments/"+sessionID.String(), uuid.New().String(), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, handler, http.MethodGet, "/api/v1/assessments/"+sessionID.String(), owner.String(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestErrorResponseShape(t *testing.T) {
	stub := &stubAssessmentService{err: errors.NewAppError(errors.CodeSessionNotFound, "Assessment session not found", "")}
	handler := testServer(t, stub, &stubPlanService{})

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/assessments/"+uuid.New().String(), uuid.New().String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	errObj, ok := body["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "SESSION_NOT_FOUND", errObj["code"])
}

func TestGetPlanChecksOwnership(t *testing.T) {
	owner := uuid.New()
	p := plan.NewDietPlan(owner, uuid.New())
	handler := testServer(t, &stubAssessmentService{}, &stubPlanService{plan: p})

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/plans/"+p.ID.String(), uuid.New().String(), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, handler, http.MethodGet, "/api/v1/plans/"+p.ID.String(), owner.String(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestArchivePlanReturnsNoContent(t *testing.T) {
	handler := testServer(t, &stubAssessmentService{}, &stubPlanService{})
	rec := doRequest(t, handler, http.MethodPost, "/api/v1/plans/"+uuid.New().String()+"/archive", uuid.New().String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestInvalidPathID(t *testing.T) {
	handler := testServer(t, &stubAssessmentService{}, &stubPlanService{})
	rec := doRequest(t, handler, http.MethodGet, "/api/v1/assessments/abc", uuid.New().String(), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
