package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nutriplan/v1/internal/domain/assessment"
	"github.com/nutriplan/v1/internal/ports/inbound"
	"github.com/nutriplan/v1/pkg/errors"
	"go.uber.org/zap"
)

// userIDHeader carries the authenticated user id set by the gateway.
const userIDHeader = "X-User-ID"

type startAssessmentRequest struct {
	Tier            string `json:"tier"`
	Language        string `json:"language"`
	AbandonExisting bool   `json:"abandon_existing"`
}

type submitAnswerRequest struct {
	QuestionID string      `json:"question_id"`
	Answer     interface{} `json:"answer"`
}

func (s *Server) handleStartAssessment(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req startAssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.NewAppError(errors.CodeBadRequest, "Invalid request body", err.Error()))
		return
	}
	if req.Tier == "" {
		req.Tier = string(assessment.TierComprehensive)
	}

	dto, err := s.assessmentService.StartAssessment(r.Context(), inbound.StartAssessmentCommand{
		UserID:          userID,
		Tier:            assessment.Tier(req.Tier),
		Language:        req.Language,
		AbandonExisting: req.AbandonExisting,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	sessionID, ok := s.pathUUID(w, r, "sessionID")
	if !ok {
		return
	}

	dto, err := s.assessmentService.GetSession(r.Context(), sessionID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if dto.UserID != userID {
		s.writeError(w, errors.NewAppError(errors.CodeForbidden, "Session belongs to another user", ""))
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

func (s *Server) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	sessionID, ok := s.pathUUID(w, r, "sessionID")
	if !ok {
		return
	}
	if !s.authorizeSession(w, r, sessionID, userID) {
		return
	}

	dto, err := s.assessmentService.GetCurrentQuestion(r.Context(), sessionID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	sessionID, ok := s.pathUUID(w, r, "sessionID")
	if !ok {
		return
	}
	if !s.authorizeSession(w, r, sessionID, userID) {
		return
	}

	var req submitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.NewAppError(errors.CodeBadRequest, "Invalid request body", err.Error()))
		return
	}

	result, err := s.assessmentService.SubmitAnswer(r.Context(), inbound.SubmitAnswerCommand{
		SessionID:  sessionID,
		QuestionID: req.QuestionID,
		Answer:     req.Answer,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAbandonAssessment(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	sessionID, ok := s.pathUUID(w, r, "sessionID")
	if !ok {
		return
	}
	if !s.authorizeSession(w, r, sessionID, userID) {
		return
	}

	if err := s.assessmentService.AbandonAssessment(r.Context(), sessionID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	planID, ok := s.pathUUID(w, r, "planID")
	if !ok {
		return
	}

	dietPlan, err := s.planService.GetDietPlan(r.Context(), planID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if dietPlan.UserID != userID {
		s.writeError(w, errors.NewAppError(errors.CodeForbidden, "Plan belongs to another user", ""))
		return
	}
	writeJSON(w, http.StatusOK, dietPlan)
}

func (s *Server) handleGetActivePlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	dietPlan, err := s.planService.GetActivePlan(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dietPlan)
}

func (s *Server) handleArchivePlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	planID, ok := s.pathUUID(w, r, "planID")
	if !ok {
		return
	}

	if err := s.planService.ArchivePlan(r.Context(), planID, userID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// authorizeSession checks the session belongs to the caller.
func (s *Server) authorizeSession(w http.ResponseWriter, r *http.Request, sessionID, userID uuid.UUID) bool {
	dto, err := s.assessmentService.GetSession(r.Context(), sessionID)
	if err != nil {
		s.writeError(w, err)
		return false
	}
	if dto.UserID != userID {
		s.writeError(w, errors.NewAppError(errors.CodeForbidden, "Session belongs to another user", ""))
		return false
	}
	return true
}

func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := r.Header.Get(userIDHeader)
	if raw == "" {
		s.writeError(w, errors.NewAppError(errors.CodeUnauthorized, "Missing user identity", ""))
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		s.writeError(w, errors.NewAppError(errors.CodeUnauthorized, "Invalid user identity", ""))
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		s.writeError(w, errors.NewAppError(errors.CodeBadRequest, "Invalid "+name, err.Error()))
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	appErr := errors.Wrap(err, "request failed")
	if appErr.StatusCode() >= 500 {
		s.logger.Error("Request failed", zap.Error(err))
	}
	writeJSON(w, appErr.StatusCode(), errors.ToErrorResponse(appErr, ""))
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
