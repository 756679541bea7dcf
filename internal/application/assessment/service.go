// Package assessment provides the application layer for the questionnaire
// flow: session lifecycle, answer validation and graph transitions.
package assessment

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/nutriplan/v1/internal/domain/assessment"
	"github.com/nutriplan/v1/internal/ports/inbound"
	"github.com/nutriplan/v1/internal/ports/outbound"
	"github.com/nutriplan/v1/pkg/errors"
	"go.uber.org/zap"
)

// Render limits for option rows on constrained chat surfaces.
const (
	maxOptionTitleLen       = 24
	maxOptionDescriptionLen = 72
)

// PlanTrigger kicks off plan generation after a session completes.
// The orchestrator satisfies this; the indirection keeps the flow engine
// free of generation concerns.
type PlanTrigger interface {
	TriggerGeneration(sessionID uuid.UUID)
}

// AssessmentService implements the questionnaire use cases.
type AssessmentService struct {
	sessions outbound.SessionRepository
	trigger  PlanTrigger
	policy   assessment.ValidationPolicy
	logger   *zap.Logger

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewAssessmentService creates a new assessment service.
func NewAssessmentService(
	sessions outbound.SessionRepository,
	trigger PlanTrigger,
	policy assessment.ValidationPolicy,
	logger *zap.Logger,
) *AssessmentService {
	if policy == "" {
		policy = assessment.PolicyStrict
	}
	return &AssessmentService{
		sessions: sessions,
		trigger:  trigger,
		policy:   policy,
		logger:   logger.Named("assessment-service"),
		locks:    map[uuid.UUID]*sync.Mutex{},
	}
}

// sessionLock serializes submissions for one session. Concurrent answers
// to the same session would otherwise race on the current-question check.
// Entries stay in the map once a session ends; deleting one while a
// caller still holds it would let a late submission overlap, and the
// terminal-status check rejects those callers anyway.
func (s *AssessmentService) sessionLock(id uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// StartAssessment opens a session at the graph's first question.
func (s *AssessmentService) StartAssessment(ctx context.Context, cmd inbound.StartAssessmentCommand) (*inbound.SessionDTO, error) {
	graph, err := assessment.GraphFor(cmd.Tier, cmd.Language)
	if err != nil {
		return nil, errors.NewValidationError("unknown assessment tier: " + string(cmd.Tier))
	}

	existing, err := s.sessions.FindActiveByUser(ctx, cmd.UserID)
	if err != nil {
		return nil, errors.NewDatabaseError("find active session", err)
	}
	if existing != nil {
		if !cmd.AbandonExisting {
			return nil, errors.NewSessionConflictError(cmd.UserID.String())
		}
		existing.Abandon()
		if err := s.sessions.Update(ctx, existing); err != nil {
			return nil, errors.NewDatabaseError("abandon session", err)
		}
		s.logger.Info("Abandoned previous session",
			zap.String("session_id", existing.ID.String()),
			zap.String("user_id", cmd.UserID.String()),
		)
	}

	session := assessment.NewSession(cmd.UserID, cmd.Tier, graph.Language, graph.Start)
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, errors.NewDatabaseError("create session", err)
	}

	s.logger.Info("Started assessment",
		zap.String("session_id", session.ID.String()),
		zap.String("tier", string(cmd.Tier)),
	)
	return sessionDTO(session), nil
}

// GetSession returns the session for status polling.
func (s *AssessmentService) GetSession(ctx context.Context, sessionID uuid.UUID) (*inbound.SessionDTO, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return sessionDTO(session), nil
}

// GetCurrentQuestion returns the question the session is waiting on.
func (s *AssessmentService) GetCurrentQuestion(ctx context.Context, sessionID uuid.UUID) (*inbound.QuestionDTO, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive() {
		return nil, errors.NewConflictError("assessment is not in progress")
	}

	graph, err := assessment.GraphFor(session.Tier, session.Language)
	if err != nil {
		s.abortSession(ctx, session)
		return nil, errors.NewFlowIntegrityError(session.CurrentQuestion)
	}
	q, ok := graph.Question(session.CurrentQuestion)
	if !ok {
		// The stored state points at a question the graph no longer has.
		// This is unrecoverable for the session, not a user error.
		s.logger.Error("Session points at unknown question",
			zap.String("session_id", session.ID.String()),
			zap.String("question_id", session.CurrentQuestion),
		)
		s.abortSession(ctx, session)
		return nil, errors.NewFlowIntegrityError(session.CurrentQuestion)
	}

	return questionDTO(q, session), nil
}

// SubmitAnswer validates and records one answer and advances the flow.
func (s *AssessmentService) SubmitAnswer(ctx context.Context, cmd inbound.SubmitAnswerCommand) (*inbound.AnswerResultDTO, error) {
	lock := s.sessionLock(cmd.SessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.loadSession(ctx, cmd.SessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive() {
		return nil, errors.NewConflictError("assessment is not in progress")
	}

	graph, err := assessment.GraphFor(session.Tier, session.Language)
	if err != nil {
		s.abortSession(ctx, session)
		return nil, errors.NewFlowIntegrityError(session.CurrentQuestion)
	}
	if cmd.QuestionID != session.CurrentQuestion {
		return s.amendRecentAnswer(ctx, session, graph, cmd)
	}
	q, ok := graph.Question(session.CurrentQuestion)
	if !ok {
		s.abortSession(ctx, session)
		return nil, errors.NewFlowIntegrityError(session.CurrentQuestion)
	}

	// Pagination controls re-render the same question; nothing is
	// validated or recorded beyond the page index.
	if token, isControl := paginationToken(q, cmd.Answer); isControl {
		page := assessment.WindowOptions(q.Options, assessment.CurrentPage(session))
		assessment.ApplyPageControl(session, token, page.Total)
		if err := s.sessions.Update(ctx, session); err != nil {
			return nil, errors.NewDatabaseError("update session", err)
		}
		return &inbound.AnswerResultDTO{NextQuestion: questionDTO(q, session)}, nil
	}

	tokens, err := graph.ValidateAnswer(q, cmd.Answer, s.policy)
	if err != nil {
		return nil, errors.NewValidationError(err.Error()).
			WithMetadata("question_id", q.ID)
	}

	// Elaboration state: free text lands under <base>_other and the flow
	// resumes from the base question's recorded selection.
	if base, isCustom := assessment.CustomStateBase(session.CurrentQuestion); isCustom {
		session.RecordAnswer(base+assessment.OtherSuffix, tokens[0])
		baseQ, found := graph.Question(base)
		if !found {
			s.abortSession(ctx, session)
			return nil, errors.NewFlowIntegrityError(base)
		}
		baseAnswer, _ := session.Responses.Get(base)
		return s.advance(ctx, session, graph, baseQ, baseAnswer)
	}

	answer := recordableAnswer(q, tokens, session)
	session.RecordAnswer(q.ID, answer)

	// Selecting "other" detours through the elaboration state before the
	// normal transition applies.
	if q.OffersOther() && containsOther(tokens) && !session.Responses.Has(q.ID+assessment.OtherSuffix) {
		assessment.ResetPaging(session)
		session.Advance(q.ID+assessment.CustomSuffix, q.Phase)
		if err := s.sessions.Update(ctx, session); err != nil {
			return nil, errors.NewDatabaseError("update session", err)
		}
		customQ, _ := graph.Question(q.ID + assessment.CustomSuffix)
		return &inbound.AnswerResultDTO{NextQuestion: questionDTO(customQ, session)}, nil
	}

	return s.advance(ctx, session, graph, q, answer)
}

// amendRecentAnswer handles a submission for a question that is no
// longer current. A multi-select stays open for amendment until the
// question after it is answered: repeated submissions merge into the
// recorded set and the transition resolves again from the merged value.
// Anything else is a genuine mismatch.
func (s *AssessmentService) amendRecentAnswer(
	ctx context.Context,
	session *assessment.Session,
	graph *assessment.Graph,
	cmd inbound.SubmitAnswerCommand,
) (*inbound.AnswerResultDTO, error) {
	mismatch := errors.NewQuestionMismatchError(session.CurrentQuestion, cmd.QuestionID)

	q, ok := graph.Question(cmd.QuestionID)
	if !ok || !q.Multiple {
		return nil, mismatch
	}
	prev, answered := session.Responses.Get(q.ID)
	if !answered {
		return nil, mismatch
	}
	if session.CurrentQuestion != q.ID+assessment.CustomSuffix {
		next, err := graph.Resolve(q, prev)
		if err != nil || next != session.CurrentQuestion {
			return nil, mismatch
		}
	}

	tokens, err := graph.ValidateAnswer(q, cmd.Answer, s.policy)
	if err != nil {
		return nil, errors.NewValidationError(err.Error()).
			WithMetadata("question_id", q.ID)
	}

	answer := recordableAnswer(q, tokens, session)
	session.RecordAnswer(q.ID, answer)

	if q.OffersOther() && containsOther(assessment.AnswerTokens(answer)) && !session.Responses.Has(q.ID+assessment.OtherSuffix) {
		assessment.ResetPaging(session)
		session.Advance(q.ID+assessment.CustomSuffix, q.Phase)
		if err := s.sessions.Update(ctx, session); err != nil {
			return nil, errors.NewDatabaseError("update session", err)
		}
		customQ, _ := graph.Question(q.ID + assessment.CustomSuffix)
		return &inbound.AnswerResultDTO{NextQuestion: questionDTO(customQ, session)}, nil
	}

	return s.advance(ctx, session, graph, q, answer)
}

// advance resolves the next question from q and the recorded answer,
// completing the session when the flow ends.
func (s *AssessmentService) advance(
	ctx context.Context,
	session *assessment.Session,
	graph *assessment.Graph,
	q *assessment.QuestionDefinition,
	answer interface{},
) (*inbound.AnswerResultDTO, error) {
	next, err := graph.Resolve(q, answer)
	if err != nil {
		s.logger.Error("Flow resolution failed",
			zap.String("session_id", session.ID.String()),
			zap.String("question_id", q.ID),
			zap.Error(err),
		)
		s.abortSession(ctx, session)
		return nil, errors.NewFlowIntegrityError(q.ID)
	}

	assessment.ResetPaging(session)

	if next == "" {
		session.Complete()
		if err := s.sessions.Update(ctx, session); err != nil {
			return nil, errors.NewDatabaseError("complete session", err)
		}
		s.logger.Info("Assessment completed",
			zap.String("session_id", session.ID.String()),
			zap.Int("answers", session.Responses.Len()),
		)
		if s.trigger != nil {
			s.trigger.TriggerGeneration(session.ID)
		}
		return &inbound.AnswerResultDTO{Completed: true}, nil
	}

	nextQ, ok := graph.Question(next)
	if !ok {
		s.abortSession(ctx, session)
		return nil, errors.NewFlowIntegrityError(next)
	}
	session.Advance(next, nextQ.Phase)
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, errors.NewDatabaseError("update session", err)
	}
	return &inbound.AnswerResultDTO{NextQuestion: questionDTO(nextQ, session)}, nil
}

// AbandonAssessment marks the session abandoned.
func (s *AssessmentService) AbandonAssessment(ctx context.Context, sessionID uuid.UUID) error {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if !session.IsActive() {
		return errors.NewConflictError("assessment is not in progress")
	}
	session.Abandon()
	if err := s.sessions.Update(ctx, session); err != nil {
		return errors.NewDatabaseError("abandon session", err)
	}
	return nil
}

// abortSession abandons a session whose persisted state no longer fits
// the flow graph. Leaving it in progress would strand the user behind
// the one-active-session check with no way forward.
func (s *AssessmentService) abortSession(ctx context.Context, session *assessment.Session) {
	session.Abandon()
	if err := s.sessions.Update(ctx, session); err != nil {
		s.logger.Error("Failed to abandon broken session",
			zap.String("session_id", session.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *AssessmentService) loadSession(ctx context.Context, id uuid.UUID) (*assessment.Session, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, errors.NewDatabaseError("find session", err)
	}
	if session == nil {
		return nil, errors.NewAppError(errors.CodeSessionNotFound, "Assessment session not found", "")
	}
	return session, nil
}

// recordableAnswer produces the value stored for q. Multi-select answers
// accumulate across submissions with duplicates dropped in first-seen
// order, so re-submitting the same selection stays idempotent.
func recordableAnswer(q *assessment.QuestionDefinition, tokens []string, session *assessment.Session) interface{} {
	if q.Type == assessment.TypeText {
		return tokens[0]
	}
	if !q.Multiple {
		return tokens[0]
	}

	merged := []string{}
	seen := map[string]bool{}
	if prev, ok := session.Responses.Get(q.ID); ok {
		for _, t := range assessment.AnswerTokens(prev) {
			if !seen[t] {
				seen[t] = true
				merged = append(merged, t)
			}
		}
	}
	for _, t := range tokens {
		if isControl := t == assessment.ControlPrevPage || t == assessment.ControlNextPage; isControl {
			continue
		}
		if !seen[t] {
			seen[t] = true
			merged = append(merged, t)
		}
	}
	return merged
}

// paginationToken reports whether the submission is a lone page control.
func paginationToken(q *assessment.QuestionDefinition, raw interface{}) (string, bool) {
	if q.Type != assessment.TypeList {
		return "", false
	}
	tokens := assessment.AnswerTokens(raw)
	if len(tokens) != 1 {
		return "", false
	}
	t := tokens[0]
	if t == assessment.ControlPrevPage || t == assessment.ControlNextPage {
		return t, true
	}
	return "", false
}

func containsOther(tokens []string) bool {
	for _, t := range tokens {
		if t == assessment.OptionOther {
			return true
		}
	}
	return false
}

func sessionDTO(s *assessment.Session) *inbound.SessionDTO {
	dto := &inbound.SessionDTO{
		ID:           s.ID,
		UserID:       s.UserID,
		Tier:         string(s.Tier),
		Status:       string(s.Status),
		CurrentPhase: s.CurrentPhase,
	}
	if s.IsActive() {
		dto.CurrentQuestion = s.CurrentQuestion
	} else {
		dto.Responses = s.Responses.ToMap()
	}
	return dto
}

func questionDTO(q *assessment.QuestionDefinition, session *assessment.Session) *inbound.QuestionDTO {
	dto := &inbound.QuestionDTO{
		ID:       q.ID,
		Phase:    q.Phase,
		Prompt:   q.Prompt,
		Type:     string(q.Type),
		Multiple: q.Multiple,
	}

	options := q.Options
	if assessment.NeedsPaging(q) {
		page := assessment.WindowOptions(q.Options, assessment.CurrentPage(session))
		options = page.Options
		dto.Page = page.Index + 1
		dto.PageCount = page.Total
	}
	for _, opt := range options {
		dto.Options = append(dto.Options, inbound.OptionDTO{
			ID:          opt.ID,
			Title:       truncate(opt.Title, maxOptionTitleLen),
			Description: truncate(opt.Description, maxOptionDescriptionLen),
		})
	}
	return dto
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	cut := strings.TrimSpace(string(runes[:max-1]))
	return cut + "…"
}
