// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"

	"github.com/google/uuid"
	"github.com/nutriplan/v1/internal/domain/assessment"
)

// AssessmentService drives the questionnaire flow from start to completion.
type AssessmentService interface {
	// StartAssessment opens a new session for the user. If the user already
	// has an in-progress session it fails with a session conflict unless
	// abandonExisting is set, in which case the old session is abandoned.
	StartAssessment(ctx context.Context, cmd StartAssessmentCommand) (*SessionDTO, error)

	// GetCurrentQuestion returns the question the session is waiting on,
	// windowed to the current page for long option lists.
	GetCurrentQuestion(ctx context.Context, sessionID uuid.UUID) (*QuestionDTO, error)

	// SubmitAnswer validates and records an answer, advances the flow and,
	// on the final answer, completes the session and kicks off plan
	// generation in the background.
	SubmitAnswer(ctx context.Context, cmd SubmitAnswerCommand) (*AnswerResultDTO, error)

	// AbandonAssessment marks the session abandoned.
	AbandonAssessment(ctx context.Context, sessionID uuid.UUID) error

	// GetSession returns session state for status polling.
	GetSession(ctx context.Context, sessionID uuid.UUID) (*SessionDTO, error)
}

// StartAssessmentCommand contains data for opening a session.
type StartAssessmentCommand struct {
	UserID          uuid.UUID
	Tier            assessment.Tier
	Language        string
	AbandonExisting bool
}

// SubmitAnswerCommand contains one answer submission.
type SubmitAnswerCommand struct {
	SessionID  uuid.UUID
	QuestionID string
	Answer     interface{}
}

// SessionDTO is the outward view of a session.
type SessionDTO struct {
	ID              uuid.UUID              `json:"id"`
	UserID          uuid.UUID              `json:"user_id"`
	Tier            string                 `json:"tier"`
	Status          string                 `json:"status"`
	CurrentPhase    int                    `json:"current_phase"`
	CurrentQuestion string                 `json:"current_question,omitempty"`
	Responses       map[string]interface{} `json:"responses,omitempty"`
}

// OptionDTO is a selectable row, already truncated for rendering.
type OptionDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// QuestionDTO is the outward view of the current question.
type QuestionDTO struct {
	ID        string      `json:"id"`
	Phase     int         `json:"phase"`
	Prompt    string      `json:"prompt"`
	Type      string      `json:"type"`
	Multiple  bool        `json:"multiple"`
	Options   []OptionDTO `json:"options,omitempty"`
	Page      int         `json:"page,omitempty"`
	PageCount int         `json:"page_count,omitempty"`
}

// AnswerResultDTO reports the outcome of a submission.
type AnswerResultDTO struct {
	Completed    bool         `json:"completed"`
	NextQuestion *QuestionDTO `json:"next_question,omitempty"`
	DietPlanID   *uuid.UUID   `json:"diet_plan_id,omitempty"`
}
