// Package assessment contains the core domain logic for the branching
// health questionnaire: sessions, the question graph, and answer
// transition rules.
package assessment

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Tier selects the depth of the questionnaire.
type Tier string

const (
	TierQuick         Tier = "quick"
	TierModerate      Tier = "moderate"
	TierComprehensive Tier = "comprehensive"
)

// Status represents the lifecycle state of a session.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusAbandoned  Status = "abandoned"
)

// Session is one user's run through the questionnaire. At most one
// in-progress session exists per user.
type Session struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Tier            Tier
	Language        string
	CurrentPhase    int
	CurrentQuestion string
	Responses       Responses
	Status          Status
	StartedAt       time.Time
	CompletedAt     *time.Time
	UpdatedAt       time.Time
}

// NewSession creates an in-progress session positioned at the graph's
// first question.
func NewSession(userID uuid.UUID, tier Tier, language, firstQuestion string) *Session {
	now := time.Now()
	return &Session{
		ID:              uuid.New(),
		UserID:          userID,
		Tier:            tier,
		Language:        language,
		CurrentPhase:    1,
		CurrentQuestion: firstQuestion,
		Responses:       NewResponses(),
		Status:          StatusInProgress,
		StartedAt:       now,
		UpdatedAt:       now,
	}
}

// IsActive reports whether the session still accepts answers.
func (s *Session) IsActive() bool {
	return s.Status == StatusInProgress
}

// RecordAnswer freezes an answer into the response map.
func (s *Session) RecordAnswer(questionID string, answer interface{}) {
	s.Responses.Set(questionID, answer)
	s.UpdatedAt = time.Now()
}

// Advance moves the session to the next question and phase.
func (s *Session) Advance(questionID string, phase int) {
	s.CurrentQuestion = questionID
	if phase > 0 {
		s.CurrentPhase = phase
	}
	s.UpdatedAt = time.Now()
}

// Complete marks the session terminal. Internal bookkeeping keys are
// stripped so completed responses carry only answered question ids.
func (s *Session) Complete() {
	s.Responses.Delete(PaginationKey)
	now := time.Now()
	s.Status = StatusCompleted
	s.CompletedAt = &now
	s.UpdatedAt = now
}

// Abandon marks the session terminal without completion.
func (s *Session) Abandon() {
	now := time.Now()
	s.Status = StatusAbandoned
	s.CompletedAt = &now
	s.UpdatedAt = now
}

// Responses is an order-preserving map of question id to answer. Answers
// are scalars, string slices, or free text.
type Responses struct {
	Order  []string               `json:"order"`
	Values map[string]interface{} `json:"values"`
}

// NewResponses creates an empty response map.
func NewResponses() Responses {
	return Responses{Order: []string{}, Values: map[string]interface{}{}}
}

// Set stores an answer, preserving first-seen key order.
func (r *Responses) Set(key string, value interface{}) {
	if r.Values == nil {
		r.Values = map[string]interface{}{}
	}
	if _, seen := r.Values[key]; !seen {
		r.Order = append(r.Order, key)
	}
	r.Values[key] = value
}

// Get returns the stored answer for a question id.
func (r *Responses) Get(key string) (interface{}, bool) {
	v, ok := r.Values[key]
	return v, ok
}

// Has reports whether an answer exists for a question id.
func (r *Responses) Has(key string) bool {
	_, ok := r.Values[key]
	return ok
}

// Delete removes an answer and its order entry.
func (r *Responses) Delete(key string) {
	if _, ok := r.Values[key]; !ok {
		return
	}
	delete(r.Values, key)
	for i, k := range r.Order {
		if k == key {
			r.Order = append(r.Order[:i], r.Order[i+1:]...)
			break
		}
	}
}

// Keys returns the answered question ids in submission order.
func (r *Responses) Keys() []string {
	out := make([]string, len(r.Order))
	copy(out, r.Order)
	return out
}

// Len returns the number of stored answers.
func (r *Responses) Len() int {
	return len(r.Values)
}

// ToMap returns a plain map copy of the answers.
func (r *Responses) ToMap() map[string]interface{} {
	out := make(map[string]interface{}, len(r.Values))
	for k, v := range r.Values {
		out[k] = v
	}
	return out
}

// MarshalResponses serializes responses for persistence.
func MarshalResponses(r Responses) ([]byte, error) {
	return json.Marshal(r)
}

// UnmarshalResponses restores responses from persistence.
func UnmarshalResponses(data []byte) (Responses, error) {
	if len(data) == 0 {
		return NewResponses(), nil
	}
	var r Responses
	if err := json.Unmarshal(data, &r); err != nil {
		return Responses{}, err
	}
	if r.Values == nil {
		r.Values = map[string]interface{}{}
	}
	return r, nil
}
