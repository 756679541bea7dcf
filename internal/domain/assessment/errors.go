package assessment

import "errors"

// Domain errors for assessment flow operations

var (
	ErrSessionNotActive    = errors.New("session is not in progress")
	ErrQuestionMismatch    = errors.New("answer does not target the current question")
	ErrUnknownQuestion     = errors.New("question definition not found")
	ErrBrokenFlow          = errors.New("no transition defined for question")
	ErrUnknownTier         = errors.New("unknown assessment tier")
	ErrAnswerRequired      = errors.New("answer must not be empty")
	ErrAnswerOutOfRange    = errors.New("answer is outside the allowed range")
	ErrAnswerNotNumeric    = errors.New("answer must be a number")
	ErrUnknownOption       = errors.New("answer is not one of the offered options")
	ErrUnknownPredicate    = errors.New("condition references an unknown predicate")
	ErrActiveSessionExists = errors.New("an in-progress session already exists")
)
