package assessment

import (
	"regexp"
	"strconv"
	"strings"
)

// QuestionType determines how the transport renders a question and how
// answers are validated.
type QuestionType string

const (
	TypeText   QuestionType = "text"
	TypeButton QuestionType = "button"
	TypeList   QuestionType = "list"
)

// Sentinel option ids with flow-level meaning.
const (
	OptionNone          = "none"
	OptionOther         = "other"
	OptionOrganRecovery = "organ_recovery"
	OptionPostSurgery   = "post_surgery"

	// CustomSuffix marks the synthetic free-text elaboration state entered
	// when the "other" option is selected.
	CustomSuffix = "_custom"
	// OtherSuffix is appended to the original question id when storing the
	// free-text elaboration.
	OtherSuffix = "_other"
)

// Option is a selectable row of a button or list question.
type Option struct {
	ID          string
	Title       string
	Description string
}

// ValidationRule constrains free-text answers. Pattern and the numeric
// range are independent; either may be zero-valued.
type ValidationRule struct {
	Pattern string
	Numeric bool
	Min     float64
	Max     float64
}

// Validate checks a free-text answer against the rule.
func (v *ValidationRule) Validate(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ErrAnswerRequired
	}
	if v == nil {
		return nil
	}
	if v.Pattern != "" {
		matched, err := regexp.MatchString(v.Pattern, raw)
		if err != nil || !matched {
			return ErrAnswerOutOfRange
		}
	}
	if v.Numeric {
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return ErrAnswerNotNumeric
		}
		if n < v.Min || n > v.Max {
			return ErrAnswerOutOfRange
		}
	}
	return nil
}

// Condition is one branch of a conditional transition. Exactly one of
// Equals, In, or Predicate is set.
type Condition struct {
	Equals    string
	In        []string
	Predicate string
	Next      string
}

// Conditional is an ordered list of branch conditions with a default.
// The first matching condition wins.
type Conditional struct {
	Conditions []Condition
	Default    string
}

// QuestionDefinition is a static node of the question graph. Definitions
// are data only; branching predicates are referenced by name and resolved
// through the predicate registry.
type QuestionDefinition struct {
	ID              string
	Phase           int
	Prompt          string
	Type            QuestionType
	Validation      *ValidationRule
	Options         []Option
	Multiple        bool
	Next            string
	NextConditional *Conditional
	IsFinal         bool
}

// HasOption reports whether the definition offers the given option id.
func (q *QuestionDefinition) HasOption(id string) bool {
	for _, opt := range q.Options {
		if opt.ID == id {
			return true
		}
	}
	return false
}

// OffersOther reports whether the question carries the "other" sentinel.
func (q *QuestionDefinition) OffersOther() bool {
	return q.HasOption(OptionOther)
}

// AnswerTokens normalizes a raw answer into its selection tokens: arrays
// pass through, comma-joined strings split, scalars wrap.
func AnswerTokens(raw interface{}) []string {
	switch v := raw.(type) {
	case []string:
		return trimTokens(v)
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return trimTokens(out)
	case string:
		if strings.Contains(v, ",") {
			return trimTokens(strings.Split(v, ","))
		}
		if strings.TrimSpace(v) == "" {
			return []string{}
		}
		return []string{strings.TrimSpace(v)}
	default:
		return []string{}
	}
}

func trimTokens(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Predicate evaluates a named condition against the answer tokens.
type Predicate func(tokens []string) bool

// predicateRegistry holds the fixed set of named branching predicates.
// Definitions reference these by id so the graph stays serializable.
var predicateRegistry = map[string]Predicate{
	"has_selection_beyond_none": func(tokens []string) bool {
		for _, t := range tokens {
			if t != OptionNone {
				return true
			}
		}
		return false
	},
	"contains_organ_recovery":  containsToken(OptionOrganRecovery),
	"contains_post_surgery":    containsToken(OptionPostSurgery),
	"contains_other_allergies": containsToken(OptionOther),
}

func containsToken(want string) Predicate {
	return func(tokens []string) bool {
		for _, t := range tokens {
			if t == want {
				return true
			}
		}
		return false
	}
}

// LookupPredicate resolves a predicate by name.
func LookupPredicate(name string) (Predicate, bool) {
	p, ok := predicateRegistry[name]
	return p, ok
}

// Matches evaluates one condition against the raw answer.
func (c Condition) Matches(raw interface{}) (bool, error) {
	tokens := AnswerTokens(raw)

	switch {
	case c.Predicate != "":
		p, ok := LookupPredicate(c.Predicate)
		if !ok {
			return false, ErrUnknownPredicate
		}
		return p(tokens), nil
	case len(c.In) > 0:
		for _, t := range tokens {
			for _, want := range c.In {
				if t == want {
					return true, nil
				}
			}
		}
		return false, nil
	default:
		return len(tokens) == 1 && tokens[0] == c.Equals, nil
	}
}
