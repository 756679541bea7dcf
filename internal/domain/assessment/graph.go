package assessment

import "fmt"

// ValidationPolicy selects how multi-select answers are checked against
// the offered options. Chat transports reject unknown tokens; the web
// transport accepts free-form tokens.
type ValidationPolicy string

const (
	PolicyStrict  ValidationPolicy = "strict"
	PolicyLenient ValidationPolicy = "lenient"
)

// Graph is the immutable question graph for one tier and language.
type Graph struct {
	Tier      Tier
	Language  string
	Start     string
	questions map[string]*QuestionDefinition
}

// NewGraph builds a graph from an ordered question list.
func NewGraph(tier Tier, language, start string, defs []*QuestionDefinition) *Graph {
	byID := make(map[string]*QuestionDefinition, len(defs))
	for _, d := range defs {
		byID[d.ID] = d
	}
	return &Graph{Tier: tier, Language: language, Start: start, questions: byID}
}

// Question returns the definition for a question id. Synthetic
// elaboration states (<id>_custom) resolve to a free-text variant of the
// original definition.
func (g *Graph) Question(id string) (*QuestionDefinition, bool) {
	if q, ok := g.questions[id]; ok {
		return q, true
	}
	if base, ok := CustomStateBase(id); ok {
		if orig, found := g.questions[base]; found {
			return syntheticCustomQuestion(orig), true
		}
	}
	return nil, false
}

// CustomStateBase extracts the original question id from a synthetic
// elaboration state id.
func CustomStateBase(id string) (string, bool) {
	if len(id) > len(CustomSuffix) && id[len(id)-len(CustomSuffix):] == CustomSuffix {
		return id[:len(id)-len(CustomSuffix)], true
	}
	return "", false
}

func syntheticCustomQuestion(orig *QuestionDefinition) *QuestionDefinition {
	return &QuestionDefinition{
		ID:     orig.ID + CustomSuffix,
		Phase:  orig.Phase,
		Prompt: fmt.Sprintf("Please tell us more about your answer to: %s", orig.Prompt),
		Type:   TypeText,
	}
}

// ValidateAnswer checks a raw answer against a question definition under
// the given policy. The returned tokens are the normalized selection for
// option questions, or the trimmed text for text questions.
func (g *Graph) ValidateAnswer(q *QuestionDefinition, raw interface{}, policy ValidationPolicy) ([]string, error) {
	tokens := AnswerTokens(raw)

	switch q.Type {
	case TypeText:
		text := ""
		if len(tokens) > 0 {
			text = tokens[0]
		}
		if s, ok := raw.(string); ok {
			text = s
		}
		if err := q.Validation.Validate(text); err != nil {
			return nil, err
		}
		return []string{text}, nil

	case TypeButton:
		if len(tokens) != 1 {
			return nil, ErrUnknownOption
		}
		if !q.HasOption(tokens[0]) {
			return nil, ErrUnknownOption
		}
		return tokens, nil

	case TypeList:
		if len(tokens) == 0 {
			return nil, ErrAnswerRequired
		}
		if !q.Multiple && len(tokens) > 1 {
			return nil, ErrUnknownOption
		}
		for _, t := range tokens {
			if isPaginationControl(t) {
				continue
			}
			if !q.HasOption(t) && policy == PolicyStrict {
				return nil, ErrUnknownOption
			}
		}
		return tokens, nil

	default:
		return nil, ErrUnknownQuestion
	}
}

// Resolve determines the next question id after answering q. An empty id
// with a nil error means the flow completed.
func (g *Graph) Resolve(q *QuestionDefinition, answer interface{}) (string, error) {
	if q.IsFinal {
		return "", nil
	}

	if q.NextConditional != nil {
		for _, cond := range q.NextConditional.Conditions {
			matched, err := cond.Matches(answer)
			if err != nil {
				return "", err
			}
			if matched {
				return cond.Next, nil
			}
		}
		if q.NextConditional.Default != "" {
			return q.NextConditional.Default, nil
		}
		return "", ErrBrokenFlow
	}

	if q.Next != "" {
		return q.Next, nil
	}

	return "", ErrBrokenFlow
}

// graphRegistry holds the built-in graphs keyed by tier and language.
var graphRegistry = map[Tier]map[string]*Graph{}

func registerGraph(g *Graph) {
	byLang, ok := graphRegistry[g.Tier]
	if !ok {
		byLang = map[string]*Graph{}
		graphRegistry[g.Tier] = byLang
	}
	byLang[g.Language] = g
}

// GraphFor returns the question graph for a tier and language, falling
// back to English when the language has no localized graph.
func GraphFor(tier Tier, language string) (*Graph, error) {
	byLang, ok := graphRegistry[tier]
	if !ok {
		return nil, ErrUnknownTier
	}
	if g, found := byLang[language]; found {
		return g, nil
	}
	if g, found := byLang[defaultLanguage]; found {
		return g, nil
	}
	return nil, ErrUnknownTier
}
