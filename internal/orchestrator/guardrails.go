package orchestrator

import (
	"fmt"
	"strings"
)

var DefaultEscalationKeywords = []string{
	"manager",
	"supervisor",
	"human",
	"person",
	"attorney",
	"lawyer",
	"sue",
	"lawsuit",
	"furious",
	"angry",
	"unacceptable",
	"terrible",
	"worst",
}

var DefaultProhibitedPhrases = []string{
	"guaranteed",
	"guarantee",
	"diagnose without inspection",
	"insurance fraud",
	"definitely fix",
	"100% certain",
	"never fail",
}

// Guardrails matches text against keyword lists. Matching is a
// case-insensitive substring test.
type Guardrails struct {
	escalation []string
	prohibited []string
}

// NewGuardrails builds guardrails from the given lists, falling back to the
// defaults for a list with no non-blank entries.
func NewGuardrails(escalationKeywords, prohibitedPhrases []string) Guardrails {
	escalation := lowerAll(escalationKeywords)
	if len(escalation) == 0 {
		escalation = lowerAll(DefaultEscalationKeywords)
	}
	prohibited := lowerAll(prohibitedPhrases)
	if len(prohibited) == 0 {
		prohibited = lowerAll(DefaultProhibitedPhrases)
	}
	return Guardrails{escalation: escalation, prohibited: prohibited}
}

// CheckMessage reports whether a customer message must go to a person, and
// why.
func (g Guardrails) CheckMessage(text string) (string, bool) {
	if kw, ok := firstMatch(text, g.escalation); ok {
		return fmt.Sprintf("Escalation keyword: %s", kw), true
	}
	return "", false
}

// ValidateReply reports whether a backend reply may be spoken. When it may
// not, the reason names the offending phrase.
func (g Guardrails) ValidateReply(text string) (string, bool) {
	if phrase, ok := firstMatch(text, g.prohibited); ok {
		return fmt.Sprintf("Prohibited phrase: %s", phrase), false
	}
	return "", true
}

func firstMatch(text string, needles []string) (string, bool) {
	lower := strings.ToLower(text)
	for _, n := range needles {
		if strings.Contains(lower, n) {
			return n, true
		}
	}
	return "", false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
