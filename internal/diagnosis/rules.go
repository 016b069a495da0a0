package diagnosis

import (
	"fmt"
	"strings"
)

// Rule produces a synchronous diagnosis, or ok=false when it does not
// apply to the input.
type Rule interface {
	Name() string
	Diagnose(in *Input) (res Result, ok bool)
}

// DefaultRules returns rules in priority order. A tagged distractor is more
// specific than the question's own category.
func DefaultRules() []Rule {
	return []Rule{DistractorRule{}, CategoryRule{}}
}

// RunRules returns the first applicable rule's result.
func RunRules(rules []Rule, in *Input) (Result, bool) {
	for _, r := range rules {
		if res, ok := r.Diagnose(in); ok {
			res.RecordID = in.Record.ID
			res.Source = SourceRule
			return res, true
		}
	}
	return Result{}, false
}

// DistractorRule uses the error type attached to the chosen option.
type DistractorRule struct{}

func (DistractorRule) Name() string { return "distractor" }

func (DistractorRule) Diagnose(in *Input) (Result, bool) {
	tag := strings.TrimSpace(in.Record.Distractors[in.Chosen])
	if tag == "" {
		return Result{}, false
	}
	return explain(tag, in, fmt.Sprintf("%q looks right but is a %s trap.", in.Chosen, labelFor(tag))), true
}

// CategoryRule uses the question's error category.
type CategoryRule struct{}

func (CategoryRule) Name() string { return "category" }

func (CategoryRule) Diagnose(in *Input) (Result, bool) {
	cat := strings.TrimSpace(in.Record.Category)
	if cat == "" {
		return Result{}, false
	}
	return explain(cat, in, fmt.Sprintf("This question tests %s.", strings.ToLower(labelFor(cat)))), true
}

func explain(category string, in *Input, lead string) Result {
	res := Result{Category: category, Label: labelFor(category)}
	parts := []string{lead}
	if et, ok := LookupErrorType(category); ok {
		parts = append(parts, et.Description)
		res.Tip = et.Tip
	}
	if in.CorrectText != "" {
		parts = append(parts, fmt.Sprintf("The answer is %q.", in.CorrectText))
	}
	res.Explanation = strings.Join(parts, " ")
	return res
}

func labelFor(category string) string {
	if et, ok := LookupErrorType(category); ok {
		return et.Label
	}
	return strings.TrimSpace(category)
}
