// Package diagnosis turns a wrong answer into Ms. Tammy's feedback: an
// immediate rule-based note from the question's error categories, and an
// optional LLM explanation delivered later.
package diagnosis

import "github.com/abhisek/studyzone/internal/bank"

// Source of a Result.
const (
	SourceRule = "rule"
	SourceLLM  = "llm"
	SourceNone = "none"
)

// Input is one graded answer.
type Input struct {
	SessionID   string
	StudentID   string
	Record      bank.Record
	Chosen      string
	CorrectText string
}

// Result is the diagnosis shown in the side panel.
type Result struct {
	RecordID    string
	Category    string
	Label       string
	Explanation string
	Tip         string
	Source      string
}

// Empty reports whether the result carries anything to show.
func (r *Result) Empty() bool {
	return r == nil || (r.Explanation == "" && r.Category == "")
}
