package quiz

import "github.com/abhisek/studyzone/internal/diagnosis"

// explanationMsg delivers an LLM explanation for a graded question.
type explanationMsg struct {
	SessionID string
	RecordID  string
	Chosen    string
	Result    *diagnosis.Result
}

// explanationTimeoutMsg is sent when no explanation arrived in time.
type explanationTimeoutMsg struct {
	SessionID string
	RecordID  string
}

// filterChosenMsg is sent by the filter picker.
type filterChosenMsg struct {
	Index int
}
