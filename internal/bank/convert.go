package bank

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// ConvertedQuestion is one entry of the JSON bank written by Convert.
type ConvertedQuestion struct {
	ID            string                   `json:"id"`
	Topic         string                   `json:"topic"`
	QuestionText  string                   `json:"question_text"`
	Options       []string                 `json:"options"`
	CorrectAnswer string                   `json:"correct_answer"`
	CorrectLetter string                   `json:"correct_letter"`
	ErrorType     string                   `json:"error_type"`
	ErrorAnalysis map[string]DistractorTag `json:"error_analysis"`
}

// DistractorTag records why a wrong option is wrong.
type DistractorTag struct {
	ErrorType string `json:"error_type"`
}

// Convert reads a tabular bank with Option A..D columns and writes the JSON
// question list consumed by the flyer screens. It returns the number of
// questions written.
func Convert(r io.Reader, w io.Writer) (int, error) {
	const src = "convert input"

	opts := DefaultOptions()
	records, err := readCSV(src, r, opts)
	if err != nil {
		return 0, err
	}

	out := make([]ConvertedQuestion, 0, len(records))
	for _, rec := range records {
		out = append(out, convertRecord(rec))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return 0, fmt.Errorf("write converted bank: %w", err)
	}
	return len(out), nil
}

func convertRecord(rec Record) ConvertedQuestion {
	letter := strings.ToUpper(strings.TrimSpace(rec.Indicator))
	opts := rec.Options[:DefaultArity]

	idx, ok := LetterIndex(letter)
	if !ok {
		idx = 0
	}

	analysis := make(map[string]DistractorTag, len(opts))
	for i, text := range opts {
		if string(rune('A'+i)) == letter {
			continue
		}
		analysis[text] = DistractorTag{ErrorType: rec.Category}
	}

	return ConvertedQuestion{
		ID:            rec.ID,
		Topic:         rec.Topic,
		QuestionText:  rec.Prompt,
		Options:       append([]string(nil), opts...),
		CorrectAnswer: opts[idx],
		CorrectLetter: letter,
		ErrorType:     rec.Category,
		ErrorAnalysis: analysis,
	}
}

// LetterIndex maps a single letter A-D, in either case, to an option
// position.
func LetterIndex(s string) (int, bool) {
	if len(s) != 1 {
		return 0, false
	}
	c := s[0] | 0x20
	if c < 'a' || c > 'd' {
		return 0, false
	}
	return int(c - 'a'), true
}
