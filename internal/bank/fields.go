package bank

import "strings"

// Field is a logical question-bank field.
type Field string

const (
	FieldID          Field = "id"
	FieldTopic       Field = "topic"
	FieldPrompt      Field = "prompt"
	FieldCorrect     Field = "correct"
	FieldCategory    Field = "category"
	FieldOptions     Field = "options"
	FieldDistractors Field = "distractors"
	FieldPassage     Field = "passage_text"
	FieldBlank       Field = "blank"
	FieldQuestions   Field = "questions"
)

// FieldTable lists, per logical field, the source names to try in order.
// The first name present in the source wins.
type FieldTable struct {
	Names map[Field][]string

	// OptionColumns lists candidate column names for each option slot
	// (A, B, C, D, ...) in tabular sources.
	OptionColumns [][]string
}

// DefaultFieldTable returns the naming conventions seen across banks.
func DefaultFieldTable() FieldTable {
	return FieldTable{
		Names: map[Field][]string{
			FieldID:          {"id", "ID", "Id", "question_id"},
			FieldTopic:       {"topic", "Topic"},
			FieldPrompt:      {"question", "Question", "prompt", "question_text"},
			FieldCorrect:     {"correct", "correct_answer", "Correct Answer", "answer", "Answer"},
			FieldCategory:    {"error_type", "Error Type", "category", "Category"},
			FieldOptions:     {"options", "Options", "choices"},
			FieldDistractors: {"error_analysis"},
			FieldPassage:     {"passage_text", "passage", "text"},
			FieldBlank:       {"blank", "Blank"},
			FieldQuestions:   {"questions"},
		},
		OptionColumns: [][]string{
			optionColumnNames("A"),
			optionColumnNames("B"),
			optionColumnNames("C"),
			optionColumnNames("D"),
		},
	}
}

func optionColumnNames(letter string) []string {
	lower := strings.ToLower(letter)
	return []string{"Option " + letter, "option_" + lower, letter, lower, "opt_" + lower}
}

// columnMap is a FieldTable resolved against one source's keys.
type columnMap struct {
	fields  map[Field]string
	options []string // per slot; "" when the slot has no column
}

// resolve binds each logical field to the first candidate present in keys.
func (t FieldTable) resolve(keys []string) columnMap {
	present := make(map[string]bool, len(keys))
	for _, k := range keys {
		present[k] = true
	}

	first := func(names []string) string {
		for _, n := range names {
			if present[n] {
				return n
			}
		}
		return ""
	}

	cm := columnMap{
		fields:  make(map[Field]string, len(t.Names)),
		options: make([]string, len(t.OptionColumns)),
	}
	for f, names := range t.Names {
		if k := first(names); k != "" {
			cm.fields[f] = k
		}
	}
	for i, names := range t.OptionColumns {
		cm.options[i] = first(names)
	}
	return cm
}

func (cm columnMap) has(f Field) bool {
	_, ok := cm.fields[f]
	return ok
}

func (cm columnMap) hasOptionColumns() bool {
	for _, c := range cm.options {
		if c != "" {
			return true
		}
	}
	return false
}
