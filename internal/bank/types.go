package bank

import "strings"

// Placeholder fills option slots the source did not provide.
const Placeholder = "N/A"

// DefaultArity is the number of option slots every record is padded to.
const DefaultArity = 4

// Record is a single multiple-choice question as loaded from a bank.
// Records are never mutated after load.
type Record struct {
	// ID identifies the record within its bank. Rows without an ID column
	// get a synthetic "row-<n>" identifier.
	ID string

	Topic  string
	Prompt string

	// Options holds at least Arity entries; missing slots are Placeholder.
	Options []string
	// Padded marks the Options slots that were filled in rather than
	// loaded. A nil Padded means every option came from the source.
	Padded []bool

	// Indicator is the raw correct-answer value: a letter code (A-D), the
	// full option text, or empty when HasIndicator is false.
	Indicator    string
	HasIndicator bool

	// Category is the error-type tag, empty when the bank has none.
	Category string

	// Distractors maps a wrong option's text to its error category.
	Distractors map[string]string

	// Row is the 1-based data row (or array position) in the source.
	Row int
}

// IsPlaceholder reports whether option i was padded in rather than loaded.
func (r Record) IsPlaceholder(i int) bool {
	if i < 0 || i >= len(r.Options) {
		return true
	}
	return i < len(r.Padded) && r.Padded[i]
}

// RealOptions returns the options that came from the source.
func (r Record) RealOptions() []string {
	out := make([]string, 0, len(r.Options))
	for i, o := range r.Options {
		if !r.IsPlaceholder(i) {
			out = append(out, o)
		}
	}
	return out
}

// Passage is a reading text with one question per blank.
type Passage struct {
	Topic     string
	Text      string
	Questions []Record
}

// Options configures loading.
type Options struct {
	Fields FieldTable
	Arity  int
}

// DefaultOptions returns the standard field table and arity.
func DefaultOptions() Options {
	return Options{
		Fields: DefaultFieldTable(),
		Arity:  DefaultArity,
	}
}

func (o Options) arity() int {
	if o.Arity <= 0 {
		return DefaultArity
	}
	return o.Arity
}

// padOptions pads opts to arity with Placeholder and reports which slots
// were padded. Empty source cells count as missing. Longer lists are kept
// whole.
func padOptions(opts []string, arity int) ([]string, []bool) {
	n := max(arity, len(opts))
	out := make([]string, 0, n)
	padded := make([]bool, 0, n)
	for _, o := range opts {
		missing := strings.TrimSpace(o) == ""
		if missing {
			o = Placeholder
		}
		out = append(out, o)
		padded = append(padded, missing)
	}
	for len(out) < arity {
		out = append(out, Placeholder)
		padded = append(padded, true)
	}
	return out, padded
}

// letterOptions is the option list for banks that store only letter codes.
var letterOptions = []string{"A", "B", "C", "D"}

// OptionCount is the number of options that came from the source.
func (r Record) OptionCount() int {
	return len(r.RealOptions())
}
