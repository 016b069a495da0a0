package bank

import "sort"

// Selector picks a subset of the bank by category. The zero value selects
// every record.
type Selector struct {
	Category string
}

// All selects the whole bank.
var All = Selector{}

// ForCategory selects records tagged with category.
func ForCategory(category string) Selector {
	return Selector{Category: category}
}

// IsAll reports whether s selects the whole bank.
func (s Selector) IsAll() bool {
	return s.Category == ""
}

// Label is the text shown in the filter picker.
func (s Selector) Label() string {
	if s.IsAll() {
		return "All Questions"
	}
	return s.Category
}

// Match reports whether rec is selected by s.
func (s Selector) Match(rec Record) bool {
	return s.IsAll() || rec.Category == s.Category
}

// Filter returns the records matching sel in bank order. The full bank is
// returned for All, and also when no record carries a category at all.
func Filter(records []Record, sel Selector) []Record {
	if sel.IsAll() || !hasCategories(records) {
		return append([]Record(nil), records...)
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if sel.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Categories returns the distinct non-empty categories, sorted.
func Categories(records []Record) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range records {
		if r.Category == "" || seen[r.Category] {
			continue
		}
		seen[r.Category] = true
		out = append(out, r.Category)
	}
	sort.Strings(out)
	return out
}

// Selectors returns All followed by one selector per category.
func Selectors(records []Record) []Selector {
	cats := Categories(records)
	out := make([]Selector, 0, len(cats)+1)
	out = append(out, All)
	for _, c := range cats {
		out = append(out, ForCategory(c))
	}
	return out
}

func hasCategories(records []Record) bool {
	for _, r := range records {
		if r.Category != "" {
			return true
		}
	}
	return false
}
