package diagnosis

import "strings"

// ErrorType describes one error category found in the question banks.
type ErrorType struct {
	Key         string
	Label       string
	Description string
	Tip         string
}

var errorTypes = []ErrorType{
	{
		Key:         "tense",
		Label:       "Verb tense",
		Description: "The verb form does not match the time the sentence talks about.",
		Tip:         "Look for time words such as yesterday, now, since or next week.",
	},
	{
		Key:         "subject verb agreement",
		Label:       "Subject-verb agreement",
		Description: "The verb does not agree with its subject in number.",
		Tip:         "Find the subject first, then ask whether it is one thing or many.",
	},
	{
		Key:         "preposition",
		Label:       "Preposition",
		Description: "The preposition does not fit the phrase or the place or time it introduces.",
		Tip:         "Learn prepositions with their phrases: in the morning, on Monday, at night.",
	},
	{
		Key:         "article",
		Label:       "Article",
		Description: "The article (a, an, the) is missing, extra or the wrong one.",
		Tip:         "Use a/an for something new or one of many, the for something already known.",
	},
	{
		Key:         "vocabulary",
		Label:       "Vocabulary",
		Description: "The chosen word does not carry the meaning the sentence needs.",
		Tip:         "Read the whole sentence and picture the meaning before choosing a word.",
	},
	{
		Key:         "word form",
		Label:       "Word form",
		Description: "The right word family is used in the wrong form (noun, verb, adjective, adverb).",
		Tip:         "Check the word's job in the sentence: after a/the you need a noun, before a noun an adjective.",
	},
	{
		Key:         "pronoun",
		Label:       "Pronoun",
		Description: "The pronoun does not match the person or thing it refers to.",
		Tip:         "Find what the pronoun replaces and check person, number and case.",
	},
	{
		Key:         "plural",
		Label:       "Singular and plural",
		Description: "A noun is singular where it should be plural, or the other way round.",
		Tip:         "Counting words such as many, two or a few need plural nouns.",
	},
	{
		Key:         "spelling",
		Label:       "Spelling",
		Description: "The word is misspelled.",
		Tip:         "Say the word slowly and check double letters and silent letters.",
	},
	{
		Key:         "conjunction",
		Label:       "Conjunction",
		Description: "The linking word does not show the right relation between the ideas.",
		Tip:         "Ask whether the ideas add (and), contrast (but) or explain (because).",
	},
}

var errorTypeIndex = func() map[string]*ErrorType {
	m := make(map[string]*ErrorType, len(errorTypes))
	for i := range errorTypes {
		m[errorTypes[i].Key] = &errorTypes[i]
	}
	return m
}()

// LookupErrorType finds the known error type for a bank category. Matching
// ignores case, surrounding space, "_"/"-" separators and a trailing
// " error(s)", so "Tense", "tense_error" and "Tense Errors" all match.
func LookupErrorType(category string) (*ErrorType, bool) {
	key := normalizeCategory(category)
	if et, ok := errorTypeIndex[key]; ok {
		return et, true
	}
	for _, et := range errorTypes {
		if strings.HasPrefix(key, et.Key) {
			return &et, true
		}
	}
	return nil, false
}

// ErrorTypes returns the known error types in display order.
func ErrorTypes() []ErrorType {
	out := make([]ErrorType, len(errorTypes))
	copy(out, errorTypes)
	return out
}

func normalizeCategory(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	for _, suffix := range []string{" errors", " error"} {
		s = strings.TrimSuffix(s, suffix)
	}
	return s
}
