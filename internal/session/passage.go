package session

import "github.com/abhisek/studyzone/internal/bank"

// PassageSet plays a list of passages, each as its own batch session.
type PassageSet struct {
	passages []bank.Passage
	sessions []*Session
	index    int
}

// NewPassageSet builds one batch session per passage. cfg.Mode is forced
// to ModeBatch.
func NewPassageSet(passages []bank.Passage, cfg Config) *PassageSet {
	cfg.Mode = ModeBatch
	ps := &PassageSet{passages: passages}
	for _, p := range passages {
		ps.sessions = append(ps.sessions, New(p.Questions, cfg))
	}
	return ps
}

// Count is the number of passages.
func (p *PassageSet) Count() int { return len(p.passages) }

// Index is the position of the current passage.
func (p *PassageSet) Index() int { return p.index }

// Current returns the passage on screen and its session.
func (p *PassageSet) Current() (bank.Passage, *Session, bool) {
	if len(p.passages) == 0 {
		return bank.Passage{}, nil, false
	}
	return p.passages[p.index], p.sessions[p.index], true
}

// Next moves to the following passage. Answers are kept; feedback is
// hidden. It returns false at the last passage.
func (p *PassageSet) Next() bool {
	if p.index >= len(p.passages)-1 {
		return false
	}
	p.index++
	p.sessions[p.index].clearSubmission()
	return true
}

// Prev moves to the preceding passage. It returns false at the first.
func (p *PassageSet) Prev() bool {
	if p.index <= 0 {
		return false
	}
	p.index--
	p.sessions[p.index].clearSubmission()
	return true
}

// Retry clears the answers of the current passage only.
func (p *PassageSet) Retry() {
	if _, s, ok := p.Current(); ok {
		s.ClearAnswers()
		s.index = 0
	}
}

// Summary scores every passage together.
func (p *PassageSet) Summary(basis Basis) Summary {
	var records []bank.Record
	answers := make(map[string]string)
	for i, s := range p.sessions {
		records = append(records, p.passages[i].Questions...)
		for k, v := range s.answers {
			answers[k] = v
		}
	}
	return Summarize(records, answers, basis)
}
