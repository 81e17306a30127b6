package quiz

import (
	"strings"

	"github.com/pkg/errors"
)

const (
	hintCommand   = "hint"
	correctText   = "Correct!"
	incorrectText = "Incorrect, try again or type 'hint'"
	completeText  = "Quiz complete!"
)

type LineKind int

const (
	LinePrompt LineKind = iota
	LineCorrect
	LineIncorrect
	LineHint
	LineInfo
)

func (k LineKind) String() string {
	switch k {
	case LinePrompt:
		return "prompt"
	case LineCorrect:
		return "correct"
	case LineIncorrect:
		return "incorrect"
	case LineHint:
		return "hint"
	case LineInfo:
		return "info"
	}
	return "unknown"
}

// Line is one entry of the transcript shown in the history pane.
type Line struct {
	Kind LineKind
	Text string
}

// Outcome reports what a call to Submit did.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeHint
	OutcomeCorrect
	OutcomeIncorrect
)

func (o Outcome) String() string {
	switch o {
	case OutcomeHint:
		return "hint"
	case OutcomeCorrect:
		return "correct"
	case OutcomeIncorrect:
		return "incorrect"
	}
	return "none"
}

type Stats struct {
	Correct   int
	Incorrect int
	Hints     int
}

// QuestionStats tracks how one question went.
type QuestionStats struct {
	Wrong  int
	Hints  int
	Solved bool
}

// Session holds the progress of one quiz run. It is not safe for concurrent
// use; the event loop owns it.
type Session struct {
	bank       *Bank
	history    History
	current    int
	input      []rune
	transcript []Line
	scroll     int
	stats      Stats
	perQ       []QuestionStats
}

func NewSession(bank *Bank, history History) (*Session, error) {
	if bank == nil || bank.Len() == 0 {
		return nil, errors.WithStack(ErrEmptyBank)
	}
	if history == nil {
		history = discardHistory{}
	}
	return &Session{
		bank:       bank,
		history:    history,
		transcript: []Line{{Kind: LinePrompt, Text: bank.Get(0).Prompt}},
		perQ:       make([]QuestionStats, bank.Len()),
	}, nil
}

func (s *Session) AppendChar(r rune) {
	s.input = append(s.input, r)
}

func (s *Session) Backspace() {
	if len(s.input) > 0 {
		s.input = s.input[:len(s.input)-1]
	}
}

func (s *Session) ScrollUp() {
	if s.scroll > 0 {
		s.scroll--
	}
}

// ScrollDown has no upper bound; the surface shows blank rows past the end.
func (s *Session) ScrollDown() {
	s.scroll++
}

// Submit evaluates the input buffer against the current question.
//
// Blank input and input entered after the last question are discarded without
// touching the transcript or the history. Otherwise "hint" (any case) shows
// the hint, an exact match advances, and anything else is rejected. The raw,
// untrimmed input goes to the history in all three cases.
func (s *Session) Submit() Outcome {
	raw := string(s.input)
	s.input = s.input[:0]

	answer := strings.TrimSpace(raw)
	if answer == "" || s.Completed() {
		return OutcomeNone
	}

	q := s.bank.Get(s.current)
	var outcome Outcome
	switch {
	case strings.EqualFold(answer, hintCommand):
		s.push(LineHint, q.Hint)
		s.stats.Hints++
		s.perQ[s.current].Hints++
		outcome = OutcomeHint
	case answer == q.Answer:
		s.push(LineCorrect, correctText)
		s.perQ[s.current].Solved = true
		s.current++
		if s.current < s.bank.Len() {
			s.push(LinePrompt, s.bank.Get(s.current).Prompt)
		} else {
			s.push(LineInfo, completeText)
		}
		s.stats.Correct++
		outcome = OutcomeCorrect
	default:
		s.push(LineIncorrect, incorrectText)
		s.stats.Incorrect++
		s.perQ[s.current].Wrong++
		outcome = OutcomeIncorrect
	}

	s.history.Append(raw)
	s.scroll = 0
	return outcome
}

func (s *Session) push(kind LineKind, text string) {
	s.transcript = append(s.transcript, Line{Kind: kind, Text: text})
}

// Transcript returns a copy of the lines shown so far.
func (s *Session) Transcript() []Line {
	out := make([]Line, len(s.transcript))
	copy(out, s.transcript)
	return out
}

func (s *Session) Input() string {
	return string(s.input)
}

func (s *Session) Scroll() int {
	return s.scroll
}

// Current is the index of the active question, or Len when complete.
func (s *Session) Current() int {
	return s.current
}

func (s *Session) Completed() bool {
	return s.current >= s.bank.Len()
}

func (s *Session) Progress() (completed, total int) {
	return s.current, s.bank.Len()
}

func (s *Session) Stats() Stats {
	return s.stats
}

// Breakdown returns per-question results for every question reached so far.
func (s *Session) Breakdown() []QuestionStats {
	n := s.current + 1
	if n > len(s.perQ) {
		n = len(s.perQ)
	}
	out := make([]QuestionStats, n)
	copy(out, s.perQ[:n])
	return out
}
