package quiz

import (
	_ "embed"
	"encoding/json"

	"github.com/pkg/errors"
)

//go:embed questions.json
var defaultQuestions []byte

// ErrEmptyBank is returned when a bank would hold no questions.
var ErrEmptyBank = errors.New("question bank is empty")

type Question struct {
	Prompt string `json:"question"`
	Hint   string `json:"hint"`
	Answer string `json:"answer"`
}

// Bank is the ordered, read-only list of questions for a session.
type Bank struct {
	questions []Question
}

func NewBank(qs []Question) (*Bank, error) {
	if len(qs) == 0 {
		return nil, ErrEmptyBank
	}
	out := make([]Question, len(qs))
	copy(out, qs)
	return &Bank{questions: out}, nil
}

// DefaultBank returns the built-in virtio-net debugging drill.
func DefaultBank() (*Bank, error) {
	qs, err := ParseQuestions(defaultQuestions)
	if err != nil {
		return nil, errors.Wrap(err, "built-in questions")
	}
	return NewBank(qs)
}

// ParseQuestions decodes a JSON array of questions. Every entry needs a
// prompt and an answer; the hint may be empty.
func ParseQuestions(data []byte) ([]Question, error) {
	var qs []Question
	if err := json.Unmarshal(data, &qs); err != nil {
		return nil, errors.Wrap(err, "decode questions")
	}
	for i, q := range qs {
		if q.Prompt == "" {
			return nil, errors.Errorf("question %d: missing prompt", i+1)
		}
		if q.Answer == "" {
			return nil, errors.Errorf("question %d: missing answer", i+1)
		}
	}
	return qs, nil
}

func (b *Bank) Get(i int) Question {
	return b.questions[i]
}

func (b *Bank) Len() int {
	return len(b.questions)
}
