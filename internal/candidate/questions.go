package candidate

import (
	"errors"
	"fmt"
	"strings"
)

const (
	MinQuestions = 3
	MaxQuestions = 5
)

var ErrInvalidQuestionSet = errors.New("invalid question set")

// QuestionSet is the ordered list of technical questions for one conversation.
type QuestionSet []string

// NewQuestionSet trims the provided questions and checks the count and
// uniqueness constraints.
func NewQuestionSet(questions []string) (QuestionSet, error) {
	if len(questions) < MinQuestions || len(questions) > MaxQuestions {
		return nil, fmt.Errorf("%w: expected %d to %d questions, got %d", ErrInvalidQuestionSet, MinQuestions, MaxQuestions, len(questions))
	}

	set := make(QuestionSet, 0, len(questions))
	seen := make(map[string]struct{}, len(questions))
	for i, q := range questions {
		q = strings.TrimSpace(q)
		if q == "" {
			return nil, fmt.Errorf("%w: question %d is empty", ErrInvalidQuestionSet, i+1)
		}
		if _, ok := seen[q]; ok {
			return nil, fmt.Errorf("%w: question %d is a duplicate", ErrInvalidQuestionSet, i+1)
		}
		seen[q] = struct{}{}
		set = append(set, q)
	}

	return set, nil
}

func (q QuestionSet) Len() int { return len(q) }

// AnswerLedger maps a question text to the raw reply of the candidate.
type AnswerLedger map[string]string

// Record stores the answer for the question.
func (l AnswerLedger) Record(question, answer string) {
	l[question] = answer
}

// Clone returns a copy of the ledger.
func (l AnswerLedger) Clone() AnswerLedger {
	if l == nil {
		return nil
	}
	out := make(AnswerLedger, len(l))
	for k, v := range l {
		out[k] = v
	}
	return out
}

// QAPair is a question together with the recorded answer.
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Pairs returns one pair per question in question order. Unanswered questions
// get an empty answer.
func (l AnswerLedger) Pairs(questions QuestionSet) []QAPair {
	pairs := make([]QAPair, 0, len(questions))
	for _, q := range questions {
		pairs = append(pairs, QAPair{Question: q, Answer: l[q]})
	}
	return pairs
}

var nonAnswers = map[string]struct{}{
	"pass":         {},
	"idk":          {},
	"i don't know": {},
	"i don’t know": {},
}

// IsNonAnswer reports whether the reply counts as no answer at all.
func IsNonAnswer(answer string) bool {
	normalized := strings.ToLower(strings.TrimSpace(answer))
	normalized = strings.TrimRight(normalized, ".!")
	if normalized == "" {
		return true
	}
	_, ok := nonAnswers[normalized]
	return ok
}
