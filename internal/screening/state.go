package screening

import (
	"time"

	"github.com/spigell/talentscout/internal/candidate"
)

// Role marks the author of a transcript message.
type Role string

const (
	RoleAssistant Role = "assistant"
	RoleCandidate Role = "user"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// State is everything the controller knows about one conversation. It is
// passed into Controller.Turn and a new value is returned; the host persists it
// between turns.
type State struct {
	ID        string                 `json:"id"`
	Stage     Stage                  `json:"stage"`
	Profile   candidate.Profile      `json:"profile"`
	Questions candidate.QuestionSet  `json:"questions,omitempty"`
	Answers   candidate.AnswerLedger `json:"answers,omitempty"`
	// Cursor points at the question whose answer is expected next.
	Cursor int `json:"cursor"`
	// Presented is set once the question at Cursor has been shown.
	Presented bool `json:"presented"`

	Evaluation            *candidate.Evaluation `json:"evaluation,omitempty"`
	EvaluationUnavailable bool                  `json:"evaluation_unavailable,omitempty"`

	// Failures counts oracle failures since the last successful oracle call.
	Failures int `json:"failures"`

	Transcript []Message `json:"transcript"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewState returns the initial state of a conversation with the greeting as
// the first transcript message.
func NewState(id string, now time.Time) State {
	return State{
		ID:         id,
		Stage:      StageInfoCollection,
		Transcript: []Message{{Role: RoleAssistant, Content: Greeting}},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Ended reports whether the conversation reached its terminal stage.
func (s State) Ended() bool {
	return s.Stage == StageConvoEnd
}

// Verdict returns the verdict of the evaluation or an empty string when there
// is none.
func (s State) Verdict() candidate.Verdict {
	if s.Evaluation == nil {
		return ""
	}
	return s.Evaluation.Verdict
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := s
	out.Profile = s.Profile.Clone()
	if s.Questions != nil {
		out.Questions = append(candidate.QuestionSet{}, s.Questions...)
	}
	out.Answers = s.Answers.Clone()
	out.Evaluation = s.Evaluation.Clone()
	if s.Transcript != nil {
		out.Transcript = append([]Message{}, s.Transcript...)
	}
	return out
}

func (s *State) appendMessage(role Role, content string) {
	s.Transcript = append(s.Transcript, Message{Role: role, Content: content})
}
