package screening

import (
	"fmt"
	"strings"
)

// Stage is one phase of the screening conversation. Stages only move forward
// in the order they are declared below.
type Stage string

const (
	StageInfoCollection     Stage = "INFO_COLLECTION"
	StageQuestionGeneration Stage = "QUESTION_GENERATION"
	StageAskQuestions       Stage = "ASK_QUESTIONS"
	StageAssessment         Stage = "ASSESSMENT"
	StageConvoEnd           Stage = "CONVO_END"
)

// Stages lists every stage in conversation order.
var Stages = []Stage{
	StageInfoCollection,
	StageQuestionGeneration,
	StageAskQuestions,
	StageAssessment,
	StageConvoEnd,
}

// Rank returns the position of the stage in conversation order, or -1 for an
// unknown value.
func (s Stage) Rank() int {
	for i, stage := range Stages {
		if stage == s {
			return i
		}
	}
	return -1
}

func (s Stage) Valid() bool { return s.Rank() >= 0 }

func (s Stage) String() string { return string(s) }

// ParseStage converts a stored or user provided value into a Stage.
func ParseStage(value string) (Stage, error) {
	stage := Stage(strings.ToUpper(strings.TrimSpace(value)))
	if !stage.Valid() {
		return "", fmt.Errorf("unknown stage %q", value)
	}
	return stage, nil
}
