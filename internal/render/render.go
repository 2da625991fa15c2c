package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/spigell/talentscout/internal/candidate"
	"github.com/spigell/talentscout/internal/screening"
	"github.com/spigell/talentscout/internal/session"
)

const timeLayout = "2006-01-02 15:04"

// Message renders one transcript entry with the author on its own line.
func Message(m screening.Message) string {
	label := assistantLabel.Render("TalentScout")
	if m.Role == screening.RoleCandidate {
		label = candidateLabel.Render("You")
	}
	return label + "\n" + bodyStyle.Render(m.Content)
}

// Transcript renders the whole conversation.
func Transcript(messages []screening.Message) string {
	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		parts = append(parts, Message(m))
	}
	return strings.Join(parts, "\n\n")
}

// Profile renders the collected candidate fields. Missing values are shown as
// a dash.
func Profile(p candidate.Profile) string {
	values := map[candidate.Field]string{
		candidate.FieldName:             candidate.String(p.Name),
		candidate.FieldEmail:            candidate.String(p.Email),
		candidate.FieldPhone:            candidate.String(p.Phone),
		candidate.FieldDesiredPositions: strings.Join(p.DesiredPositions, ", "),
		candidate.FieldLocation:         candidate.String(p.Location),
		candidate.FieldTechStack:        strings.Join(p.TechStack, ", "),
	}
	if p.YearsOfExperience != nil {
		values[candidate.FieldYearsOfExperience] = strconv.Itoa(*p.YearsOfExperience)
	}

	rows := make([]string, 0, len(candidate.RequiredFields)+1)
	rows = append(rows, titleStyle.Render("Candidate"))
	for _, field := range candidate.RequiredFields {
		value := values[field]
		if value == "" {
			value = "-"
		}
		rows = append(rows, fmt.Sprintf("%s %s", labelStyle.Render(field.Label()+":"), value))
	}
	return panelStyle.Render(strings.Join(rows, "\n"))
}

// Answers renders every question with the recorded reply.
func Answers(questions candidate.QuestionSet, answers candidate.AnswerLedger) string {
	if questions.Len() == 0 {
		return mutedStyle.Render("No questions were generated.")
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Questions"))
	for i, pair := range answers.Pairs(questions) {
		answer := pair.Answer
		if _, ok := answers[pair.Question]; !ok {
			answer = mutedStyle.Render("(not answered)")
		}
		fmt.Fprintf(&sb, "\n%d. %s\n   %s", i+1, pair.Question, answer)
	}
	return panelStyle.Render(sb.String())
}

// Evaluation renders the evaluation of a finished session.
func Evaluation(state screening.State) string {
	switch {
	case state.Evaluation != nil:
	case state.EvaluationUnavailable:
		return panelStyle.Render(mutedStyle.Render("Evaluation unavailable: the evaluator failed for this session."))
	default:
		return panelStyle.Render(mutedStyle.Render("Not evaluated yet (stage " + string(state.Stage) + ")."))
	}

	e := state.Evaluation
	rows := []string{
		titleStyle.Render("Evaluation"),
		fmt.Sprintf("%s %s", labelStyle.Render("verdict:"), Verdict(e.Verdict)),
		fmt.Sprintf("%s %d/10", labelStyle.Render("score:"), e.Score),
	}
	if e.Summary != "" {
		rows = append(rows, "", e.Summary)
	}
	rows = append(rows, bulletList("strengths", e.Strengths)...)
	rows = append(rows, bulletList("weaknesses", e.Weaknesses)...)
	return panelStyle.Render(strings.Join(rows, "\n"))
}

// Verdict renders the verdict in its band color.
func Verdict(v candidate.Verdict) string {
	style, ok := verdictStyles[string(v)]
	if !ok {
		return string(v)
	}
	return style.Render(string(v))
}

// Sessions renders stored sessions as a table.
func Sessions(summaries []session.Summary) string {
	if len(summaries) == 0 {
		return mutedStyle.Render("No screening sessions found.")
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers("ID", "CANDIDATE", "STAGE", "VERDICT", "SCORE", "UPDATED")

	for _, s := range summaries {
		name := s.Candidate
		if name == "" {
			name = "-"
		}
		verdict, score := "-", "-"
		if s.Verdict != "" {
			verdict = string(s.Verdict)
		}
		if s.Score != nil {
			score = strconv.Itoa(*s.Score)
		}
		t.Row(s.ID, name, string(s.Stage), verdict, score, s.UpdatedAt.Local().Format(timeLayout))
	}

	return t.Render()
}

func bulletList(title string, items []string) []string {
	if len(items) == 0 {
		return nil
	}
	rows := []string{"", labelStyle.Render(title + ":")}
	for _, item := range items {
		rows = append(rows, "- "+item)
	}
	return rows
}
