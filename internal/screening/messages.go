package screening

import (
	"fmt"
	"strings"

	"github.com/spigell/talentscout/internal/candidate"
)

// ExitCommand ends the conversation from any stage. The match is exact.
const ExitCommand = "exit"

const Greeting = `Welcome to the TalentScout screening process.

This screening happens in two steps:
1. We will first collect some basic information about you.
2. Then you will be asked a few technical questions based on your profile.
Your responses will be reviewed by our hiring team.

Please reply only with the information requested in each question.
Keep your responses clear, professional, and relevant.

Let's begin.

What is your full name?`

const (
	msgInfoCollected = "All info collected! Generating questions now..."

	msgInstructions = "You will now be asked technical questions based on your profile.\n\n" +
		"**Instructions:**\n" +
		"- Answer each question clearly and concisely\n" +
		"- Do not provide unnecessary information\n" +
		"- If unsure, share what you know"

	msgAllAnswered = "All questions answered. Evaluating your responses..."

	msgClosing = "Thank you for completing the screening.\n\n" +
		"Your responses have been recorded and will be reviewed by our hiring team. " +
		"If your profile matches our current requirements, someone from HR will reach out to you with the next steps.\n\n" +
		"We appreciate your time and interest in the role."

	msgFarewell = "Thank you for your time. The screening has ended."

	msgExtractionRetry = "Sorry, I could not process your last message. Could you please send it again?"

	msgGenerationApology = "Sorry, we could not prepare your technical questions right now. " +
		"Please send any message to try again."

	msgEvaluationUnavailable = "Your answers have been recorded. The automatic evaluation is not available at the moment, " +
		"so our hiring team will review them directly."

	msgTooManyFailures = "We are experiencing technical difficulties and cannot continue the screening right now. " +
		"Your progress has been saved and our hiring team will contact you."

	msgInternalError = "Sorry, something went wrong on our side. Please send your last message again."
)

func missingFieldsMessage(missing []candidate.Field) string {
	var sb strings.Builder
	sb.WriteString("Thank you for your response.\n\n")
	sb.WriteString("To continue with the screening process, I still need the following information:\n")
	for _, field := range missing {
		sb.WriteString("- ")
		sb.WriteString(field.Label())
		sb.WriteString("\n")
	}
	sb.WriteString("\nPlease provide only the requested details in your next reply so we can move forward.")
	return sb.String()
}

func questionMessage(questions candidate.QuestionSet, cursor int) string {
	return fmt.Sprintf("Question %d of %d:\n\n%s", cursor+1, questions.Len(), questions[cursor])
}
