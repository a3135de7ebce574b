package bot

import (
	"fmt"
	"strings"

	"github.com/similvitoria/IC-IA-LLMChatbot/internal/candidate"
	"github.com/similvitoria/IC-IA-LLMChatbot/internal/jobs"
	"github.com/similvitoria/IC-IA-LLMChatbot/internal/match"
)

const (
	promptEmail      = "Welcome to the recruitment assistant! Please provide your email."
	promptName       = "What is your full name?"
	promptBirthDate  = "What is your birth date? (format: DD/MM/YYYY)"
	promptPhone      = "What is your phone number?"
	promptExperience = `Tell me about your most recent professional experience:
- Role
- Main responsibilities
- Skills used
- Results achieved`
	promptMoreExperience = "Would you like to add another professional experience? (yes/no)"
	promptNextExperience = "Tell me about your next professional experience."

	msgRestarted = "Registration restarted. Please provide your email."

	msgExtractionNotice = "I could not fully understand your experience, so I saved it as you wrote it."

	msgYesNo = `Please answer "yes" or "no".

` + promptMoreExperience

	msgInvalidSelection = "Invalid job number. Please pick a number from the list."

	msgNoMatches = "No compatible job postings were found at the moment."

	msgUnexpected = "An unexpected error occurred, so we restarted. " + promptEmail

	msgRecorderCaveat = "Your registration finished, but it was saved with an error. Our team will follow up."
)

func confirmField(label, value, nextPrompt string) string {
	return fmt.Sprintf("%s recorded: %s\n\n%s", label, value, nextPrompt)
}

func rejectField(reason, prompt string) string {
	return reason + "\n\n" + prompt
}

func formatExperience(exp candidate.Experience) string {
	skills := strings.Join(exp.Skills, ", ")
	if skills == "" {
		skills = "none specified"
	}

	return fmt.Sprintf(`Experience registered successfully!

Role: %s
Responsibilities: %s
Skills: %s
Results: %s

%s`, exp.Role, exp.Responsibilities, skills, exp.Results, promptMoreExperience)
}

func formatMatches(results []match.Result, postings *jobs.Postings) string {
	var b strings.Builder
	b.WriteString("Compatible job postings found:\n")

	for _, r := range results {
		posting := postings.FindByID(r.JobID)
		if posting == nil {
			continue
		}
		fmt.Fprintf(&b, "\nJob %d: %s\n", r.Rank, posting.Title)
		fmt.Fprintf(&b, "  Salary: %s\n", posting.Salary)
		fmt.Fprintf(&b, "  Modality: %s\n", posting.Modality)
		fmt.Fprintf(&b, "  Location: %s\n", posting.Location)
		fmt.Fprintf(&b, "  Skills: %s\n", posting.Skills)
	}

	b.WriteString("\nWould you like to apply to one of these postings? (type the job number)")
	return b.String()
}

func formatApplied(title, ref string, recordErr error) string {
	if recordErr != nil {
		return fmt.Sprintf("You applied to: %s!\n%s", title, msgRecorderCaveat)
	}
	return fmt.Sprintf("You applied to: %s!\nYour application was saved (%s). We will be in touch soon.", title, ref)
}

func formatFinishedWithoutJob(ref string, recordErr error) string {
	if recordErr != nil {
		return msgNoMatches + "\n" + msgRecorderCaveat
	}
	return fmt.Sprintf("%s\nRegistration finished! Your data was saved (%s).", msgNoMatches, ref)
}
