package prompts

import "fmt"

// emailFollowupTemplate drafts the follow-up email from an already
// generated summary. The single format verb receives the summary text.
const emailFollowupTemplate = `Create a professional follow-up email based on this meeting summary.

MEETING SUMMARY:
%s

Generate an email with this structure:

Subject: [Meeting topic] - Summary & Action Items - [Date]

Hi [Team/Names if known, otherwise "team"],

Thanks for the productive meeting [add "on [topic]" if clear from summary].

**KEY DECISIONS:**
- [Decision 1]
- [Decision 2]

**ACTION ITEMS:**
- [Name/Role] - [Task] - [Due date]
- [Name/Role] - [Task] - [Due date]

**NEXT STEPS:**
[2-3 sentence overview of immediate actions and timeline]

**BLOCKERS/NEEDS:**
[Only if there are blockers or items needing attention]

[If next meeting scheduled: "Our next meeting is [date] to discuss [topics]."]

Please let me know if I missed anything or if you have questions!

Best,
[Your name]

---

**RULES:**
1. Professional but warm tone
2. Concise - aim for 150-200 words
3. Action-oriented
4. Easy to skim (use bullets and sections)
5. Only include information from the summary
6. If no action items or decisions, adjust format accordingly`

// EmailFollowupPrompt returns the email prompt with the summary injected.
func EmailFollowupPrompt(summary string) string {
	return fmt.Sprintf(emailFollowupTemplate, summary)
}
