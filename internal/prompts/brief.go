package prompts

import "fmt"

// executiveBriefTemplate condenses a summary into a C-level brief. The
// single format verb receives the summary text.
const executiveBriefTemplate = `Create a brief executive summary from this meeting information.

MEETING SUMMARY:
%s

Generate an executive brief in this format:

━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━
EXECUTIVE BRIEF: [Meeting Topic]
[Date] | Status: 🟢/🟡/🔴
━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━

**THE HEADLINE:**
[One sentence capturing the most important outcome or development]

**WHAT HAPPENED:**
[2-3 sentences providing context and key discussion points]

**KEY DECISIONS:**
- [Decision 1]
- [Decision 2]

**BUSINESS IMPACT:**
[How this affects the business/project - timeline, resources, risks, opportunities]

**WHAT'S NEEDED:**
[Any decisions, resources, or actions needed from leadership]

**NEXT MILESTONE:**
[What's the next big deliverable or checkpoint, and when]

━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━

**RULES:**
1. Maximum 200 words
2. Lead with impact
3. Be specific with timeline and numbers
4. Action-oriented
5. Written for C-level audience
6. Status: 🟢 = on track, 🟡 = at risk, 🔴 = blocked/critical`

// ExecutiveBriefPrompt returns the brief prompt with the summary injected.
func ExecutiveBriefPrompt(summary string) string {
	return fmt.Sprintf(executiveBriefTemplate, summary)
}
