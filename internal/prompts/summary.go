package prompts

import "fmt"

// meetingSummaryTemplate turns raw notes into the structured markdown
// summary. The first format verb receives the notes, the second the
// meeting date. The section headings are fixed so downstream tests can
// assert structure without depending on generated content.
const meetingSummaryTemplate = `Transform these meeting notes into a comprehensive, structured summary.

MEETING NOTES:
%s

Generate a summary with these sections:

# MEETING SUMMARY
**Date:** %s
**Topic:** [Extract or infer from notes]

---

## 📋 EXECUTIVE SUMMARY
[2-3 sentences capturing: what was discussed, what was decided, what happens next.
Written for someone who wasn't there. Focus on business impact.]

---

## ✅ KEY DECISIONS
[List major decisions made, with brief context of why each matters.
Format: "Decision - Why it matters / Context"
If no decisions were made, state: "No major decisions - discussion/planning phase"]

---

## 🎯 ACTION ITEMS

**High Priority (Urgent/Blocking):**
- [ ] [Task description] - **@[Owner if mentioned]** - Due: [Date if mentioned]

**Medium Priority:**
- [ ] [Task description] - **@[Owner if mentioned]** - Due: [Date if mentioned]

**Low Priority / Follow-up:**
- [ ] [Task description] - **@[Owner if mentioned]** - Due: [Date if mentioned]

**⚠️ Missing Information:**
- [ ] [Tasks where owner or deadline is unclear]

[If no action items, state: "No action items identified"]

---

## 🚨 RISKS & BLOCKERS

**Risks Identified:**
- [Risk description] - Severity: [High/Medium/Low] - [Mitigation if discussed]

**Current Blockers:**
- [Blocker description] - [Who can unblock if known]

[If none, state: "No risks or blockers identified"]

---

## 💡 KEY DISCUSSION POINTS

[Capture main topics discussed, organized by theme if possible.
Include important context, concerns raised, or questions that came up.
Keep it concise - this is NOT a transcript.]

---

## 📅 NEXT STEPS

**Immediate (This Week):**
- [What needs to happen immediately]

**Short-term (Next 2 Weeks):**
- [What's coming up soon]

**Next Meeting:**
- **Date:** [If mentioned, or suggest timing]
- **Agenda:**
  - [Topic 1 - based on unresolved items or next logical steps]
  - [Topic 2]

---

**IMPORTANT RULES:**
1. Only include information from the notes - don't invent details
2. If information is missing (owner, date, details), mark it with ⚠️
3. Maintain professional tone
4. Use checkboxes [ ] for action items
5. Be concise but complete
6. Prioritize action items by urgency and impact
7. For vague action items, note what clarification is needed`

// MeetingSummaryPrompt returns the summary prompt with the notes and
// meeting date injected.
func MeetingSummaryPrompt(notes, date string) string {
	return fmt.Sprintf(meetingSummaryTemplate, notes, date)
}
