// Package extract turns compacted page text into validated staff
// records via a schema-constrained generative extraction call.
package extract

import (
	"fmt"
	"strings"

	"github.com/sells-group/harvest-cli/internal/model"
)

// systemPrompt pins the extraction role and output contract.
const systemPrompt = "You are extracting staff directory data for a contact database. Return ONLY a strict JSON array, no markdown, no comments."

// promptTemplate is the user message. The emails block is omitted when
// no addresses were found locally.
const promptTemplate = `Organization: %s
Category: %s

Return ONLY a strict JSON array (no markdown, no comments).
Each item MUST have exactly these keys:
- name (string)
- title (string)
- email (string or null)

Rules:
- Include the head coach and all assistants/volunteers/coordinators/staff listed for this category.
- If email is not present, set email to null.
- Do NOT invent emails.
- Do NOT include department staff unrelated to this category unless clearly part of its staff.
%s
PAGE TEXT (filtered):
%s

JSON:`

// BuildPrompt constructs the extraction instruction for one page.
func BuildPrompt(org model.Organization, categoryLabel string, content model.CompactedContent, emailHints []string) string {
	var hints string
	if len(emailHints) > 0 {
		hints = fmt.Sprintf("\nEmails seen in the page text:\n%s\n", strings.Join(emailHints, "\n"))
	}
	return fmt.Sprintf(promptTemplate, org.Name, categoryLabel, hints, content.Text)
}
