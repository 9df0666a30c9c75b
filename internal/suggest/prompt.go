package suggest

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an experienced trip planner helping a group of friends turn a rough idea into a concrete plan. Write in a warm, practical tone. Always answer in the language the request details are written in.`

// BuildPrompt renders the user prompt for one suggestion request. The layout
// and self-check instructions are fixed so output stays consistent across
// providers and model versions.
func BuildPrompt(req Request) string {
	var b strings.Builder

	b.WriteString("Create a trip suggestion for the following request:\n\n")
	fmt.Fprintf(&b, "- Type of plan: %s\n", req.PlanType)
	fmt.Fprintf(&b, "- Participants: %s\n", req.Participants)
	fmt.Fprintf(&b, "- Duration: %s\n", req.Duration)
	fmt.Fprintf(&b, "- Location: %s\n", req.Location)
	if req.BudgetRange != "" {
		fmt.Fprintf(&b, "- Budget range: %s\n", req.BudgetRange)
	}
	if req.Preferences != "" {
		fmt.Fprintf(&b, "- Preferences: %s\n", req.Preferences)
	}

	b.WriteString(`
Structure the answer exactly like this:
1. A short title line for the plan.
2. A one-paragraph summary of the overall idea.
3. A day-by-day (or hour-by-hour for single-day plans) itinerary with concrete activities.
4. A "Practical notes" section: estimated cost per person, what to book in advance, and one backup option in case of bad weather.

Before answering, check your own draft: every activity must fit the stated duration and location, and the cost estimate must match the budget range if one was given. Do not invent exact prices for specific venues; give ranges instead. Keep the whole answer under 450 words.`)

	return b.String()
}
