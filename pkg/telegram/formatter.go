package telegram

import (
	"fmt"
	"strings"
	"time"
)

// RunSummary carries the fields of a batch revaluation run that operators
// want to see in a chat message.
type RunSummary struct {
	StartedAt           time.Time
	CompletedAt         time.Time
	MarketPricesUpdated int
	AccrualsUpdated     int
	PortfoliosUpdated   int
	Errors              []string
}

// FormatRunSummary renders a revaluation run summary as a Markdown message.
func FormatRunSummary(s RunSummary) string {
	var b strings.Builder

	status := "✅ *Daily revaluation completed*"
	if len(s.Errors) > 0 {
		status = "⚠️ *Daily revaluation completed with errors*"
	}
	b.WriteString(status + "\n\n")

	fmt.Fprintf(&b, "Duration: `%s`\n", s.CompletedAt.Sub(s.StartedAt).Round(time.Millisecond))
	fmt.Fprintf(&b, "Market prices updated: `%d`\n", s.MarketPricesUpdated)
	fmt.Fprintf(&b, "Accruals updated: `%d`\n", s.AccrualsUpdated)
	fmt.Fprintf(&b, "Portfolios updated: `%d`\n", s.PortfoliosUpdated)

	if len(s.Errors) > 0 {
		fmt.Fprintf(&b, "\nErrors (%d):\n", len(s.Errors))
		limit := len(s.Errors)
		if limit > 10 {
			limit = 10
		}
		for _, e := range s.Errors[:limit] {
			fmt.Fprintf(&b, "- `%s`\n", e)
		}
		if len(s.Errors) > limit {
			fmt.Fprintf(&b, "... and %d more\n", len(s.Errors)-limit)
		}
	}

	return b.String()
}
