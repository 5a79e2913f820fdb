package opposition

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// BuildReport renders a single-opposition Record as a markdown report.
func BuildReport(rec Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Trademark Opposition Report\n\n")
	fmt.Fprintf(&b, "- Opposition: %s\n", rec.OppositionNumber)
	fmt.Fprintf(&b, "- Plaintiff: %s\n", orDash(rec.PlaintiffName))
	fmt.Fprintf(&b, "- Defendant: %s\n", orDash(rec.DefendantName))
	fmt.Fprintf(&b, "- Date: %s\n\n", time.Now().Format(time.RFC3339))

	fmt.Fprintf(&b, "## Outcome\n\n")
	fmt.Fprintf(&b, "- Decision: **%s**\n", rec.Outcome)
	fmt.Fprintf(&b, "- Filed: %s\n", orDash(rec.FilingDate))
	fmt.Fprintf(&b, "- Terminated: %s\n\n", orDash(rec.TerminationDate))

	fmt.Fprintf(&b, "## Class Coverage\n\n")
	fmt.Fprintf(&b, "- Unique US classes (%d): %s\n", len(rec.UniqueUSClasses), joinOrDash(rec.UniqueUSClasses))
	fmt.Fprintf(&b, "- Unique international classes (%d): %s\n", len(rec.UniqueInternationalClasses), joinOrDash(rec.UniqueInternationalClasses))
	fmt.Fprintf(&b, "- Total US class entries: %d\n", rec.TotalUSClasses)
	fmt.Fprintf(&b, "- Total international class entries: %d\n\n", rec.TotalInternationalClasses)

	fmt.Fprintf(&b, "## Pleaded Marks\n\n")
	if len(rec.Marks) == 0 {
		fmt.Fprintf(&b, "No pleaded applications or registrations were found.\n\n")
	} else {
		fmt.Fprintf(&b, "| Serial | Mark | Side | Type | US Classes | Intl Classes |\n")
		fmt.Fprintf(&b, "|---|---|---|---|---|---|\n")
		for _, m := range rec.Marks {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
				m.SerialNumber, sanitizeCell(m.MarkName), m.Side, m.MarkType,
				orDash(m.USClassCodes), orDash(m.InternationalClassCodes))
		}
		b.WriteString("\n")
	}

	if len(rec.Failed) > 0 {
		fmt.Fprintf(&b, "## Retrieval Failures\n\n")
		for _, f := range rec.Failed {
			fmt.Fprintf(&b, "- %s (%s): `%s`\n", f.SerialNumber, sanitizeCell(f.MarkName), f.Tag)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Appendix\n\n")
	fmt.Fprintf(&b, "### Full Record (JSON)\n\n```json\n%s\n```\n", prettyJSON(rec))
	return b.String()
}

// BuildBatchReport renders a multi-opposition scan as a markdown report.
func BuildBatchReport(batch BatchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Trademark Opposition Batch Report\n\n")
	fmt.Fprintf(&b, "- Query: %s\n", sanitizeCell(batch.Query))
	fmt.Fprintf(&b, "- Oppositions scanned: %d\n", batch.OppositionCount)
	fmt.Fprintf(&b, "- Serials processed: %d\n", batch.TotalSerialCount)
	fmt.Fprintf(&b, "- Date: %s\n\n", time.Now().Format(time.RFC3339))

	fmt.Fprintf(&b, "## Class Coverage\n\n")
	fmt.Fprintf(&b, "- Unique US classes (%d): %s\n", len(batch.UniqueUSClasses), joinOrDash(batch.UniqueUSClasses))
	fmt.Fprintf(&b, "- Unique international classes (%d): %s\n", len(batch.UniqueInternationalClasses), joinOrDash(batch.UniqueInternationalClasses))
	fmt.Fprintf(&b, "- Total US class entries: %d\n", batch.TotalUSClasses)
	fmt.Fprintf(&b, "- Total international class entries: %d\n\n", batch.TotalInternationalClasses)

	fmt.Fprintf(&b, "## Marks\n\n")
	if len(batch.Marks) == 0 {
		fmt.Fprintf(&b, "No marks were extracted.\n\n")
	} else {
		fmt.Fprintf(&b, "| Opposition | Serial | Mark | Side | Type |\n")
		fmt.Fprintf(&b, "|---|---|---|---|---|\n")
		for _, m := range batch.Marks {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				m.ProceedingNumber, m.SerialNumber, sanitizeCell(m.MarkName), m.Side, m.MarkType)
		}
		b.WriteString("\n")
	}

	if len(batch.Failures) > 0 {
		fmt.Fprintf(&b, "## Failed Oppositions\n\n")
		for _, f := range batch.Failures {
			fmt.Fprintf(&b, "- %s: %s\n", f.OppositionNumber, sanitizeCell(f.Error))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func prettyJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

func sanitizeCell(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
	return strings.ReplaceAll(s, "|", "\\|")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
