package ttabvue

import "strings"

// Outcome is the proceeding's result as recorded in its prosecution history.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeSustained
	OutcomeDismissed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSustained:
		return "sustained"
	case OutcomeDismissed:
		return "dismissed"
	default:
		return "pending"
	}
}

// Timeline carries the proceeding's filing date, last action date, and
// outcome. Dates are MM/DD/YYYY strings, empty when absent.
type Timeline struct {
	FilingDate      string
	TerminationDate string
	Outcome         Outcome
}

// ExtractTimeline derives the timeline from a proceeding page.
//
// The filing date comes from the first "Filing Date:" label anywhere in the
// document, read from the cell following the label. The termination date is
// the last dated row of the first prosecution-history table: history rows are
// chronological, so the last dated entry is the most recent action. It is
// final if the case ended; otherwise the outcome stays pending and the date
// records the last seen action.
//
// Outcome keywords are scanned across the same table in row order with
// last-match-wins and no tie-break when both keywords appear in different
// rows. Proceedings with intermediate procedural mentions of both words keep
// whichever row came last; this matches the long-standing behavior and has
// not been verified as correct.
func ExtractTimeline(doc *Document) Timeline {
	tl := Timeline{FilingDate: filingDate(doc)}

	table, ok := prosecutionHistoryTable(doc)
	if !ok {
		return tl
	}

	for _, row := range table.Rows {
		if d := datePattern.FindString(row.Text); d != "" {
			tl.TerminationDate = d
		}
		upper := strings.ToUpper(row.Text)
		if strings.Contains(upper, "SUSTAINED") {
			tl.Outcome = OutcomeSustained
		} else if strings.Contains(upper, "DISMISSED") {
			tl.Outcome = OutcomeDismissed
		}
	}
	return tl
}

func filingDate(doc *Document) string {
	for _, table := range doc.Tables {
		for _, row := range table.Rows {
			for i, cell := range row.Cells {
				if !strings.Contains(strings.ToLower(cell.Text), "filing date") {
					continue
				}
				if i+1 < len(row.Cells) {
					if d := datePattern.FindString(row.Cells[i+1].Text); d != "" {
						return d
					}
				}
			}
		}
	}
	return ""
}

func prosecutionHistoryTable(doc *Document) (*Table, bool) {
	for _, table := range doc.Tables {
		for _, row := range table.Rows {
			if strings.Contains(row.lowerText, prosecutionHistoryMarker) {
				return table, true
			}
		}
	}
	return nil, false
}
