package ttabvue

import (
	"regexp"
	"time"
)

var (
	pnoPattern = regexp.MustCompile(`pno=(\d+)`)
	ptyPattern = regexp.MustCompile(`pty=([A-Z]+)`)
)

const dateLayout = "01/02/2006"

// Proceeding is one entry in a TTABVue search result listing.
type Proceeding struct {
	Number     string
	Type       string
	FilingDate string
}

// DateRange bounds proceedings by filing date; zero values leave that end
// open. Dates are MM/DD/YYYY strings matching the page format.
type DateRange struct {
	Start string
	End   string
}

func (r DateRange) empty() bool {
	return r.Start == "" && r.End == ""
}

// contains reports whether the given MM/DD/YYYY date falls inside the range.
// Unparseable dates are excluded whenever any bound is set.
func (r DateRange) contains(date string) bool {
	if r.empty() {
		return true
	}
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return false
	}
	if r.Start != "" {
		if s, err := time.Parse(dateLayout, r.Start); err == nil && d.Before(s) {
			return false
		}
	}
	if r.End != "" {
		if e, err := time.Parse(dateLayout, r.End); err == nil && d.After(e) {
			return false
		}
	}
	return true
}

// PartySearchResults extracts opposition numbers from a party-name search
// page. Each result row links the proceeding via a pno= anchor; the filing
// date sits in the rightmost dated cell of the row. Results are deduplicated
// by number, first occurrence kept.
func PartySearchResults(doc *Document, dates DateRange) []Proceeding {
	var out []Proceeding
	seen := map[string]bool{}
	for _, table := range doc.Tables {
		for _, row := range table.Rows {
			num := firstProceedingLink(row)
			if num == "" || seen[num] {
				continue
			}
			date := rightmostDate(row)
			if date == "" {
				if !dates.empty() {
					continue
				}
			} else if !dates.contains(date) {
				continue
			}
			seen[num] = true
			out = append(out, Proceeding{Number: num, Type: "OPP", FilingDate: date})
		}
	}
	return out
}

// ProceedingsFromListing extracts opposition links from an arbitrary TTABVue
// listing page. Only OPP proceedings are kept; cancellations and other
// proceeding types are skipped. The filing date is read from the cell that
// contains the link.
func ProceedingsFromListing(doc *Document, dates DateRange) []Proceeding {
	var out []Proceeding
	seen := map[string]bool{}
	for _, table := range doc.Tables {
		for _, row := range table.Rows {
			for _, cell := range row.Cells {
				for _, a := range cell.Anchors {
					m := pnoPattern.FindStringSubmatch(a.Href)
					if m == nil {
						continue
					}
					num := m[1]
					ptype := ""
					if tm := ptyPattern.FindStringSubmatch(a.Href); tm != nil {
						ptype = tm[1]
					}
					if ptype != "OPP" || seen[num] {
						continue
					}
					date := datePattern.FindString(cell.Text)
					if date == "" {
						if !dates.empty() {
							continue
						}
					} else if !dates.contains(date) {
						continue
					}
					seen[num] = true
					out = append(out, Proceeding{Number: num, Type: ptype, FilingDate: date})
				}
			}
		}
	}
	return out
}

func firstProceedingLink(row *Row) string {
	for _, cell := range row.Cells {
		for _, a := range cell.Anchors {
			if m := pnoPattern.FindStringSubmatch(a.Href); m != nil {
				return m[1]
			}
		}
	}
	return ""
}

func rightmostDate(row *Row) string {
	for i := len(row.Cells) - 1; i >= 0; i-- {
		if d := datePattern.FindString(row.Cells[i].Text); d != "" {
			return d
		}
	}
	return ""
}
