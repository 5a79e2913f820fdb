package ttabvue

import "strings"

// Section is a row range within one table: Start is the heading row, End the
// exclusive boundary. Start < End always holds; End is the index of the next
// major-section row, the prosecution-history terminator row, or the table's
// row count.
type Section struct {
	Table *Table
	Start int
	End   int
}

// Body returns the section's rows excluding the heading row itself.
func (s Section) Body() []*Row {
	return s.Table.Rows[s.Start+1 : s.End]
}

// Locate finds the section introduced by the first sub-heading matching the
// given text (case-insensitive substring). Only the first match in document
// order is honored; proceedings with repeated headings (consolidated cases)
// silently use the first table.
func Locate(doc *Document, heading string) (Section, bool) {
	want := strings.ToLower(heading)
	return LocateFunc(doc, func(h string) bool {
		return strings.Contains(strings.ToLower(h), want)
	})
}

// LocateFunc is Locate with a caller-supplied heading predicate.
func LocateFunc(doc *Document, pred func(heading string) bool) (Section, bool) {
	for _, table := range doc.Tables {
		for i, row := range table.Rows {
			if row.Kind != RowHeading || !pred(row.Heading) {
				continue
			}
			end := len(table.Rows)
			for j := i + 1; j < len(table.Rows); j++ {
				next := table.Rows[j]
				if next.Kind == RowSectionBreak {
					end = j
					break
				}
				if strings.Contains(next.lowerText, prosecutionHistoryMarker) {
					end = j
					break
				}
			}
			return Section{Table: table, Start: i, End: end}, true
		}
	}
	return Section{}, false
}
