package ttabvue

const (
	pleadedHeading = "pleaded applications and registrations"

	// markLookahead bounds the scan for a "Mark:" row after its serial row.
	// Unbounded scanning bleeds into the next mark's block; shorter windows
	// miss marks separated by metadata rows.
	markLookahead = 4

	// UnknownMark is reported when no "Mark:" row follows a serial row
	// within the lookahead window.
	UnknownMark = "Unknown"
)

// OwnerSide identifies which party a pleaded mark belongs to.
type OwnerSide int

const (
	OwnerUnknown OwnerSide = iota
	OwnerPlaintiff
	OwnerDefendant
)

func (s OwnerSide) String() string {
	switch s {
	case OwnerPlaintiff:
		return "plaintiff"
	case OwnerDefendant:
		return "defendant"
	default:
		return "unknown"
	}
}

// MarkReference is one pleaded application or registration.
type MarkReference struct {
	SerialNumber string
	MarkName     string
	Side         OwnerSide
}

// PleadedMarks extracts the marks listed under "Pleaded applications and
// registrations", in document order, deduplicated by serial number (first
// occurrence wins). Each mark is tagged with the side whose resolved party
// name matched the most recent "Owned by:" row; ownership is sticky across
// rows because owner rows are not guaranteed to precede every mark block.
//
// A missing section yields zero marks, not an error.
func PleadedMarks(doc *Document, parties Parties) []MarkReference {
	section, ok := Locate(doc, pleadedHeading)
	if !ok {
		return nil
	}

	var marks []MarkReference
	seen := map[string]bool{}
	owner := OwnerUnknown

	rows := section.Table.Rows
	for i := section.Start + 1; i < section.End; i++ {
		row := rows[i]
		switch row.Kind {
		case RowOwner:
			owner = parties.MatchOwner(owner, row.Owner)
		case RowSerial:
			if seen[row.Serial] {
				continue
			}
			seen[row.Serial] = true
			marks = append(marks, MarkReference{
				SerialNumber: row.Serial,
				MarkName:     markNameAfter(rows, i, section.End),
				Side:         owner,
			})
		}
	}
	return marks
}

// markNameAfter scans up to markLookahead rows past the serial row for a
// "Mark:" row, staying inside the section bounds.
func markNameAfter(rows []*Row, serialIdx, end int) string {
	limit := serialIdx + 1 + markLookahead
	if limit > end {
		limit = end
	}
	for j := serialIdx + 1; j < limit; j++ {
		if rows[j].Kind == RowMark {
			if rows[j].MarkName != "" {
				return rows[j].MarkName
			}
			return UnknownMark
		}
	}
	return UnknownMark
}
