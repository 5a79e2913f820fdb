package ttabvue

import "strings"

// Parties holds the resolved party names for one proceeding. Either name may
// be empty when the page lacks the corresponding section.
type Parties struct {
	Plaintiff string
	Defendant string
}

// ResolveParties scans the document's major-section cells for the "Plaintiff"
// and "Defendant" blocks and takes the first party-name anchor inside each.
// The walk is a single forward fold: a section-break row either selects a
// side (exact "Plaintiff"/"Defendant" label) or resets the state to unknown,
// and only the first name per side is kept.
func ResolveParties(doc *Document) Parties {
	var p Parties
	current := OwnerUnknown
	for _, table := range doc.Tables {
		for _, row := range table.Rows {
			switch row.Kind {
			case RowSectionBreak:
				switch row.SectionLabel {
				case "Plaintiff":
					current = OwnerPlaintiff
				case "Defendant":
					current = OwnerDefendant
				default:
					current = OwnerUnknown
				}
			case RowPartyName:
				switch current {
				case OwnerPlaintiff:
					if p.Plaintiff == "" {
						p.Plaintiff = row.PartyName
					}
				case OwnerDefendant:
					if p.Defendant == "" {
						p.Defendant = row.PartyName
					}
				}
			}
		}
	}
	return p
}

// MatchOwner maps an "Owned by:" value to a side by case-insensitive
// substring match against the resolved party names. Text matching neither
// name leaves the previous side in place.
func (p Parties) MatchOwner(current OwnerSide, ownerText string) OwnerSide {
	lower := strings.ToLower(ownerText)
	if p.Plaintiff != "" && strings.Contains(lower, strings.ToLower(p.Plaintiff)) {
		return OwnerPlaintiff
	}
	if p.Defendant != "" && strings.Contains(lower, strings.ToLower(p.Defendant)) {
		return OwnerDefendant
	}
	return current
}
