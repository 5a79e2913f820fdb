// Package ttabvue parses TTABVue proceeding pages into a table/row/cell tree
// and extracts opposition facts from it. The page layout is undocumented and
// drifts between TTABVue releases; every heuristic here mirrors the observed
// layout (th.t3 sub-headings, td.t2b major-section cells) rather than a schema.
package ttabvue

import (
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	serialPattern = regexp.MustCompile(`\d{8}`)
	datePattern   = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)
)

const (
	subHeadingClass   = "t3"
	majorSectionClass = "t2b"

	prosecutionHistoryMarker = "prosecution history"
)

// RowKind tags each row once at parse time; all extraction logic switches on
// the tag instead of re-inspecting raw cell text.
type RowKind int

const (
	RowOther RowKind = iota
	RowSectionBreak
	RowHeading
	RowPartyName
	RowSerial
	RowMark
	RowOwner
)

type Anchor struct {
	Href string
	Text string
}

type Cell struct {
	Tag     string
	Class   string
	Text    string
	Anchors []Anchor
}

func (c Cell) hasClass(name string) bool {
	for _, f := range strings.Fields(c.Class) {
		if f == name {
			return true
		}
	}
	return false
}

// Row is one <tr> with its classification payload. Exactly one payload field
// is meaningful for a given Kind.
type Row struct {
	Cells     []Cell
	Text      string
	lowerText string

	Kind         RowKind
	SectionLabel string // RowSectionBreak
	Heading      string // RowHeading
	PartyName    string // RowPartyName
	Serial       string // RowSerial
	MarkName     string // RowMark
	Owner        string // RowOwner
}

type Table struct {
	Rows []*Row
}

// Document is the parsed proceeding page. Immutable once parsed; all
// extraction passes consume it read-only.
type Document struct {
	Tables []*Table
}

// Parse builds a Document from raw proceeding HTML.
func Parse(r io.Reader) (*Document, error) {
	gq, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	doc := &Document{}
	gq.Find("table").Each(func(_ int, ts *goquery.Selection) {
		table := &Table{}
		ts.Find("tr").Each(func(_ int, rs *goquery.Selection) {
			table.Rows = append(table.Rows, parseRow(rs))
		})
		doc.Tables = append(doc.Tables, table)
	})
	return doc, nil
}

func parseRow(rs *goquery.Selection) *Row {
	row := &Row{Text: strings.TrimSpace(rs.Text())}
	rs.Find("th,td").Each(func(_ int, cs *goquery.Selection) {
		cell := Cell{
			Tag:  goquery.NodeName(cs),
			Text: strings.TrimSpace(cs.Text()),
		}
		cell.Class, _ = cs.Attr("class")
		cs.Find("a[href]").Each(func(_ int, as *goquery.Selection) {
			href, _ := as.Attr("href")
			cell.Anchors = append(cell.Anchors, Anchor{
				Href: href,
				Text: strings.TrimSpace(as.Text()),
			})
		})
		row.Cells = append(row.Cells, cell)
	})
	row.lowerText = strings.ToLower(row.Text)
	classifyRow(row)
	return row
}

// classifyRow assigns the row's tag. Specific field labels are checked before
// the generic sub-heading rule so that a labeled th.t3 cell is not mistaken
// for a section heading.
func classifyRow(row *Row) {
	if label, ok := majorSectionLabel(row); ok {
		row.Kind = RowSectionBreak
		row.SectionLabel = label
		return
	}
	if sn, ok := serialFromRow(row); ok {
		row.Kind = RowSerial
		row.Serial = sn
		return
	}
	if row.headingCellContains("Mark:") {
		row.Kind = RowMark
		row.MarkName = row.firstDataCellText()
		return
	}
	if row.headingCellContains("Owned by:") {
		row.Kind = RowOwner
		row.Owner = row.firstDataCellText()
		return
	}
	if name, ok := partyNameFromRow(row); ok {
		row.Kind = RowPartyName
		row.PartyName = name
		return
	}
	if h, ok := subHeadingText(row); ok {
		row.Kind = RowHeading
		row.Heading = h
		return
	}
	row.Kind = RowOther
}

func majorSectionLabel(row *Row) (string, bool) {
	for _, c := range row.Cells {
		if c.Tag == "td" && c.hasClass(majorSectionClass) && c.Text != "" {
			return c.Text, true
		}
	}
	return "", false
}

func subHeadingText(row *Row) (string, bool) {
	for _, c := range row.Cells {
		if c.Tag == "th" && c.hasClass(subHeadingClass) && c.Text != "" {
			return c.Text, true
		}
	}
	return "", false
}

func (r *Row) headingCellContains(label string) bool {
	for _, c := range r.Cells {
		if c.Tag == "th" && strings.Contains(c.Text, label) {
			return true
		}
	}
	return false
}

func (r *Row) firstDataCellText() string {
	for _, c := range r.Cells {
		if c.Tag == "td" {
			return c.Text
		}
	}
	return ""
}

// serialFromRow matches the full serial-row shape: a "Serial #:" label cell
// plus an anchor into the case-status service carrying a case-number query
// parameter. Rows missing either part are not serial rows.
func serialFromRow(row *Row) (string, bool) {
	if !row.headingCellContains("Serial #:") {
		return "", false
	}
	for _, c := range row.Cells {
		for _, a := range c.Anchors {
			if !strings.Contains(a.Href, "tsdr.uspto.gov") || !strings.Contains(a.Href, "caseNumber=") {
				continue
			}
			if sn := serialPattern.FindString(a.Text); sn != "" {
				return sn, true
			}
		}
	}
	return "", false
}

func partyNameFromRow(row *Row) (string, bool) {
	labeled := false
	for _, c := range row.Cells {
		if c.Tag == "th" && c.hasClass(subHeadingClass) && strings.Contains(c.Text, "Name:") {
			labeled = true
			break
		}
	}
	if !labeled {
		return "", false
	}
	for _, c := range row.Cells {
		for _, a := range c.Anchors {
			if strings.Contains(a.Href, "pnam=") && a.Text != "" {
				return a.Text, true
			}
		}
	}
	return "", false
}
