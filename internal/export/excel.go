// Package export renders scrape results as Excel workbooks, JSON, and PDF
// reports.
package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/joelkehle/opposition-research/internal/opposition"
)

const (
	classesSheet  = "Trademark Classes"
	summarySheet  = "Summary"
	analysisSheet = "Opposition Analysis"
)

// RecordWorkbook builds the two-sheet workbook for a single opposition: a
// per-serial class listing and a summary sheet of the aggregate counts.
func RecordWorkbook(rec opposition.Record) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", classesSheet)

	headers := []any{
		"Opposition Number", "Serial Number", "Mark Name", "Filing Date",
		"Mark Type", "Mark Type Label", "US Classes", "International Classes", "Description",
	}
	if err := writeRow(f, classesSheet, 1, headers); err != nil {
		return nil, err
	}
	for i, m := range rec.Marks {
		row := []any{
			rec.OppositionNumber, m.SerialNumber, m.MarkName, m.FilingDate,
			int(m.MarkType), m.MarkType.String(), m.USClassCodes, m.InternationalClassCodes,
			m.Classes.Description,
		}
		if err := writeRow(f, classesSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	summary := [][2]any{
		{"Opposition Number", rec.OppositionNumber},
		{"Total Serial Numbers", len(rec.Marks)},
		{"Unique US Classes", join(rec.UniqueUSClasses)},
		{"Total US Classes Count", rec.TotalUSClasses},
		{"Unique International Classes", join(rec.UniqueInternationalClasses)},
		{"Total International Classes Count", rec.TotalInternationalClasses},
	}
	if err := writeSummary(f, summary); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// BatchWorkbook builds the two-sheet workbook for a multi-opposition scan.
// Each mark row carries the proceeding it came from.
func BatchWorkbook(batch opposition.BatchResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", classesSheet)

	headers := []any{
		"Proceeding Number", "Proceeding Filing Date", "Serial Number", "Mark Name",
		"Filing Date", "Mark Type", "Mark Type Label", "US Classes", "International Classes", "Description",
	}
	if err := writeRow(f, classesSheet, 1, headers); err != nil {
		return nil, err
	}
	for i, m := range batch.Marks {
		row := []any{
			m.ProceedingNumber, m.ProceedingFilingDate, m.SerialNumber, m.MarkName,
			m.FilingDate, int(m.MarkType), m.MarkType.String(), m.USClassCodes,
			m.InternationalClassCodes, m.Classes.Description,
		}
		if err := writeRow(f, classesSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	summary := [][2]any{
		{"Party Name", batch.Query},
		{"Total Oppositions", batch.OppositionCount},
		{"Total Serial Numbers", batch.TotalSerialCount},
		{"Unique US Classes", join(batch.UniqueUSClasses)},
		{"Total US Classes Count", batch.TotalUSClasses},
		{"Unique International Classes", join(batch.UniqueInternationalClasses)},
		{"Total International Classes Count", batch.TotalInternationalClasses},
	}
	if err := writeSummary(f, summary); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// AnalysisWorkbook builds the one-row-per-opposition workbook used by
// company-level studies. Serial and trademark columns are padded to the
// widest opposition so every row has the same shape.
func AnalysisWorkbook(batch opposition.BatchAnalysis) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", analysisSheet)

	maxMarks := 0
	for _, row := range batch.Rows {
		if len(row.MarkDetails) > maxMarks {
			maxMarks = len(row.MarkDetails)
		}
	}

	headers := []any{
		"GVKEY", "C", "Alt Name", "Plaintiff", "Marks", "US GS", "INT GS",
		"Opp Start Date", "Opp End Date", "Result",
		"TM Type Standard", "TM Type Stylized", "TM Type Slogan",
	}
	for i := 1; i <= maxMarks; i++ {
		headers = append(headers, fmt.Sprintf("Serial No %d", i), fmt.Sprintf("Trademark %d", i))
	}
	if err := writeRow(f, analysisSheet, 1, headers); err != nil {
		return nil, err
	}

	for i, a := range batch.Rows {
		row := []any{
			a.GVKey, a.CompanyName, a.AltName, boolToInt(a.IsPlaintiff),
			a.MarksCount, a.USGS, a.IntGS,
			a.StartDate, a.EndDate, outcomeCode(a.Outcome),
			a.TypeStandard, a.TypeStylized, a.TypeSlogan,
		}
		for j := 0; j < maxMarks; j++ {
			if j < len(a.MarkDetails) {
				row = append(row, a.MarkDetails[j].SerialNumber, a.MarkDetails[j].MarkName)
			} else {
				row = append(row, "", "")
			}
		}
		if err := writeRow(f, analysisSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("set %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func writeSummary(f *excelize.File, pairs [][2]any) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	if err := writeRow(f, summarySheet, 1, []any{"Metric", "Value"}); err != nil {
		return err
	}
	for i, p := range pairs {
		if err := writeRow(f, summarySheet, i+2, []any{p[0], p[1]}); err != nil {
			return err
		}
	}
	return nil
}

// outcomeCode is the workbook encoding of the proceeding result: sustained
// is 1, dismissed is 0, and a still-pending case leaves the cell blank.
func outcomeCode(outcome string) any {
	switch outcome {
	case "sustained":
		return 1
	case "dismissed":
		return 0
	default:
		return ""
	}
}

func join(items []string) string {
	return strings.Join(items, ", ")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
