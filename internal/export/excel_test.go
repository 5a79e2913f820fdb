package export

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/joelkehle/opposition-research/internal/markclass"
	"github.com/joelkehle/opposition-research/internal/opposition"
	"github.com/joelkehle/opposition-research/internal/tsdr"
)

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func testRecord() opposition.Record {
	return opposition.Record{
		OppositionNumber: "91290001",
		PlaintiffName:    "Acme Corporation",
		DefendantName:    "Widget LLC",
		FilingDate:       "04/15/2021",
		TerminationDate:  "06/30/2023",
		Outcome:          "sustained",
		Marks: []opposition.MarkResult{
			{
				SerialNumber:            "90000001",
				MarkName:                "ACME",
				Side:                    "plaintiff",
				FilingDate:              "03/18/2019",
				Classes:                 tsdr.ClassSet{Description: "Shirts"},
				USClassCodes:            "100, 101",
				InternationalClassCodes: "025",
				MarkType:                markclass.StandardText,
			},
		},
		UniqueUSClasses:            []string{"100", "101"},
		UniqueInternationalClasses: []string{"025"},
		TotalUSClasses:             2,
		TotalInternationalClasses:  1,
	}
}

func TestRecordWorkbook(t *testing.T) {
	data, err := RecordWorkbook(testRecord())
	if err != nil {
		t.Fatalf("RecordWorkbook: %v", err)
	}
	f := openWorkbook(t, data)

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Trademark Classes" || sheets[1] != "Summary" {
		t.Fatalf("sheets = %v", sheets)
	}

	rows, err := f.GetRows("Trademark Classes")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0][0] != "Opposition Number" || rows[0][5] != "Mark Type Label" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][1] != "90000001" || rows[1][5] != "Standard Text" || rows[1][6] != "100, 101" {
		t.Errorf("data row = %v", rows[1])
	}

	summary, err := f.GetRows("Summary")
	if err != nil {
		t.Fatalf("GetRows summary: %v", err)
	}
	if summary[1][0] != "Opposition Number" || summary[1][1] != "91290001" {
		t.Errorf("summary row 1 = %v", summary[1])
	}
}

func TestAnalysisWorkbookPadsMarkColumns(t *testing.T) {
	batch := opposition.BatchAnalysis{
		CompanyName: "Acme",
		GVKey:       "12345",
		Rows: []opposition.Analysis{
			{
				OppositionNumber: "91290001",
				CompanyName:      "Acme",
				GVKey:            "12345",
				IsPlaintiff:      true,
				Outcome:          "sustained",
				MarksCount:       2,
				MarkDetails: []opposition.MarkDetail{
					{SerialNumber: "90000001", MarkName: "ACME"},
					{SerialNumber: "90000002", MarkName: "ACME DELUXE"},
				},
			},
			{
				OppositionNumber: "91290002",
				CompanyName:      "Acme",
				GVKey:            "12345",
				MarksCount:       1,
				MarkDetails: []opposition.MarkDetail{
					{SerialNumber: "90000003", MarkName: "ACME MINI"},
				},
			},
		},
	}
	data, err := AnalysisWorkbook(batch)
	if err != nil {
		t.Fatalf("AnalysisWorkbook: %v", err)
	}
	f := openWorkbook(t, data)

	rows, err := f.GetRows("Opposition Analysis")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	header := rows[0]
	// 13 fixed columns plus two serial/trademark pairs.
	if len(header) != 17 {
		t.Fatalf("header columns = %d, want 17: %v", len(header), header)
	}
	if header[13] != "Serial No 1" || header[15] != "Serial No 2" {
		t.Errorf("header = %v", header)
	}
	if rows[1][3] != "1" {
		t.Errorf("plaintiff flag = %q, want 1", rows[1][3])
	}
	if rows[1][9] != "1" {
		t.Errorf("result code = %q, want 1 (sustained)", rows[1][9])
	}
	if rows[1][15] != "90000002" {
		t.Errorf("serial 2 = %q", rows[1][15])
	}
	// The shorter opposition leaves its second pair blank.
	if len(rows[2]) > 15 && rows[2][15] != "" {
		t.Errorf("row 2 serial 2 = %q, want empty", rows[2][15])
	}
}
