package opposition

import (
	"strings"
	"testing"

	"github.com/joelkehle/opposition-research/internal/markclass"
)

func TestBuildReport(t *testing.T) {
	rec := Record{
		OppositionNumber: "91290001",
		PlaintiffName:    "Acme Corporation",
		DefendantName:    "Widget LLC",
		FilingDate:       "04/15/2021",
		TerminationDate:  "06/30/2023",
		Outcome:          "sustained",
		Marks: []MarkResult{
			{SerialNumber: "90000001", MarkName: "ACME | PIPE", Side: "plaintiff", MarkType: markclass.StandardText},
		},
		Failed: []FailedSerial{
			{SerialNumber: "90000002", MarkName: "LOST", Tag: "timeout"},
		},
		UniqueUSClasses: []string{"100", "101"},
	}
	report := BuildReport(rec)

	for _, want := range []string{
		"# Trademark Opposition Report",
		"- Opposition: 91290001",
		"- Decision: **sustained**",
		"| 90000001 | ACME \\| PIPE | plaintiff | Standard Text |",
		"## Retrieval Failures",
		"- 90000002 (LOST): `timeout`",
		"Unique US classes (2): 100, 101",
		"```json",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestBuildReportEmptyMarks(t *testing.T) {
	report := BuildReport(Record{OppositionNumber: "91290001", Outcome: "pending"})
	if !strings.Contains(report, "No pleaded applications or registrations were found.") {
		t.Error("missing empty-marks notice")
	}
	if strings.Contains(report, "## Retrieval Failures") {
		t.Error("failure section should be omitted when empty")
	}
	if !strings.Contains(report, "- Filed: -") {
		t.Error("missing date placeholder")
	}
}

func TestBuildBatchReport(t *testing.T) {
	batch := BatchResult{
		Query:            "Acme Corporation",
		OppositionCount:  2,
		TotalSerialCount: 1,
		Marks: []MarkResult{
			{ProceedingNumber: "91290001", SerialNumber: "90000001", MarkName: "ACME", Side: "plaintiff", MarkType: markclass.Slogan},
		},
		Failures: []BatchFailure{
			{OppositionNumber: "91290404", Error: "fetch failed"},
		},
	}
	report := BuildBatchReport(batch)
	for _, want := range []string{
		"# Trademark Opposition Batch Report",
		"- Oppositions scanned: 2",
		"| 91290001 | 90000001 | ACME | plaintiff | Slogan |",
		"## Failed Oppositions",
		"- 91290404: fetch failed",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q", want)
		}
	}
}
