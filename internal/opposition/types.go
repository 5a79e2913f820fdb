// Package opposition orchestrates one full opposition scrape: document
// extraction, per-serial class retrieval, mark classification, and the
// aggregate record handed to exporters.
package opposition

import (
	"github.com/joelkehle/opposition-research/internal/markclass"
	"github.com/joelkehle/opposition-research/internal/tsdr"
)

// MarkResult is one pleaded mark with everything derived for it.
type MarkResult struct {
	SerialNumber            string            `json:"serial_number"`
	MarkName                string            `json:"mark_name"`
	Side                    string            `json:"side"`
	FilingDate              string            `json:"filing_date,omitempty"`
	Classes                 tsdr.ClassSet     `json:"classes"`
	USClassCodes            string            `json:"us_class_codes"`
	InternationalClassCodes string            `json:"international_class_codes"`
	MarkType                markclass.MarkType `json:"mark_type"`
	Error                   string            `json:"error,omitempty"`

	// Set on batch scans so every row carries its proceeding.
	ProceedingNumber     string `json:"proceeding_number,omitempty"`
	ProceedingFilingDate string `json:"proceeding_filing_date,omitempty"`
}

// FailedSerial records a class retrieval that exhausted its retry budget.
// Failures ride alongside results; they never abort the batch.
type FailedSerial struct {
	SerialNumber string `json:"serial_number"`
	MarkName     string `json:"mark_name"`
	Tag          string `json:"tag"`
}

// Record is the aggregate result of scraping one opposition. Built
// incrementally during the scrape, immutable once returned.
type Record struct {
	OppositionNumber string `json:"opposition_number"`
	PlaintiffName    string `json:"plaintiff_name,omitempty"`
	DefendantName    string `json:"defendant_name,omitempty"`

	FilingDate      string `json:"filing_date,omitempty"`
	TerminationDate string `json:"termination_date,omitempty"`
	Outcome         string `json:"outcome"`

	Marks  []MarkResult   `json:"marks"`
	Failed []FailedSerial `json:"failed_serials,omitempty"`

	UniqueUSClasses            []string `json:"unique_us_classes"`
	UniqueInternationalClasses []string `json:"unique_international_classes"`
	TotalUSClasses             int      `json:"total_us_classes"`
	TotalInternationalClasses  int      `json:"total_international_classes"`
}

// BatchResult aggregates a multi-opposition scan (party search or pasted
// listing URL).
type BatchResult struct {
	Query            string         `json:"query"`
	OppositionCount  int            `json:"opposition_count"`
	TotalSerialCount int            `json:"total_serial_count"`
	Marks            []MarkResult   `json:"marks"`
	Failures         []BatchFailure `json:"failures,omitempty"`

	UniqueUSClasses            []string `json:"unique_us_classes"`
	UniqueInternationalClasses []string `json:"unique_international_classes"`
	TotalUSClasses             int      `json:"total_us_classes"`
	TotalInternationalClasses  int      `json:"total_international_classes"`
}

// BatchFailure records one opposition that could not be scraped at all.
type BatchFailure struct {
	OppositionNumber string `json:"opposition_number"`
	Error            string `json:"error"`
}

// MarkDetail is the compact per-mark entry used by the one-row-per-
// opposition analysis.
type MarkDetail struct {
	SerialNumber string             `json:"serial_number"`
	MarkName     string             `json:"mark_name"`
	MarkType     markclass.MarkType `json:"mark_type"`
}

// Analysis is the one-row-per-opposition aggregate used by company-level
// batch studies: plaintiff-side mark counts, unique class counts, timeline,
// and a tally per mark type.
type Analysis struct {
	OppositionNumber string `json:"opposition_number"`
	CompanyName      string `json:"company_name"`
	GVKey            string `json:"gvkey,omitempty"`
	AltName          string `json:"alt_name,omitempty"`
	IsPlaintiff      bool   `json:"is_plaintiff"`

	MarksCount int `json:"marks"`
	USGS       int `json:"us_gs"`
	IntGS      int `json:"int_gs"`

	StartDate string `json:"opp_start_date,omitempty"`
	EndDate   string `json:"opp_end_date,omitempty"`
	Outcome   string `json:"outcome"`

	TypeStandard int `json:"tm_type_standard"`
	TypeStylized int `json:"tm_type_stylized"`
	TypeSlogan   int `json:"tm_type_slogan"`

	MarkDetails []MarkDetail `json:"mark_details"`
}

// BatchAnalysis is the company-level roll-up of Analysis rows.
type BatchAnalysis struct {
	CompanyName     string         `json:"company_name"`
	GVKey           string         `json:"gvkey,omitempty"`
	OppositionCount int            `json:"opposition_count"`
	Rows            []Analysis     `json:"rows"`
	Failures        []BatchFailure `json:"failures,omitempty"`
}

// ProgressFn reports fractional progress with a status line. It is a side
// channel only; implementations must not influence control flow.
type ProgressFn func(fraction float64, status string)

func emit(progress ProgressFn, fraction float64, status string) {
	if progress != nil {
		progress(fraction, status)
	}
}
