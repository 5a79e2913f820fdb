// Package tsdr calls the USPTO case-status API for serial-number class data
// and raw mark images.
package tsdr

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ClassEntry is one goods/services class code with its description.
type ClassEntry struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// ClassSet holds the classes recorded for one serial number. Codes are
// deduplicated by code value with first-seen order preserved.
type ClassSet struct {
	USClasses            []ClassEntry `json:"us_classes"`
	InternationalClasses []ClassEntry `json:"international_classes"`
	Description          string       `json:"description"`
	FilingDate           string       `json:"filing_date"`
}

func (s ClassSet) USCodes() []string {
	return codes(s.USClasses)
}

func (s ClassSet) InternationalCodes() []string {
	return codes(s.InternationalClasses)
}

func codes(entries []ClassEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Code)
	}
	return out
}

// RequestError is a final class-retrieval failure. Tag is machine-readable
// ("timeout", "http_404", "connection") so batch callers can record the
// failure and keep going.
type RequestError struct {
	Serial    string
	Tag       string
	Retryable bool
	Err       error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("serial %s: %s: %v", e.Serial, e.Tag, e.Err)
	}
	return fmt.Sprintf("serial %s: %s", e.Serial, e.Tag)
}

func (e *RequestError) Unwrap() error { return e.Err }

// statusResponse mirrors the subset of the case-status JSON the extraction
// needs. The upstream shape carries no schema guarantee; missing pieces
// decode to zero values and are handled in parseClassSet.
type statusResponse struct {
	Trademarks []struct {
		GSList []struct {
			USClasses            []ClassEntry `json:"usClasses"`
			InternationalClasses []ClassEntry `json:"internationalClasses"`
			Description          string       `json:"description"`
		} `json:"gsList"`
		Status struct {
			FilingDate string `json:"filingDate"`
		} `json:"status"`
	} `json:"trademarks"`
}

// parseClassSet converts a case-status payload to a ClassSet. Malformed or
// partial payloads yield an empty ClassSet, never an error: a shape miss on
// one serial must not abort a batch.
func parseClassSet(body []byte) ClassSet {
	var data statusResponse
	if err := json.Unmarshal(body, &data); err != nil || len(data.Trademarks) == 0 {
		return ClassSet{}
	}
	tm := data.Trademarks[0]

	set := ClassSet{FilingDate: tm.Status.FilingDate}
	seenUS := map[string]bool{}
	seenIntl := map[string]bool{}
	var descriptions []string
	for _, gs := range tm.GSList {
		for _, uc := range gs.USClasses {
			if !seenUS[uc.Code] {
				seenUS[uc.Code] = true
				set.USClasses = append(set.USClasses, uc)
			}
		}
		for _, ic := range gs.InternationalClasses {
			if !seenIntl[ic.Code] {
				seenIntl[ic.Code] = true
				set.InternationalClasses = append(set.InternationalClasses, ic)
			}
		}
		if gs.Description != "" {
			descriptions = append(descriptions, gs.Description)
		}
	}
	set.Description = strings.Join(descriptions, " | ")
	return set
}
