package opposition

import (
	"context"
	"fmt"
	"strings"

	"github.com/joelkehle/opposition-research/internal/markclass"
	"github.com/joelkehle/opposition-research/internal/ttabvue"
)

// ScrapePartyOppositions scrapes every opposition found by a party-name
// search, one after another, and merges the per-opposition results. A
// failed opposition is recorded in Failures and the scan continues.
func (s *Scraper) ScrapePartyOppositions(ctx context.Context, partyName string, dates ttabvue.DateRange, progress ProgressFn) (BatchResult, error) {
	emit(progress, 0, fmt.Sprintf("Searching oppositions for %s...", partyName))
	doc, err := s.docs.FetchPartySearch(ctx, partyName)
	if err != nil {
		return BatchResult{}, fmt.Errorf("party search %q: %w", partyName, err)
	}
	return s.scrapeAll(ctx, partyName, ttabvue.PartySearchResults(doc, dates), progress)
}

// ScrapeListing scrapes every opposition linked from a pasted TTABVue
// listing URL, filtered to OPP proceedings within the date range.
func (s *Scraper) ScrapeListing(ctx context.Context, rawURL string, dates ttabvue.DateRange, progress ProgressFn) (BatchResult, error) {
	emit(progress, 0, "Extracting oppositions from URL...")
	doc, err := s.docs.FetchListing(ctx, rawURL)
	if err != nil {
		return BatchResult{}, fmt.Errorf("fetch listing: %w", err)
	}
	return s.scrapeAll(ctx, rawURL, ttabvue.ProceedingsFromListing(doc, dates), progress)
}

func (s *Scraper) scrapeAll(ctx context.Context, query string, procs []ttabvue.Proceeding, progress ProgressFn) (BatchResult, error) {
	batch := BatchResult{Query: query, OppositionCount: len(procs)}
	uniqueUS := map[string]bool{}
	uniqueIntl := map[string]bool{}

	for i, proc := range procs {
		emit(progress, float64(i+1)/float64(len(procs)),
			fmt.Sprintf("Processing opposition %d/%d: %s", i+1, len(procs), proc.Number))

		rec, err := s.ScrapeOpposition(ctx, proc.Number, ProceedingTypeOpposition, nil)
		if err != nil {
			batch.Failures = append(batch.Failures, BatchFailure{
				OppositionNumber: proc.Number,
				Error:            err.Error(),
			})
			s.sleep(s.delay)
			continue
		}

		for _, mr := range rec.Marks {
			mr.ProceedingNumber = proc.Number
			mr.ProceedingFilingDate = proc.FilingDate
			batch.Marks = append(batch.Marks, mr)
		}
		for _, code := range rec.UniqueUSClasses {
			uniqueUS[code] = true
		}
		for _, code := range rec.UniqueInternationalClasses {
			uniqueIntl[code] = true
		}
		batch.TotalUSClasses += rec.TotalUSClasses
		batch.TotalInternationalClasses += rec.TotalInternationalClasses

		s.sleep(s.delay)
	}

	batch.TotalSerialCount = len(batch.Marks)
	batch.UniqueUSClasses = sortedKeys(uniqueUS)
	batch.UniqueInternationalClasses = sortedKeys(uniqueIntl)
	return batch, nil
}

// AnalyzeOpposition builds the one-row-per-opposition aggregate for a
// company study: which side the company sat on, counts over the
// plaintiff's pleaded marks only, unique class counts, timeline, and
// per-type tallies.
func (s *Scraper) AnalyzeOpposition(ctx context.Context, number, companyName string, progress ProgressFn) (Analysis, error) {
	emit(progress, 0, fmt.Sprintf("Analyzing opposition %s...", number))
	doc, err := s.docs.FetchProceeding(ctx, number, ProceedingTypeOpposition)
	if err != nil {
		return Analysis{}, fmt.Errorf("opposition %s: %w", number, err)
	}

	parties := ttabvue.ResolveParties(doc)
	refs := ttabvue.PleadedMarks(doc, parties)
	timeline := ttabvue.ExtractTimeline(doc)

	a := Analysis{
		OppositionNumber: number,
		CompanyName:      companyName,
		StartDate:        timeline.FilingDate,
		EndDate:          timeline.TerminationDate,
		Outcome:          timeline.Outcome.String(),
	}

	company := strings.ToLower(companyName)
	if parties.Plaintiff != "" && strings.Contains(strings.ToLower(parties.Plaintiff), company) {
		a.IsPlaintiff = true
		a.AltName = parties.Plaintiff
	} else if parties.Defendant != "" && strings.Contains(strings.ToLower(parties.Defendant), company) {
		a.AltName = parties.Defendant
	}

	var plaintiffRefs []ttabvue.MarkReference
	for _, ref := range refs {
		if ref.Side == ttabvue.OwnerPlaintiff {
			plaintiffRefs = append(plaintiffRefs, ref)
		}
	}
	a.MarksCount = len(plaintiffRefs)

	uniqueUS := map[string]bool{}
	uniqueIntl := map[string]bool{}
	for i, ref := range plaintiffRefs {
		emit(progress, 0.3+0.6*float64(i+1)/float64(len(plaintiffRefs)),
			fmt.Sprintf("Processing mark %d/%d", i+1, len(plaintiffRefs)))

		mr := s.processMark(ctx, ref)
		for _, code := range mr.Classes.USCodes() {
			uniqueUS[code] = true
		}
		for _, code := range mr.Classes.InternationalCodes() {
			uniqueIntl[code] = true
		}
		switch mr.MarkType {
		case markclass.StandardText:
			a.TypeStandard++
		case markclass.StylizedOrDesign:
			a.TypeStylized++
		case markclass.Slogan:
			a.TypeSlogan++
		}
		a.MarkDetails = append(a.MarkDetails, MarkDetail{
			SerialNumber: mr.SerialNumber,
			MarkName:     mr.MarkName,
			MarkType:     mr.MarkType,
		})

		s.sleep(s.delay)
	}
	a.USGS = len(uniqueUS)
	a.IntGS = len(uniqueIntl)

	emit(progress, 1, "Complete")
	return a, nil
}

// BatchAnalyze runs AnalyzeOpposition over every opposition linked from a
// listing URL.
func (s *Scraper) BatchAnalyze(ctx context.Context, rawURL, companyName, gvkey string, dates ttabvue.DateRange, progress ProgressFn) (BatchAnalysis, error) {
	emit(progress, 0, "Extracting oppositions from URL...")
	doc, err := s.docs.FetchListing(ctx, rawURL)
	if err != nil {
		return BatchAnalysis{}, fmt.Errorf("fetch listing: %w", err)
	}
	procs := ttabvue.ProceedingsFromListing(doc, dates)

	out := BatchAnalysis{
		CompanyName:     companyName,
		GVKey:           gvkey,
		OppositionCount: len(procs),
	}
	for i, proc := range procs {
		emit(progress, float64(i+1)/float64(len(procs)),
			fmt.Sprintf("Analyzing opposition %d/%d: %s", i+1, len(procs), proc.Number))

		a, err := s.AnalyzeOpposition(ctx, proc.Number, companyName, nil)
		if err != nil {
			out.Failures = append(out.Failures, BatchFailure{
				OppositionNumber: proc.Number,
				Error:            err.Error(),
			})
			s.sleep(s.delay)
			continue
		}
		a.GVKey = gvkey
		out.Rows = append(out.Rows, a)
		s.sleep(s.delay)
	}
	return out, nil
}
