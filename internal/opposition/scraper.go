package opposition

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/joelkehle/opposition-research/internal/markclass"
	"github.com/joelkehle/opposition-research/internal/tsdr"
	"github.com/joelkehle/opposition-research/internal/ttabvue"
)

// ProceedingTypeOpposition is the TTABVue type code for oppositions.
const ProceedingTypeOpposition = "OPP"

// DocumentSource fetches proceeding and listing pages.
type DocumentSource interface {
	FetchProceeding(ctx context.Context, number, proceedingType string) (*ttabvue.Document, error)
	FetchPartySearch(ctx context.Context, partyName string) (*ttabvue.Document, error)
	FetchListing(ctx context.Context, rawURL string) (*ttabvue.Document, error)
}

// ClassSource fetches class data and mark images per serial number.
type ClassSource interface {
	FetchClasses(ctx context.Context, serial string) (tsdr.ClassSet, error)
	FetchImage(ctx context.Context, serial string) ([]byte, error)
}

// ImageClassifier assigns a mark type to raw image bytes. It never fails;
// classification degrades internally to its safe default.
type ImageClassifier interface {
	ClassifyImage(ctx context.Context, imageData []byte) markclass.MarkType
}

// Scraper drives the sequential, single-threaded scrape of oppositions.
// Remote calls are spaced by a fixed delay to respect the upstream
// services' informal rate limits.
type Scraper struct {
	docs    DocumentSource
	classes ClassSource
	marks   ImageClassifier
	delay   time.Duration
	sleep   func(time.Duration)
	tracer  trace.Tracer
}

type ScraperOption func(*Scraper)

// WithDelay sets the inter-request pause; useful values sit between 300ms
// and 750ms.
func WithDelay(d time.Duration) ScraperOption {
	return func(s *Scraper) { s.delay = d }
}

// WithSleep overrides the pause implementation, for tests.
func WithSleep(sleep func(time.Duration)) ScraperOption {
	return func(s *Scraper) { s.sleep = sleep }
}

func NewScraper(docs DocumentSource, classes ClassSource, marks ImageClassifier, opts ...ScraperOption) *Scraper {
	s := &Scraper{
		docs:    docs,
		classes: classes,
		marks:   marks,
		delay:   500 * time.Millisecond,
		sleep:   time.Sleep,
		tracer:  otel.Tracer("opposition-research/scraper"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScrapeOpposition builds the full Record for one opposition: parties,
// pleaded marks, per-serial classes and mark types, and the timeline.
// A class retrieval failure on one serial is recorded and processing
// continues with the next; only a failed page fetch aborts.
func (s *Scraper) ScrapeOpposition(ctx context.Context, number, proceedingType string, progress ProgressFn) (Record, error) {
	ctx, span := s.tracer.Start(ctx, "ScrapeOpposition",
		trace.WithAttributes(attribute.String("opposition.number", number)))
	defer span.End()

	emit(progress, 0, fmt.Sprintf("Fetching opposition %s...", number))
	doc, err := s.docs.FetchProceeding(ctx, number, proceedingType)
	if err != nil {
		return Record{}, fmt.Errorf("opposition %s: %w", number, err)
	}

	parties := ttabvue.ResolveParties(doc)
	refs := ttabvue.PleadedMarks(doc, parties)
	timeline := ttabvue.ExtractTimeline(doc)

	rec := Record{
		OppositionNumber: number,
		PlaintiffName:    parties.Plaintiff,
		DefendantName:    parties.Defendant,
		FilingDate:       timeline.FilingDate,
		TerminationDate:  timeline.TerminationDate,
		Outcome:          timeline.Outcome.String(),
	}

	uniqueUS := map[string]bool{}
	uniqueIntl := map[string]bool{}

	for i, ref := range refs {
		emit(progress, float64(i+1)/float64(len(refs)),
			fmt.Sprintf("Processing %d/%d: %s", i+1, len(refs), ref.SerialNumber))

		mr := s.processMark(ctx, ref)
		if mr.Error != "" {
			rec.Failed = append(rec.Failed, FailedSerial{
				SerialNumber: mr.SerialNumber,
				MarkName:     mr.MarkName,
				Tag:          mr.Error,
			})
		}
		for _, code := range mr.Classes.USCodes() {
			uniqueUS[code] = true
		}
		for _, code := range mr.Classes.InternationalCodes() {
			uniqueIntl[code] = true
		}
		rec.TotalUSClasses += len(mr.Classes.USClasses)
		rec.TotalInternationalClasses += len(mr.Classes.InternationalClasses)
		rec.Marks = append(rec.Marks, mr)

		s.sleep(s.delay)
	}

	rec.UniqueUSClasses = sortedKeys(uniqueUS)
	rec.UniqueInternationalClasses = sortedKeys(uniqueIntl)
	emit(progress, 1, "Complete")
	return rec, nil
}

// processMark performs the two remote lookups for one serial number. Class
// retrieval and image classification fail independently: a dead class API
// still yields a mark type, and a dead image service still yields classes.
func (s *Scraper) processMark(ctx context.Context, ref ttabvue.MarkReference) MarkResult {
	ctx, span := s.tracer.Start(ctx, "processMark",
		trace.WithAttributes(attribute.String("mark.serial", ref.SerialNumber)))
	defer span.End()

	mr := MarkResult{
		SerialNumber: ref.SerialNumber,
		MarkName:     ref.MarkName,
		Side:         ref.Side.String(),
	}

	classes, err := s.classes.FetchClasses(ctx, ref.SerialNumber)
	if err != nil {
		mr.Error = failureTag(err)
	} else {
		mr.Classes = classes
		mr.FilingDate = classes.FilingDate
		mr.USClassCodes = strings.Join(classes.USCodes(), ", ")
		mr.InternationalClassCodes = strings.Join(classes.InternationalCodes(), ", ")
	}

	mr.MarkType = s.classifyMark(ctx, ref.SerialNumber)
	return mr
}

// classifyMark fetches the raw image and classifies it. Fetch failures
// degrade to the conservative default rather than an error state.
func (s *Scraper) classifyMark(ctx context.Context, serial string) markclass.MarkType {
	img, err := s.classes.FetchImage(ctx, serial)
	if err != nil {
		return markclass.StylizedOrDesign
	}
	return s.marks.ClassifyImage(ctx, img)
}

func failureTag(err error) string {
	var re *tsdr.RequestError
	if errors.As(err, &re) {
		return re.Tag
	}
	return err.Error()
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
