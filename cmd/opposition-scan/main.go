package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joelkehle/opposition-research/internal/export"
	"github.com/joelkehle/opposition-research/internal/markclass"
	"github.com/joelkehle/opposition-research/internal/opposition"
	"github.com/joelkehle/opposition-research/internal/store"
	"github.com/joelkehle/opposition-research/internal/telemetry"
	"github.com/joelkehle/opposition-research/internal/tsdr"
	"github.com/joelkehle/opposition-research/internal/ttabvue"
)

func main() {
	oppNumber := flag.String("opposition", "", "Opposition number to scrape (e.g. 91291394)")
	partyName := flag.String("party", "", "Party name to search oppositions for")
	listingURL := flag.String("url", "", "TTABVue listing URL to scan")
	startDate := flag.String("start", "", "Earliest filing date filter (MM/DD/YYYY)")
	endDate := flag.String("end", "", "Latest filing date filter (MM/DD/YYYY)")
	delay := flag.Duration("delay", 500*time.Millisecond, "Pause between remote requests")
	excelOut := flag.String("excel", "", "Write Excel workbook to this path")
	jsonOut := flag.String("json", "", "Write JSON result to this path")
	pdfOut := flag.String("pdf", "", "Write PDF report to this path")
	dbPath := flag.String("db", "", "SQLite archive path (optional)")
	otelEndpoint := flag.String("otel-endpoint", os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"), "OTLP/HTTP trace endpoint")
	flag.Parse()

	if countSet(*oppNumber, *partyName, *listingURL) != 1 {
		log.Fatal("exactly one of -opposition, -party, or -url is required")
	}

	apiKey := requiredEnv("USPTO_API_KEY")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdown, err := telemetry.Init(ctx, "opposition-scan", *otelEndpoint)
	if err != nil {
		log.Fatal(err)
	}
	defer shutdown(context.Background())

	var vision markclass.VisionCaller
	if av, err := markclass.NewAnthropicVisionFromEnv(); err != nil {
		log.Printf("vision classification disabled: %v", err)
	} else {
		vision = av
	}

	scraper := opposition.NewScraper(
		ttabvue.NewClient(""),
		tsdr.NewClient(apiKey),
		markclass.New(vision, nil),
		opposition.WithDelay(*delay),
	)

	dates, err := parseDateRange(*startDate, *endDate)
	if err != nil {
		log.Fatal(err)
	}

	progress := func(fraction float64, status string) {
		log.Printf("[%3.0f%%] %s", fraction*100, status)
	}

	switch {
	case *oppNumber != "":
		rec, err := scraper.ScrapeOpposition(ctx, *oppNumber, opposition.ProceedingTypeOpposition, progress)
		if err != nil {
			log.Fatal(err)
		}
		if *dbPath != "" {
			archive, err := store.Open(*dbPath)
			if err != nil {
				log.Fatal(err)
			}
			defer archive.Close()
			if err := archive.SaveRecord(rec); err != nil {
				log.Fatal(err)
			}
		}
		writeRecordOutputs(ctx, rec, *excelOut, *jsonOut, *pdfOut)
	case *partyName != "":
		batch, err := scraper.ScrapePartyOppositions(ctx, *partyName, dates, progress)
		if err != nil {
			log.Fatal(err)
		}
		writeBatchOutputs(ctx, batch, *excelOut, *jsonOut, *pdfOut)
	default:
		batch, err := scraper.ScrapeListing(ctx, *listingURL, dates, progress)
		if err != nil {
			log.Fatal(err)
		}
		writeBatchOutputs(ctx, batch, *excelOut, *jsonOut, *pdfOut)
	}
}

func writeRecordOutputs(ctx context.Context, rec opposition.Record, excelOut, jsonOut, pdfOut string) {
	if excelOut != "" {
		b, err := export.RecordWorkbook(rec)
		if err != nil {
			log.Fatal(err)
		}
		mustWrite(excelOut, b)
	}
	if jsonOut != "" {
		if err := export.WriteJSON(jsonOut, rec); err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote %s", jsonOut)
	}
	if pdfOut != "" {
		renderPDF(ctx, opposition.BuildReport(rec), pdfOut)
	}
}

func writeBatchOutputs(ctx context.Context, batch opposition.BatchResult, excelOut, jsonOut, pdfOut string) {
	if excelOut != "" {
		b, err := export.BatchWorkbook(batch)
		if err != nil {
			log.Fatal(err)
		}
		mustWrite(excelOut, b)
	}
	if jsonOut != "" {
		if err := export.WriteJSON(jsonOut, batch); err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote %s", jsonOut)
	}
	if pdfOut != "" {
		renderPDF(ctx, opposition.BuildBatchReport(batch), pdfOut)
	}
}

func renderPDF(ctx context.Context, report, path string) {
	pdf, err := export.NewPDFRenderer().Render(ctx, report)
	if err != nil {
		log.Fatal(err)
	}
	mustWrite(path, pdf)
}

func parseDateRange(start, end string) (ttabvue.DateRange, error) {
	for _, d := range []string{start, end} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("01/02/2006", d); err != nil {
			return ttabvue.DateRange{}, fmt.Errorf("invalid date %q, expected MM/DD/YYYY", d)
		}
	}
	return ttabvue.DateRange{Start: start, End: end}, nil
}

func countSet(values ...string) int {
	n := 0
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}

func mustWrite(path string, data []byte) {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s", path)
}

func requiredEnv(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		log.Fatalf("missing required env var %s", key)
	}
	return v
}
