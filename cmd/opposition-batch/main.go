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

// opposition-batch runs the one-row-per-opposition company analysis over
// every proceeding linked from a TTABVue listing URL.
func main() {
	listingURL := flag.String("url", "", "TTABVue listing URL to analyze")
	companyName := flag.String("company", "", "Company name to match against the parties")
	gvkey := flag.String("gvkey", "", "Company identifier carried into the output")
	startDate := flag.String("start", "", "Earliest filing date filter (MM/DD/YYYY)")
	endDate := flag.String("end", "", "Latest filing date filter (MM/DD/YYYY)")
	delay := flag.Duration("delay", 500*time.Millisecond, "Pause between remote requests")
	excelOut := flag.String("excel", "", "Write the analysis workbook to this path")
	jsonOut := flag.String("json", "", "Write JSON result to this path")
	dbPath := flag.String("db", "", "SQLite archive path (optional)")
	otelEndpoint := flag.String("otel-endpoint", os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"), "OTLP/HTTP trace endpoint")
	flag.Parse()

	if strings.TrimSpace(*listingURL) == "" || strings.TrimSpace(*companyName) == "" {
		log.Fatal("-url and -company are required")
	}

	apiKey := requiredEnv("USPTO_API_KEY")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdown, err := telemetry.Init(ctx, "opposition-batch", *otelEndpoint)
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

	batch, err := scraper.BatchAnalyze(ctx, *listingURL, *companyName, *gvkey, dates, progress)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("analyzed %d oppositions (%d failed)", len(batch.Rows), len(batch.Failures))

	if *dbPath != "" {
		archive, err := store.Open(*dbPath)
		if err != nil {
			log.Fatal(err)
		}
		defer archive.Close()
		for _, row := range batch.Rows {
			if err := archive.SaveAnalysis(row); err != nil {
				log.Fatal(err)
			}
		}
	}

	if *excelOut != "" {
		b, err := export.AnalysisWorkbook(batch)
		if err != nil {
			log.Fatal(err)
		}
		mustWrite(*excelOut, b)
	}
	if *jsonOut != "" {
		if err := export.WriteJSON(*jsonOut, batch); err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote %s", *jsonOut)
	}
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
