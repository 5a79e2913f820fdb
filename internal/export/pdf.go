package export

import (
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// reportCSS keeps the PDF readable without shipping a stylesheet on disk.
const reportCSS = `
body{font-family:Georgia,serif;color:#1c1917;line-height:1.5;font-size:11pt;}
h1{font-size:18pt;border-bottom:2px solid #92400e;padding-bottom:0.3rem;}
h2{font-size:13pt;color:#78350f;margin-top:1.4rem;}
table{width:100%;border-collapse:collapse;font-size:9pt;}
th,td{border:1px solid #a8a29e;padding:0.3rem 0.45rem;text-align:left;vertical-align:top;}
thead th{background:#f1f5f9;font-weight:700;}
code,pre{font-family:Menlo,monospace;font-size:8.5pt;background:#f5f5f4;}
pre{padding:0.5rem;overflow-x:auto;white-space:pre-wrap;word-break:break-all;}
`

// PDFRenderer turns a markdown report into a PDF via headless Chromium.
type PDFRenderer struct {
	chromePath string
}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{chromePath: detectChromePath()}
}

func (r *PDFRenderer) Render(ctx context.Context, report string) ([]byte, error) {
	htmlDoc, err := buildHTML(report)
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	}
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(timeoutCtx, append(chromedp.DefaultExecAllocatorOptions[:], opts...)...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	var pdf []byte
	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(htmlDoc))
	if err := chromedp.Run(taskCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			footer := `<div style="width:100%;text-align:center;font-size:9px;color:#666;">` +
				`Page <span class="pageNumber"></span> of <span class="totalPages"></span></div>`
			out, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithDisplayHeaderFooter(true).
				WithHeaderTemplate(`<div></div>`).
				WithFooterTemplate(footer).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0.5).
				WithMarginBottom(0.75).
				WithMarginLeft(0.45).
				WithMarginRight(0.45).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = out
			return nil
		}),
	); err != nil {
		return nil, err
	}
	return pdf, nil
}

func buildHTML(report string) (string, error) {
	var content strings.Builder
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(report), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	title := html.EscapeString(reportTitle(report))
	return "<!doctype html><html><head><meta charset='utf-8'><title>" + title + "</title>" +
		"<style>" + reportCSS +
		"html,body,*{-webkit-print-color-adjust:exact !important;print-color-adjust:exact !important;}" +
		"@media print{ @page{size:auto;margin:12mm;} }" +
		"</style></head><body>" + content.String() + "</body></html>", nil
}

// reportTitle uses the first markdown heading as the document title.
func reportTitle(report string) string {
	for _, line := range strings.Split(report, "\n") {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return "Opposition Report"
}

func detectChromePath() string {
	candidates := []string{
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/usr/bin/google-chrome",
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
