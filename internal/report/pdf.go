package report

import (
	"context"
	_ "embed"
	"encoding/base64"
	"fmt"
	"html"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed style.css
var styleCSS string

// RenderError marks a failure to produce a document, as opposed to a failure
// to produce the assessment itself.
type RenderError struct {
	Format string
	Err    error
}

func (e *RenderError) Error() string { return fmt.Sprintf("render %s: %v", e.Format, e.Err) }
func (e *RenderError) Unwrap() error { return e.Err }

type PDFRenderer interface {
	Render(ctx context.Context, title, markdown string) ([]byte, error)
}

type ChromiumPDFRenderer struct {
	chromePath string
	timeout    time.Duration
}

// NewChromiumPDFRenderer uses chromePath when set, otherwise the first
// Chromium or Chrome binary found in the usual locations.
func NewChromiumPDFRenderer(chromePath string) *ChromiumPDFRenderer {
	if chromePath == "" {
		chromePath = detectChromePath()
	}
	return &ChromiumPDFRenderer{chromePath: chromePath, timeout: 30 * time.Second}
}

func (r *ChromiumPDFRenderer) Render(ctx context.Context, title, markdown string) ([]byte, error) {
	htmlDoc, err := BuildHTML(title, markdown)
	if err != nil {
		return nil, &RenderError{Format: "pdf", Err: err}
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
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
			footer := `<div style="width:100%;display:flex;justify-content:space-between;font-size:8px;color:#6b7280;padding:0 0.45in;">` +
				`<span>` + footerNote + `</span><span>Page <span class="pageNumber"></span> of <span class="totalPages"></span></span></div>`
			out, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithDisplayHeaderFooter(true).
				WithHeaderTemplate(`<div></div>`).
				WithFooterTemplate(footer).
				WithPaperWidth(8.5).
				WithPaperHeight(11).
				WithMarginTop(0.5).
				WithMarginBottom(0.75).
				WithMarginLeft(0.5).
				WithMarginRight(0.5).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = out
			return nil
		}),
	); err != nil {
		return nil, &RenderError{Format: "pdf", Err: err}
	}
	return pdf, nil
}

// BuildHTML converts the report markdown into a standalone printable page.
func BuildHTML(title, markdown string) (string, error) {
	var content strings.Builder
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(markdown), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return "<!doctype html><html><head><meta charset='utf-8'><title>" + html.EscapeString(title) + "</title>" +
		"<style>" + styleCSS + "</style></head><body>" +
		"<main class='report'>" + applyPrintLayoutHooks(content.String()) + "</main>" +
		"</body></html>", nil
}

var (
	reSectionHeading = regexp.MustCompile(`<h2([^>]*)>`)
	reUrgentHeading  = regexp.MustCompile(`<h3([^>]*)>\[(URGENT|HIGH)\]`)
)

// applyPrintLayoutHooks starts every section on a new page and tags the
// headings of urgent and high priority recommendations.
func applyPrintLayoutHooks(contentHTML string) string {
	out := reSectionHeading.ReplaceAllString(contentHTML, `<h2$1 data-page-break-before="true">`)
	return reUrgentHeading.ReplaceAllString(out, `<h3$1 data-priority="$2">[$2]`)
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
