// Package proof provides page review orchestration.
// It coordinates browser navigation, visible-text collection, token-budgeted
// batching, correction dispatch, and the mapping of corrections back to the
// live elements they came from.
package proof

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/pageproof/pageproof"
)

// Runner orchestrates review runs against single pages.
type Runner struct {
	Browser      pageproof.Browser
	Prober       pageproof.Prober
	Corrector    pageproof.Corrector
	TokenCounter pageproof.TokenCounter
	Extractor    pageproof.Extractor
	Converter    pageproof.Converter
	Reports      pageproof.ReportBuilder
	Runs         pageproof.RunService
	Logger       *slog.Logger

	Selectors   []string
	MaxTokens   int
	Concurrency int
	RetryDelays []time.Duration
	Pacer       *Pacer

	NavigateTimeout time.Duration
	CorrectTimeout  time.Duration

	DismissOverlays bool
	Highlight       bool
	ScanFonts       bool
	Screenshot      bool

	// KeepPageOpen leaves the page open after the run and hands it to
	// the caller through Result.Page, so highlights stay visible until
	// the caller closes it.
	KeepPageOpen bool
}

// Result holds the outcome of a review run.
type Result struct {
	Run        *pageproof.Run
	Report     *pageproof.PageReport
	Stats      pageproof.CollectStats
	Dropped    []pageproof.BatchItem
	Anomalies  []pageproof.FontAnomaly
	Screenshot []byte
	Tokens     int

	// Page is set only when the runner's KeepPageOpen is enabled and the
	// run succeeded. The caller owns closing it.
	Page pageproof.Page
}

// ProgressEvent reports progress during a review run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int // batches corrected so far
	Total     int // total batches
	Items     int // collected items
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressNavigated ProgressType = iota
	ProgressCollected
	ProgressPacked
	ProgressBatchCompleted
	ProgressBatchFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting review progress.
type ProgressFunc func(event ProgressEvent)

// Review loads the URL, collects its visible text, and runs the correction
// pipeline over it. The progress callback, if provided, receives events as
// the run proceeds.
//
// A correction failure does not discard the run: batches corrected before
// the failure are joined and the run is recorded as partial (or failed when
// nothing completed) with the error message attached. Errors before any
// correction work, such as navigation or collection failures, are returned
// directly and nothing is recorded.
func (r *Runner) Review(ctx context.Context, url string, progress ProgressFunc) (*Result, error) {
	if r.Prober != nil {
		avail, err := r.Prober.Probe(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("probe: %w", err)
		}
		if !avail.Available {
			return nil, pageproof.Errorf(pageproof.EUNAVAILABLE, "%s did not answer: %s", url, avail.Reason)
		}
	}

	page, err := r.Browser.NewPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("new page: %w", err)
	}
	closePage := true
	defer func() {
		if closePage {
			page.Close()
		}
	}()

	navCtx := ctx
	if r.NavigateTimeout > 0 {
		var cancel context.CancelFunc
		navCtx, cancel = context.WithTimeout(ctx, r.NavigateTimeout)
		defer cancel()
	}
	if err := page.Navigate(navCtx, url); err != nil {
		return nil, fmt.Errorf("navigate %s: %w", url, err)
	}
	if progress != nil {
		progress(ProgressEvent{Type: ProgressNavigated, URL: url})
	}

	if r.DismissOverlays {
		if err := page.DismissOverlays(ctx); err != nil {
			r.logger().Warn("dismiss overlays", "url", url, "error", err)
		}
	}

	selectors := r.Selectors
	if len(selectors) == 0 {
		selectors = DefaultSelectors()
	}
	items, stats, err := Collect(ctx, page, selectors)
	if err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}
	if progress != nil {
		progress(ProgressEvent{Type: ProgressCollected, Items: len(items), URL: url})
	}

	html, err := page.HTML(ctx)
	if err != nil {
		return nil, fmt.Errorf("page html: %w", err)
	}
	title, err := page.Title(ctx)
	if err != nil {
		title = ""
	}

	var report *pageproof.PageReport
	if r.Reports != nil {
		report, err = r.Reports.BuildReport(html, url)
		if err != nil {
			return nil, fmt.Errorf("build report: %w", err)
		}
		if title == "" {
			title = report.Title
		}
	}

	markdown := r.contentMarkdown(html, &title)

	batches, dropped, err := Pack(ctx, items, r.TokenCounter, r.MaxTokens)
	if err != nil {
		return nil, fmt.Errorf("pack: %w", err)
	}
	for _, item := range dropped {
		r.logger().Warn("text exceeds the batch budget, skipped", "idx", item.Idx, "chars", len(item.Text))
	}
	if progress != nil {
		progress(ProgressEvent{Type: ProgressPacked, Total: len(batches), Items: len(items), URL: url})
	}

	var tokens int
	for _, batch := range batches {
		if n, err := batchTokens(ctx, r.TokenCounter, batch); err == nil {
			tokens += n
		}
	}

	corrections, completed, dispatchErr := r.dispatch(ctx, batches, progress)
	records := Join(items, corrections, r.logger())

	if r.Highlight {
		for _, rec := range records {
			if rec.Element == nil {
				continue
			}
			if err := rec.Element.Highlight(ctx, rec.Corrected); err != nil {
				r.logger().Warn("highlight", "idx", rec.Index, "error", err)
			}
		}
	}

	var anomalies []pageproof.FontAnomaly
	if r.ScanFonts {
		anomalies, err = ScanFontSizes(ctx, items)
		if err != nil {
			return nil, fmt.Errorf("font scan: %w", err)
		}
	}

	var shot []byte
	if r.Screenshot {
		shot, err = page.Screenshot(ctx)
		if err != nil {
			r.logger().Warn("screenshot", "url", url, "error", err)
		}
	}

	status := pageproof.RunCompleted
	var runErr string
	if dispatchErr != nil {
		status = pageproof.RunPartial
		if completed == 0 {
			status = pageproof.RunFailed
		}
		runErr = dispatchErr.Error()
	}

	run := &pageproof.Run{
		URL:         url,
		Title:       title,
		Status:      status,
		ContentHash: contentHash(items),
		Markdown:    markdown,
		Items:       len(items),
		Batches:     len(batches),
		Dropped:     len(dropped),
		Error:       runErr,
		Corrections: records,
	}
	if r.Runs != nil {
		if err := r.Runs.CreateRun(ctx, run); err != nil {
			return nil, fmt.Errorf("save run: %w", err)
		}
	}

	if progress != nil {
		progress(ProgressEvent{
			Type:      ProgressFinished,
			Completed: completed,
			Total:     len(batches),
			Items:     len(items),
			URL:       url,
		})
	}

	result := &Result{
		Run:        run,
		Report:     report,
		Stats:      stats,
		Dropped:    dropped,
		Anomalies:  anomalies,
		Screenshot: shot,
		Tokens:     tokens,
	}
	if r.KeepPageOpen {
		closePage = false
		result.Page = page
	}
	return result, nil
}

// contentMarkdown extracts the page's main content as markdown. The run
// still proceeds without it when extraction or conversion fails. When the
// page carried no usable title, the extractor's title fills it in.
func (r *Runner) contentMarkdown(html string, title *string) string {
	if r.Extractor == nil || r.Converter == nil {
		return ""
	}
	extracted, err := r.Extractor.Extract(html)
	if err != nil {
		r.logger().Warn("extract content", "error", err)
		return ""
	}
	if *title == "" {
		*title = extracted.Title
	}
	markdown, err := r.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		r.logger().Warn("convert content", "error", err)
		return ""
	}
	return markdown
}

// contentHash hashes the collected texts so later runs can tell whether the
// reviewed copy changed.
func contentHash(items []pageproof.TextItem) string {
	h := xxhash.New()
	for _, item := range items {
		_, _ = h.WriteString(item.Text)
		_, _ = h.Write([]byte{'\n'})
	}
	return fmt.Sprintf("%x", h.Sum64())
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// logf adapts the runner's logger to the retry helper's LogFunc.
func (r *Runner) logf() LogFunc {
	logger := r.logger()
	return func(format string, args ...any) {
		logger.Warn(fmt.Sprintf(format, args...))
	}
}
