package proof_test

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pageproof/pageproof"
	"github.com/pageproof/pageproof/mock"
	"github.com/pageproof/pageproof/proof"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reviewPage(selectorElements map[string][]pageproof.Element) *mock.Page {
	return &mock.Page{
		NavigateFn: func(context.Context, string) error { return nil },
		HTMLFn: func(context.Context) (string, error) {
			return "<html><body>content</body></html>", nil
		},
		TitleFn:    func(context.Context) (string, error) { return "Test Page", nil },
		ElementsFn: func(_ context.Context, selector string) ([]pageproof.Element, error) {
			return selectorElements[selector], nil
		},
		CloseFn: func() error { return nil },
	}
}

func testRunner(page pageproof.Page, corrector pageproof.Corrector) *proof.Runner {
	return &proof.Runner{
		Browser: &mock.Browser{
			NewPageFn: func(context.Context) (pageproof.Page, error) { return page, nil },
		},
		Corrector:    corrector,
		TokenCounter: charCounter(),
		Logger:       discardLogger(),
		Selectors:    []string{"p"},
		RetryDelays:  []time.Duration{},
	}
}

func TestRunner_Review(t *testing.T) {
	t.Parallel()

	t.Run("completes a run and persists it with joined corrections", func(t *testing.T) {
		t.Parallel()

		page := reviewPage(map[string][]pageproof.Element{
			"p": {visibleElement("Welcom to ours site"), visibleElement("All rights reserved")},
		})
		corrector := &mock.Corrector{
			CorrectFn: func(_ context.Context, _ *pageproof.Batch) ([]pageproof.Correction, error) {
				return []pageproof.Correction{{Idx: 0, Content: "Welcome to our site"}}, nil
			},
		}

		var saved *pageproof.Run
		r := testRunner(page, corrector)
		r.Runs = &mock.RunService{
			CreateRunFn: func(_ context.Context, run *pageproof.Run) error {
				saved = run
				return nil
			},
		}

		var events []proof.ProgressEvent
		result, err := r.Review(context.Background(), "https://example.com", func(e proof.ProgressEvent) {
			events = append(events, e)
		})

		require.NoError(t, err)
		require.NotNil(t, result)

		run := result.Run
		assert.Equal(t, pageproof.RunCompleted, run.Status)
		assert.Equal(t, "https://example.com", run.URL)
		assert.Equal(t, "Test Page", run.Title)
		assert.Equal(t, 2, run.Items)
		assert.Equal(t, 1, run.Batches)
		assert.Equal(t, 0, run.Dropped)
		assert.Empty(t, run.Error)
		assert.NotEmpty(t, run.ContentHash)

		require.Len(t, run.Corrections, 1)
		rec := run.Corrections[0]
		assert.Equal(t, 0, rec.Index)
		assert.Equal(t, "Welcom to ours site", rec.Original)
		assert.Equal(t, "Welcome to our site", rec.Corrected)
		assert.Equal(t, "**Welcom** to **ours** site", rec.OriginalMarked)
		assert.Equal(t, "**Welcome** to **our** site", rec.CorrectedMarked)

		assert.Same(t, run, saved)
		assert.Equal(t, 2, result.Stats.Collected)
		assert.Positive(t, result.Tokens)

		types := make([]proof.ProgressType, 0, len(events))
		for _, e := range events {
			types = append(types, e.Type)
		}
		assert.Equal(t, []proof.ProgressType{
			proof.ProgressNavigated,
			proof.ProgressCollected,
			proof.ProgressPacked,
			proof.ProgressBatchCompleted,
			proof.ProgressFinished,
		}, types)
	})

	t.Run("keeps corrections from completed batches when a later batch fails", func(t *testing.T) {
		t.Parallel()

		page := reviewPage(map[string][]pageproof.Element{
			"p": {visibleElement("a"), visibleElement("b")},
		})

		var calls atomic.Int64
		corrector := &mock.Corrector{
			CorrectFn: func(_ context.Context, batch *pageproof.Batch) ([]pageproof.Correction, error) {
				if calls.Add(1) > 1 {
					return nil, pageproof.Errorf(pageproof.ECORRECTION, "service down")
				}
				return []pageproof.Correction{{Idx: batch.Items[0].Idx, Content: "A"}}, nil
			},
		}

		r := testRunner(page, corrector)
		r.MaxTokens = 22 // one 1-char item per batch

		var failedEvents int
		result, err := r.Review(context.Background(), "https://example.com", func(e proof.ProgressEvent) {
			if e.Type == proof.ProgressBatchFailed {
				failedEvents++
			}
		})

		require.NoError(t, err)
		require.NotNil(t, result)

		assert.Equal(t, pageproof.RunPartial, result.Run.Status)
		assert.Contains(t, result.Run.Error, "batch 2/2")
		assert.Equal(t, 2, result.Run.Batches)
		require.Len(t, result.Run.Corrections, 1)
		assert.Equal(t, 0, result.Run.Corrections[0].Index)
		assert.Equal(t, 1, failedEvents)
	})

	t.Run("marks the run failed when no batch completes", func(t *testing.T) {
		t.Parallel()

		page := reviewPage(map[string][]pageproof.Element{
			"p": {visibleElement("broken text")},
		})
		corrector := &mock.Corrector{
			CorrectFn: func(_ context.Context, _ *pageproof.Batch) ([]pageproof.Correction, error) {
				return nil, pageproof.Errorf(pageproof.ECORRECTION, "service down")
			},
		}

		result, err := testRunner(page, corrector).Review(context.Background(), "https://example.com", nil)

		require.NoError(t, err)
		assert.Equal(t, pageproof.RunFailed, result.Run.Status)
		assert.Empty(t, result.Run.Corrections)
		assert.NotEmpty(t, result.Run.Error)
	})

	t.Run("refuses to run against an unavailable URL", func(t *testing.T) {
		t.Parallel()

		var pageOpened bool
		r := &proof.Runner{
			Browser: &mock.Browser{
				NewPageFn: func(context.Context) (pageproof.Page, error) {
					pageOpened = true
					return nil, nil
				},
			},
			Prober: &mock.Prober{
				ProbeFn: func(_ context.Context, url string) (*pageproof.Availability, error) {
					return &pageproof.Availability{URL: url, Available: false, Reason: "connection refused"}, nil
				},
			},
			Corrector:    &mock.Corrector{},
			TokenCounter: charCounter(),
			Logger:       discardLogger(),
		}

		result, err := r.Review(context.Background(), "https://down.example.com", nil)

		require.Error(t, err)
		assert.Nil(t, result)
		assert.Equal(t, pageproof.EUNAVAILABLE, pageproof.ErrorCode(err))
		assert.False(t, pageOpened, "no page should be opened for an unavailable URL")
	})

	t.Run("reports oversized items as dropped", func(t *testing.T) {
		t.Parallel()

		page := reviewPage(map[string][]pageproof.Element{
			"p": {visibleElement("ok"), visibleElement(strings.Repeat("x", 500))},
		})
		var sentIdx []int
		corrector := &mock.Corrector{
			CorrectFn: func(_ context.Context, batch *pageproof.Batch) ([]pageproof.Correction, error) {
				for _, item := range batch.Items {
					sentIdx = append(sentIdx, item.Idx)
				}
				return nil, nil
			},
		}

		r := testRunner(page, corrector)
		r.MaxTokens = 60

		result, err := r.Review(context.Background(), "https://example.com", nil)

		require.NoError(t, err)
		require.Len(t, result.Dropped, 1)
		assert.Equal(t, 1, result.Dropped[0].Idx)
		assert.Equal(t, []int{0}, sentIdx)
		assert.Equal(t, 1, result.Run.Dropped)
		assert.Equal(t, pageproof.RunCompleted, result.Run.Status)
	})

	t.Run("discards corrections for indices that were never sent", func(t *testing.T) {
		t.Parallel()

		page := reviewPage(map[string][]pageproof.Element{
			"p": {visibleElement("some text")},
		})
		corrector := &mock.Corrector{
			CorrectFn: func(_ context.Context, _ *pageproof.Batch) ([]pageproof.Correction, error) {
				return []pageproof.Correction{
					{Idx: 12345, Content: "made up"},
					{Idx: 0, Content: "some text!"},
				}, nil
			},
		}

		result, err := testRunner(page, corrector).Review(context.Background(), "https://example.com", nil)

		require.NoError(t, err)
		require.Len(t, result.Run.Corrections, 1)
		assert.Equal(t, 0, result.Run.Corrections[0].Index)
		assert.Equal(t, pageproof.RunCompleted, result.Run.Status)
	})

	t.Run("highlights corrected elements with the corrected text", func(t *testing.T) {
		t.Parallel()

		var note string
		el := &mock.Element{
			VisibleFn:   func(context.Context) (bool, error) { return true, nil },
			TextFn:      func(context.Context) (string, error) { return "speling error", nil },
			HighlightFn: func(_ context.Context, n string) error { note = n; return nil },
		}
		page := reviewPage(map[string][]pageproof.Element{
			"p": {el},
		})
		corrector := &mock.Corrector{
			CorrectFn: func(_ context.Context, _ *pageproof.Batch) ([]pageproof.Correction, error) {
				return []pageproof.Correction{{Idx: 0, Content: "spelling error"}}, nil
			},
		}

		r := testRunner(page, corrector)
		r.Highlight = true

		_, err := r.Review(context.Background(), "https://example.com", nil)

		require.NoError(t, err)
		assert.Equal(t, "spelling error", note)
	})

	t.Run("fills the title and markdown from the report and extractor", func(t *testing.T) {
		t.Parallel()

		page := reviewPage(map[string][]pageproof.Element{
			"p": {visibleElement("body copy")},
		})
		page.TitleFn = func(context.Context) (string, error) { return "", nil }

		corrector := &mock.Corrector{
			CorrectFn: func(_ context.Context, _ *pageproof.Batch) ([]pageproof.Correction, error) {
				return nil, nil
			},
		}

		r := testRunner(page, corrector)
		r.Reports = &mock.ReportBuilder{
			BuildReportFn: func(_, pageURL string) (*pageproof.PageReport, error) {
				return &pageproof.PageReport{URL: pageURL, Title: "Report Title", WordCount: 2}, nil
			},
		}
		r.Extractor = &mock.Extractor{
			ExtractFn: func(_ string) (*pageproof.ExtractResult, error) {
				return &pageproof.ExtractResult{Title: "Extractor Title", ContentHTML: "<p>body copy</p>"}, nil
			},
		}
		r.Converter = &mock.Converter{
			ConvertFn: func(_ string) (string, error) { return "body copy", nil },
		}

		result, err := r.Review(context.Background(), "https://example.com", nil)

		require.NoError(t, err)
		assert.Equal(t, "Report Title", result.Run.Title)
		assert.Equal(t, "body copy", result.Run.Markdown)
		require.NotNil(t, result.Report)
		assert.Equal(t, 2, result.Report.WordCount)
	})

	t.Run("parallel dispatch preserves batch order in the joined records", func(t *testing.T) {
		t.Parallel()

		page := reviewPage(map[string][]pageproof.Element{
			"p": {visibleElement("a"), visibleElement("b"), visibleElement("c"), visibleElement("d")},
		})
		corrector := &mock.Corrector{
			CorrectFn: func(_ context.Context, batch *pageproof.Batch) ([]pageproof.Correction, error) {
				out := make([]pageproof.Correction, 0, len(batch.Items))
				for _, item := range batch.Items {
					out = append(out, pageproof.Correction{Idx: item.Idx, Content: strings.ToUpper(item.Text)})
				}
				return out, nil
			},
		}

		r := testRunner(page, corrector)
		r.MaxTokens = 22 // one item per batch
		r.Concurrency = 4

		result, err := r.Review(context.Background(), "https://example.com", nil)

		require.NoError(t, err)
		assert.Equal(t, 4, result.Run.Batches)
		require.Len(t, result.Run.Corrections, 4)
		for i, want := range []string{"A", "B", "C", "D"} {
			assert.Equal(t, i, result.Run.Corrections[i].Index)
			assert.Equal(t, want, result.Run.Corrections[i].Corrected)
		}
	})

	t.Run("captures a screenshot when asked", func(t *testing.T) {
		t.Parallel()

		page := reviewPage(map[string][]pageproof.Element{
			"p": {visibleElement("text")},
		})
		page.ScreenshotFn = func(context.Context) ([]byte, error) {
			return []byte("png-bytes"), nil
		}
		corrector := &mock.Corrector{
			CorrectFn: func(_ context.Context, _ *pageproof.Batch) ([]pageproof.Correction, error) {
				return nil, nil
			},
		}

		r := testRunner(page, corrector)
		r.Screenshot = true

		result, err := r.Review(context.Background(), "https://example.com", nil)

		require.NoError(t, err)
		assert.Equal(t, []byte("png-bytes"), result.Screenshot)
	})
}
