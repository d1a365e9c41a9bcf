package main

import (
	"bufio"
	"fmt"

	"github.com/pageproof/pageproof"
	"github.com/pageproof/pageproof/fs"
	"github.com/pageproof/pageproof/proof"
)

// Run executes the check command.
func (c *CheckCmd) Run(deps *Dependencies) error {
	// Apply flag overrides to the wired runner
	deps.Runner.Highlight = c.Highlight
	deps.Runner.ScanFonts = c.ScanFonts
	deps.Runner.Screenshot = c.Screenshot != ""
	if c.MaxTokens > 0 {
		deps.Runner.MaxTokens = c.MaxTokens
	}
	if c.Concurrency > 0 {
		deps.Runner.Concurrency = c.Concurrency
	}
	// Highlights vanish with the page, so hold it open for inspection
	// when there is a window to inspect it in.
	if c.Highlight && c.Visible {
		deps.Runner.KeepPageOpen = true
	}

	progress := func(event proof.ProgressEvent) {
		switch event.Type {
		case proof.ProgressNavigated:
			fmt.Fprintf(deps.Stdout, "Loaded %s\n", proof.TruncateURL(event.URL, 80))
		case proof.ProgressCollected:
			fmt.Fprintf(deps.Stdout, "  Collected %d text elements\n", event.Items)
		case proof.ProgressPacked:
			fmt.Fprintf(deps.Stdout, "  Packed into %d batches\n", event.Total)
		case proof.ProgressBatchCompleted:
			fmt.Fprintf(deps.Stdout, "  Batch %d/%d corrected\n", event.Completed, event.Total)
		case proof.ProgressBatchFailed:
			fmt.Fprintf(deps.Stderr, "  batch failed: %v\n", event.Error)
		}
	}

	result, err := deps.Runner.Review(deps.Ctx, c.URL, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pageproof.ErrorMessage(err))
		return err
	}
	if result.Page != nil {
		defer result.Page.Close()
	}

	run := result.Run
	for _, item := range result.Dropped {
		fmt.Fprintf(deps.Stderr, "  skip item %d: exceeds the batch budget (%s)\n", item.Idx, proof.FormatBytes(len(item.Text)))
	}

	if len(run.Corrections) == 0 {
		fmt.Fprintln(deps.Stdout, "\nNo corrections suggested.")
	} else {
		fmt.Fprintf(deps.Stdout, "\n%d corrections:\n\n", len(run.Corrections))
		for _, rec := range run.Corrections {
			fmt.Fprintf(deps.Stdout, "  %d. %s\n     %s\n", rec.Index, rec.OriginalMarked, rec.CorrectedMarked)
		}
	}

	if c.ScanFonts {
		printAnomalies(deps, result.Anomalies)
	}

	if result.Report != nil {
		for _, section := range c.Artifacts {
			printArtifact(deps, result.Report, section, false)
		}
	}

	if c.CSV != "" {
		if err := fs.ExportCorrectionsCSV(c.CSV, run.Corrections); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", pageproof.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "\nWrote %d corrections to %s\n", len(run.Corrections), c.CSV)
	}

	if c.Screenshot != "" {
		if err := fs.WriteScreenshot(c.Screenshot, result.Screenshot); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", pageproof.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Wrote screenshot to %s (%s)\n", c.Screenshot, proof.FormatBytes(len(result.Screenshot)))
	}

	fmt.Fprintf(deps.Stdout, "\nRun %s %s (%d items, %d batches, %s)\n",
		run.ID, run.Status, run.Items, run.Batches, proof.FormatTokens(result.Tokens))
	if run.Error != "" {
		fmt.Fprintf(deps.Stderr, "  correction error: %s\n", run.Error)
	}

	if result.Page != nil {
		fmt.Fprint(deps.Stdout, "\nHighlights are on the page. Press Enter to close the browser...")
		_, _ = bufio.NewReader(deps.Stdin).ReadString('\n')
	}

	return nil
}

// printAnomalies lists elements whose font size deviates from their tag group.
func printAnomalies(deps *Dependencies, anomalies []pageproof.FontAnomaly) {
	if len(anomalies) == 0 {
		fmt.Fprintln(deps.Stdout, "\nNo font size anomalies.")
		return
	}

	fmt.Fprintf(deps.Stdout, "\n%d font size anomalies:\n\n", len(anomalies))
	for _, a := range anomalies {
		direction := "smaller"
		if a.Larger {
			direction = "larger"
		}
		fmt.Fprintf(deps.Stdout, "  %d. <%s> %q is %s than its group (%.1fpx, group mean %.1fpx)\n",
			a.Index, a.Tag, snippet(a.Text, 60), direction, a.Size, a.GroupMean)
	}
}

// snippet truncates text to maxLen runes for single-line display.
func snippet(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen]) + "..."
}
