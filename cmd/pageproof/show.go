package main

import (
	"fmt"
	"time"

	"github.com/pageproof/pageproof"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	run, err := deps.Runs.FindRunByID(deps.Ctx, c.RunID)
	if err != nil {
		if pageproof.ErrorCode(err) == pageproof.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: run %q not found. Use 'pageproof runs' to see recorded runs.\n", c.RunID)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", pageproof.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Run %s\n", run.ID)
	fmt.Fprintf(deps.Stdout, "  URL:     %s\n", run.URL)
	if run.Title != "" {
		fmt.Fprintf(deps.Stdout, "  Title:   %s\n", run.Title)
	}
	fmt.Fprintf(deps.Stdout, "  Status:  %s\n", run.Status)
	fmt.Fprintf(deps.Stdout, "  Created: %s\n", run.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(deps.Stdout, "  Content: %s\n", run.ContentHash)
	fmt.Fprintf(deps.Stdout, "  Counts:  %d items, %d batches, %d dropped\n", run.Items, run.Batches, run.Dropped)
	if run.Error != "" {
		fmt.Fprintf(deps.Stdout, "  Error:   %s\n", run.Error)
	}

	if len(run.Corrections) == 0 {
		fmt.Fprintln(deps.Stdout, "\nNo corrections recorded.")
		return nil
	}

	fmt.Fprintf(deps.Stdout, "\nCorrections (%d):\n\n", len(run.Corrections))
	for _, rec := range run.Corrections {
		original, corrected := rec.Original, rec.Corrected
		if c.Marked {
			original, corrected = rec.OriginalMarked, rec.CorrectedMarked
		}
		fmt.Fprintf(deps.Stdout, "  %d. %s\n     %s\n", rec.Index, original, corrected)
	}

	return nil
}
