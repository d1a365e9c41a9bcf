package main

import (
	"fmt"

	"github.com/pageproof/pageproof"
	"github.com/pageproof/pageproof/proof"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	filter := pageproof.RunFilter{Offset: c.Offset, Limit: c.Limit}
	if c.URL != "" {
		filter.URL = &c.URL
	}
	if c.Status != "" {
		status := pageproof.RunStatus(c.Status)
		filter.Status = &status
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pageproof.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs found. Use 'pageproof check <url>' to review a page.")
		return nil
	}

	for _, run := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %-9s  %s\n",
			run.ID, run.CreatedAt.Format("2006-01-02 15:04"), run.Status, proof.TruncateURL(run.URL, 60))
	}

	return nil
}
