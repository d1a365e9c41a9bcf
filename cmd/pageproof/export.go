package main

import (
	"fmt"

	"github.com/pageproof/pageproof"
	"github.com/pageproof/pageproof/fs"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	run, err := deps.Runs.FindRunByID(deps.Ctx, c.RunID)
	if err != nil {
		if pageproof.ErrorCode(err) == pageproof.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: run %q not found. Use 'pageproof runs' to see recorded runs.\n", c.RunID)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", pageproof.ErrorMessage(err))
		return err
	}

	if err := fs.ExportCorrectionsCSV(c.Out, run.Corrections); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pageproof.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Wrote %d corrections to %s\n", len(run.Corrections), c.Out)
	return nil
}
