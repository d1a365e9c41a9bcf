package main

import (
	"fmt"

	pphttp "github.com/pageproof/pageproof/http"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	addr := deps.Config.Addr
	if c.Addr != "" {
		addr = c.Addr
	}

	var reviewer pphttp.Reviewer
	if deps.Runner != nil {
		reviewer = deps.Runner
	}
	server := pphttp.NewServer(reviewer, deps.Runs, deps.Prober, deps.Logger)

	fmt.Fprintf(deps.Stdout, "Serving dashboard API on %s\n", addr)
	return server.ListenAndServe(deps.Ctx, addr)
}
