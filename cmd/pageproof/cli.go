package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/pageproof/pageproof"
	"github.com/pageproof/pageproof/config"
	"github.com/pageproof/pageproof/proof"
	"github.com/pageproof/pageproof/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Config *config.Config
	Logger *slog.Logger

	DB      *sqlite.DB
	Runs    pageproof.RunService
	Prober  pageproof.Prober
	Browser pageproof.Browser
	Reports pageproof.ReportBuilder
	Runner  *proof.Runner
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Log service calls and durations"`

	Check  CheckCmd  `cmd:"" help:"Review a page's visible text and report corrections"`
	Report ReportCmd `cmd:"" help:"Extract page artifacts without running a review"`
	Runs   RunsCmd   `cmd:"" help:"List past review runs"`
	Show   ShowCmd   `cmd:"" help:"Show one run with its corrections"`
	Export ExportCmd `cmd:"" help:"Write a run's corrections to a CSV file"`
	Serve  ServeCmd  `cmd:"" help:"Serve the dashboard API"`
}

// CheckCmd is the "check" subcommand.
type CheckCmd struct {
	URL         string   `arg:"" help:"Page URL to review"`
	Artifacts   []string `short:"a" help:"Artifact sections to print (headings, paragraphs, images, links, tables)"`
	CSV         string   `help:"Write the corrections CSV to this path" type:"path"`
	Screenshot  string   `help:"Write a full-page screenshot PNG to this path" type:"path"`
	Highlight   bool     `help:"Style corrected elements on the live page"`
	ScanFonts   bool     `help:"Flag elements whose font size deviates from their tag group"`
	MaxTokens   int      `help:"Per-batch token budget (overrides PAGEPROOF_MAX_TOKENS)"`
	Concurrency int      `short:"c" help:"Parallel batch dispatch limit (1 = sequential)"`
	Stealth     bool     `help:"Mask automation fingerprints before navigation"`
	Visible     bool     `help:"Run the browser with a window"`
	Extractor   string   `default:"trafilatura" enum:"trafilatura,readability" help:"Main content extractor"`
}

// ReportCmd is the "report" subcommand.
type ReportCmd struct {
	URL        string `arg:"" help:"Page URL to extract"`
	Headings   bool   `help:"Print the heading outline"`
	Paragraphs bool   `help:"Print the leading paragraphs"`
	Images     bool   `help:"Print image sources and alt texts"`
	Links      bool   `help:"Print link destinations"`
	Tables     bool   `help:"Print table contents"`
	External   bool   `help:"Limit printed links to external destinations"`
	Extractor  string `default:"trafilatura" enum:"trafilatura,readability" help:"Main content extractor"`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	URL    string `help:"Only runs for this URL"`
	Status string `help:"Only runs with this status" enum:",completed,partial,failed" default:""`
	Limit  int    `default:"20" help:"Maximum runs to list"`
	Offset int    `help:"Runs to skip"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	RunID  string `arg:"" name:"run-id" help:"Run ID"`
	Marked bool   `help:"Print the diff-marked texts instead of the plain pair"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	RunID string `arg:"" name:"run-id" help:"Run ID"`
	Out   string `required:"" help:"CSV output path" type:"path"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `help:"Listen address (overrides PAGEPROOF_ADDR)"`
}
