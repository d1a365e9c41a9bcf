package main

import (
	"fmt"
	"strings"

	"github.com/pageproof/pageproof"
)

// Run executes the report command.
func (c *ReportCmd) Run(deps *Dependencies) error {
	page, err := deps.Browser.NewPage(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pageproof.ErrorMessage(err))
		return err
	}
	defer page.Close()

	if err := page.Navigate(deps.Ctx, c.URL); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pageproof.ErrorMessage(err))
		return err
	}

	html, err := page.HTML(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pageproof.ErrorMessage(err))
		return err
	}

	report, err := deps.Reports.BuildReport(html, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pageproof.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, report.Title)
	fmt.Fprintln(deps.Stdout, report.URL)
	if report.MetaDescription != "" {
		fmt.Fprintln(deps.Stdout, report.MetaDescription)
	}
	fmt.Fprintf(deps.Stdout, "%d words\n", report.WordCount)

	for _, section := range c.sections() {
		printArtifact(deps, report, section, c.External)
	}

	return nil
}

// sections returns the artifact sections selected by flags, defaulting to
// all of them.
func (c *ReportCmd) sections() []string {
	var out []string
	if c.Headings {
		out = append(out, "headings")
	}
	if c.Paragraphs {
		out = append(out, "paragraphs")
	}
	if c.Images {
		out = append(out, "images")
	}
	if c.Links {
		out = append(out, "links")
	}
	if c.Tables {
		out = append(out, "tables")
	}
	if len(out) == 0 {
		return []string{"headings", "paragraphs", "images", "links", "tables"}
	}
	return out
}

// printArtifact prints one artifact section of a page report. externalOnly
// limits the links section to external destinations.
func printArtifact(deps *Dependencies, report *pageproof.PageReport, section string, externalOnly bool) {
	switch section {
	case "headings":
		fmt.Fprintf(deps.Stdout, "\nHeadings (%d):\n", len(report.Headings))
		for _, h := range report.Headings {
			fmt.Fprintf(deps.Stdout, "  %sh%d. %s\n", strings.Repeat("  ", h.Level-1), h.Level, h.Text)
		}
	case "paragraphs":
		fmt.Fprintf(deps.Stdout, "\nParagraphs (%d):\n", len(report.Paragraphs))
		for _, p := range report.Paragraphs {
			fmt.Fprintf(deps.Stdout, "  %s\n", snippet(p, 120))
		}
	case "images":
		fmt.Fprintf(deps.Stdout, "\nImages (%d):\n", len(report.Images))
		for _, img := range report.Images {
			alt := img.Alt
			if alt == "" {
				alt = "(no alt text)"
			}
			fmt.Fprintf(deps.Stdout, "  %s  %s\n", img.Src, alt)
		}
	case "links":
		links := report.Links
		if externalOnly {
			links = nil
			for _, l := range report.Links {
				if l.External {
					links = append(links, l)
				}
			}
		}
		fmt.Fprintf(deps.Stdout, "\nLinks (%d):\n", len(links))
		for _, l := range links {
			marker := ""
			if l.External {
				marker = " (external)"
			}
			fmt.Fprintf(deps.Stdout, "  %s  %s%s\n", l.Text, l.Href, marker)
		}
	case "tables":
		fmt.Fprintf(deps.Stdout, "\nTables (%d):\n", len(report.Tables))
		for i, t := range report.Tables {
			fmt.Fprintf(deps.Stdout, "  Table %d (%d rows):\n", i+1, len(t.Rows))
			if len(t.Headers) > 0 {
				fmt.Fprintf(deps.Stdout, "    %s\n", strings.Join(t.Headers, " | "))
			}
			for _, row := range t.Rows {
				fmt.Fprintf(deps.Stdout, "    %s\n", strings.Join(row, " | "))
			}
		}
	}
}
