package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/pageproof/pageproof"
	main "github.com/pageproof/pageproof/cmd/pageproof"
	"github.com/pageproof/pageproof/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func artifactReport() *pageproof.PageReport {
	return &pageproof.PageReport{
		URL:             "https://example.com",
		Title:           "Example Domain",
		MetaDescription: "An example page.",
		WordCount:       120,
		Headings: []pageproof.Heading{
			{Level: 1, Text: "Example Domain"},
			{Level: 2, Text: "More information"},
		},
		Paragraphs: []string{"This domain is for use in illustrative examples in documents."},
		Images: []pageproof.Image{
			{Src: "https://example.com/logo.png", Alt: "logo"},
			{Src: "https://example.com/hero.png"},
		},
		Links: []pageproof.Link{
			{Href: "https://example.com/about", Text: "About"},
			{Href: "https://www.iana.org/domains/example", Text: "More information...", External: true},
		},
		Tables: []pageproof.Table{
			{Headers: []string{"Plan", "Price"}, Rows: [][]string{{"Basic", "$10"}}},
		},
	}
}

func reportDeps(report *pageproof.PageReport) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	page := &mock.Page{
		NavigateFn: func(context.Context, string) error { return nil },
		HTMLFn:     func(context.Context) (string, error) { return "<html></html>", nil },
		CloseFn:    func() error { return nil },
	}

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: stderr,
		Browser: &mock.Browser{
			NewPageFn: func(context.Context) (pageproof.Page, error) { return page, nil },
		},
		Reports: &mock.ReportBuilder{
			BuildReportFn: func(_, _ string) (*pageproof.PageReport, error) { return report, nil },
		},
	}, stdout, stderr
}

func TestReportCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints all artifact sections by default", func(t *testing.T) {
		t.Parallel()

		deps, stdout, stderr := reportDeps(artifactReport())

		cmd := &main.ReportCmd{URL: "https://example.com"}

		err := cmd.Run(deps)

		require.NoError(t, err)

		output := stdout.String()
		assert.Contains(t, output, "Example Domain")
		assert.Contains(t, output, "An example page.")
		assert.Contains(t, output, "120 words")
		assert.Contains(t, output, "Headings (2):")
		assert.Contains(t, output, "h1. Example Domain")
		assert.Contains(t, output, "h2. More information")
		assert.Contains(t, output, "Paragraphs (1):")
		assert.Contains(t, output, "Images (2):")
		assert.Contains(t, output, "https://example.com/logo.png  logo")
		assert.Contains(t, output, "(no alt text)")
		assert.Contains(t, output, "Links (2):")
		assert.Contains(t, output, "(external)")
		assert.Contains(t, output, "Tables (1):")
		assert.Contains(t, output, "Plan | Price")
		assert.Contains(t, output, "Basic | $10")
		assert.Empty(t, stderr.String())
	})

	t.Run("prints only the selected sections", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := reportDeps(artifactReport())

		cmd := &main.ReportCmd{URL: "https://example.com", Headings: true}

		err := cmd.Run(deps)

		require.NoError(t, err)

		output := stdout.String()
		assert.Contains(t, output, "Headings (2):")
		assert.NotContains(t, output, "Images")
		assert.NotContains(t, output, "Links")
		assert.NotContains(t, output, "Tables")
	})

	t.Run("limits links to external destinations with --external", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := reportDeps(artifactReport())

		cmd := &main.ReportCmd{URL: "https://example.com", Links: true, External: true}

		err := cmd.Run(deps)

		require.NoError(t, err)

		output := stdout.String()
		assert.Contains(t, output, "Links (1):")
		assert.Contains(t, output, "https://www.iana.org/domains/example")
		assert.NotContains(t, output, "https://example.com/about")
	})

	t.Run("returns error when navigation fails", func(t *testing.T) {
		t.Parallel()

		page := &mock.Page{
			NavigateFn: func(context.Context, string) error {
				return errors.New("net::ERR_CONNECTION_REFUSED")
			},
			CloseFn: func() error { return nil },
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Browser: &mock.Browser{
				NewPageFn: func(context.Context) (pageproof.Page, error) { return page, nil },
			},
		}

		cmd := &main.ReportCmd{URL: "https://example.com"}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error:")
	})

	t.Run("returns error when the report cannot be built", func(t *testing.T) {
		t.Parallel()

		page := &mock.Page{
			NavigateFn: func(context.Context, string) error { return nil },
			HTMLFn:     func(context.Context) (string, error) { return "<html></html>", nil },
			CloseFn:    func() error { return nil },
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Browser: &mock.Browser{
				NewPageFn: func(context.Context) (pageproof.Page, error) { return page, nil },
			},
			Reports: &mock.ReportBuilder{
				BuildReportFn: func(_, _ string) (*pageproof.PageReport, error) {
					return nil, pageproof.Errorf(pageproof.EINVALID, "invalid page URL")
				},
			},
		}

		cmd := &main.ReportCmd{URL: "://bad"}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error:")
		assert.Empty(t, stdout.String())
	})
}
