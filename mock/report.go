package mock

import "github.com/pageproof/pageproof"

var _ pageproof.ReportBuilder = (*ReportBuilder)(nil)

// ReportBuilder is a mock implementation of pageproof.ReportBuilder.
type ReportBuilder struct {
	BuildReportFn func(html, pageURL string) (*pageproof.PageReport, error)
}

func (rb *ReportBuilder) BuildReport(html, pageURL string) (*pageproof.PageReport, error) {
	return rb.BuildReportFn(html, pageURL)
}
