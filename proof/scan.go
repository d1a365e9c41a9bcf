package proof

import (
	"context"
	"math"

	"github.com/pageproof/pageproof"
)

// FontDeviationFactor is the number of standard deviations beyond which an
// element's font size counts as anomalous within its tag group.
const FontDeviationFactor = 1.5

// ScanFontSizes groups collected items by tag name and flags items whose
// computed font size deviates from the group mean by more than
// FontDeviationFactor standard deviations. Groups with fewer than two
// members or with uniform sizes produce no anomalies. Items whose elements
// fail to report a tag or size are skipped.
func ScanFontSizes(ctx context.Context, items []pageproof.TextItem) ([]pageproof.FontAnomaly, error) {
	type member struct {
		item pageproof.TextItem
		size float64
	}

	groups := make(map[string][]member)
	var order []string // group output order follows first appearance

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if item.Element == nil {
			continue
		}
		tag, err := item.Element.TagName(ctx)
		if err != nil {
			continue
		}
		size, err := item.Element.FontSize(ctx)
		if err != nil {
			continue
		}
		if _, ok := groups[tag]; !ok {
			order = append(order, tag)
		}
		groups[tag] = append(groups[tag], member{item: item, size: size})
	}

	var anomalies []pageproof.FontAnomaly
	for _, tag := range order {
		members := groups[tag]
		if len(members) < 2 {
			continue
		}

		var sum float64
		for _, m := range members {
			sum += m.size
		}
		mean := sum / float64(len(members))

		var variance float64
		for _, m := range members {
			variance += (m.size - mean) * (m.size - mean)
		}
		dev := math.Sqrt(variance / float64(len(members)-1))
		if dev == 0 {
			continue
		}

		for _, m := range members {
			if math.Abs(m.size-mean) <= FontDeviationFactor*dev {
				continue
			}
			anomalies = append(anomalies, pageproof.FontAnomaly{
				Index:     m.item.Index,
				Tag:       tag,
				Text:      m.item.Text,
				Size:      m.size,
				GroupMean: mean,
				GroupDev:  dev,
				Larger:    m.size > mean,
			})
		}
	}

	return anomalies, nil
}
