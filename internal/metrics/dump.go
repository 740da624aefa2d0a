package metrics

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Dump writes the gathered state of the registry to w in a compact
// human-readable form. A one-shot process has no scrape endpoint, so this is
// how the run's metrics reach the operator.
func Dump(reg prometheus.Gatherer, w io.Writer) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	sort.Slice(families, func(i, j int) bool {
		return families[i].GetName() < families[j].GetName()
	})

	for _, family := range families {
		for _, metric := range family.GetMetric() {
			name := family.GetName()
			if labels := formatLabels(metric.GetLabel()); labels != "" {
				name += "{" + labels + "}"
			}

			switch family.GetType() {
			case dto.MetricType_COUNTER:
				fmt.Fprintf(w, "%s %v\n", name, metric.GetCounter().GetValue())
			case dto.MetricType_GAUGE:
				fmt.Fprintf(w, "%s %v\n", name, metric.GetGauge().GetValue())
			case dto.MetricType_HISTOGRAM:
				hist := metric.GetHistogram()
				fmt.Fprintf(w, "%s count=%d sum=%.3fs\n", name, hist.GetSampleCount(), hist.GetSampleSum())
			default:
				// Only counters, gauges and histograms are registered here.
			}
		}
	}

	return nil
}

func formatLabels(pairs []*dto.LabelPair) string {
	parts := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		parts = append(parts, pair.GetName()+"="+pair.GetValue())
	}
	return strings.Join(parts, ",")
}
