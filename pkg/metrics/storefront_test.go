package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestStorefrontMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewStorefrontMetrics(reg)
	metrics.AddOrphans(2)
	metrics.AddOrphans(0)
	metrics.IncStale(KindCart)
	metrics.IncMutation(OutcomeApplied)
	metrics.IncMutation(OutcomeApplied)
	metrics.IncSearch()
	metrics.ObserveRemote("cart.update", 120*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "cart_orphan_entries_total", "", ""); err != nil {
		t.Fatalf("fetch orphans: %v", err)
	} else if got != 2 {
		t.Fatalf("expected orphans=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "stale_responses_total", "kind", KindCart); err != nil {
		t.Fatalf("fetch stale: %v", err)
	} else if got != 1 {
		t.Fatalf("expected stale=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "cart_mutations_total", "outcome", OutcomeApplied); err != nil {
		t.Fatalf("fetch mutations: %v", err)
	} else if got != 2 {
		t.Fatalf("expected mutations=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "search_queries_total", "", ""); err != nil {
		t.Fatalf("fetch searches: %v", err)
	} else if got != 1 {
		t.Fatalf("expected searches=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "remote_request_duration_seconds", "call", "cart.update"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestStorefrontMetricsNilSafe(t *testing.T) {
	var nilMetrics *StorefrontMetrics
	nilMetrics.AddOrphans(1)
	nilMetrics.IncStale(KindCatalog)

	unregistered := NewStorefrontMetrics(nil)
	unregistered.IncMutation(OutcomeFailed)
	unregistered.IncSearch()
	unregistered.ObserveRemote("", time.Second)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if label == "" || matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
