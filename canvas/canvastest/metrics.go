package canvastest

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

// CounterValue sums every series of the named counter or gauge in g.
func CounterValue(t testing.TB, g prometheus.Gatherer, name string) float64 {
	t.Helper()
	families, err := g.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var sum float64
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, m := range family.GetMetric() {
			if c := m.GetCounter(); c != nil {
				sum += c.GetValue()
			}
			if gauge := m.GetGauge(); gauge != nil {
				sum += gauge.GetValue()
			}
		}
	}
	return sum
}
