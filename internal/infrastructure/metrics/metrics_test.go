package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.HTTPRequests.WithLabelValues("GET", "/health", "200").Inc()
	c.HTTPLatency.WithLabelValues("GET", "/health").Observe(0.01)
	c.Recomputes.WithLabelValues("updated").Add(2)

	if got := testutil.ToFloat64(c.Recomputes.WithLabelValues("updated")); got != 2 {
		t.Fatalf("recomputes = %v, want 2", got)
	}
	if n, err := testutil.GatherAndCount(reg); err != nil || n != 3 {
		t.Fatalf("gathered %d series, err=%v", n, err)
	}

	// registering twice on the same registry must panic
	defer func() {
		if recover() == nil {
			t.Fatal("expected duplicate registration panic")
		}
	}()
	New(reg)
}
