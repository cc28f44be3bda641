package metrics

import "testing"

func TestMetricFieldKeysAreStable(t *testing.T) {
	if AttrProvider == "" || AttrNamespace == "" || AttrOutcome == "" || AttrStatus == "" {
		t.Fatalf("expected metric attribute keys to be non-empty")
	}
}
