package observ

import (
	"errors"
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("load")
	tm.End(idx, "2 units")
	err := tm.Measure("lower", func() (string, error) { return "", errors.New("boom") })
	if err == nil {
		t.Fatal("Measure must return fn's error")
	}
	tm.End(42, "ignored")

	rep := tm.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(rep.Phases))
	}
	if rep.Phases[0].Note != "2 units" || rep.Phases[1].Note != "failed" {
		t.Fatalf("unexpected notes %+v", rep.Phases)
	}
	sum := rep.Summary()
	for _, want := range []string{"timings:", "load", "lower", "// failed", "total"} {
		if !strings.Contains(sum, want) {
			t.Errorf("summary lacks %q:\n%s", want, sum)
		}
	}
}

func TestEmptyReport(t *testing.T) {
	if rep := NewTimer().Report(); rep.TotalMS != 0 || rep.Phases != nil {
		t.Fatalf("unexpected %+v", rep)
	}
}
