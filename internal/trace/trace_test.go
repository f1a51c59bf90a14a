package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)

	span := Begin(tr, ScopeUnit, "unit:top", 0)
	Point(tr, ScopeNode, "signal", "clk", span.ID())
	span.End("ok")

	out := buf.String()
	if !strings.Contains(out, "unit:top") {
		t.Fatalf("unit span missing: %q", out)
	}
	if strings.Contains(out, "signal") {
		t.Fatalf("node events must be filtered at detail level: %q", out)
	}
	if strings.Count(out, "\n") != 2 {
		t.Fatalf("expected begin and end lines, got %q", out)
	}
}

func TestNDJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(tr, ScopeNode, "process", "@top_p0", 0)

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if got["name"] != "process" || got["detail"] != "@top_p0" || got["scope"] != "node" {
		t.Fatalf("unexpected event %v", got)
	}
}

func TestRingKeepsLastEvents(t *testing.T) {
	r := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(r, ScopeNode, name, "", 0)
	}
	snap := r.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestMultiFansOut(t *testing.T) {
	var buf bytes.Buffer
	ring := NewRingTracer(8, LevelDebug)
	m := NewMultiTracer(LevelDebug, NewStreamTracer(&buf, LevelDebug, FormatText), ring)
	Point(m, ScopePass, "lower", "", 0)
	if buf.Len() == 0 || len(ring.Snapshot()) != 1 {
		t.Fatal("event must reach every tracer")
	}
	if m.Ring() != ring {
		t.Fatal("Ring must return the ring tracer")
	}
}

func TestContextRoundTrip(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatal("missing tracer must default to Nop")
	}
	r := NewRingTracer(1, LevelPhase)
	ctx := WithTracer(context.Background(), r)
	if FromContext(ctx) != Tracer(r) {
		t.Fatal("tracer lost in context")
	}
}

func TestParseLevel(t *testing.T) {
	if l, err := ParseLevel("DEBUG"); err != nil || l != LevelDebug {
		t.Fatalf("ParseLevel: %v %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error")
	}
}
