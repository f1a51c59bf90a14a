package driver_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"vlower/internal/codegen"
	"vlower/internal/diag"
	"vlower/internal/driver"
	"vlower/internal/elab"
	"vlower/internal/hir"
	"vlower/internal/konst"
	"vlower/internal/llhd"
	"vlower/internal/trace"
	"vlower/internal/ty"
)

// counterDesign has one good entity and, when broken is set, a second one
// whose last statement cannot be lowered.
func counterDesign(broken bool) *elab.Design {
	b := elab.NewBuilder()
	tab := b.Types()
	bitDecl, bit := b.Enum("bit", "'0'", "'1'")
	count := tab.Named("count_t", tab.Int(0, ty.DirTo, 15))
	one := konst.Enum(bitDecl.ID, 1)

	b.Unit("counter", "rtl",
		[]hir.DeclRef{bitDecl, b.Signal("clk", bit, &one), b.Signal("q", count, nil)},
		b.Process("tick", nil, b.Seq(hir.SeqNull)),
		b.Process("", nil),
	)
	if broken {
		b.Unit("bad", "rtl", nil,
			b.Process("p0", nil),
			b.Conc(hir.ConcSigAssign),
		)
	}
	return b.Design()
}

func TestLowerDesignGolden(t *testing.T) {
	res, err := driver.LowerDesign(context.Background(), counterDesign(false), driver.Options{})
	if err != nil {
		t.Fatalf("LowerDesign: %v\n%s", err, diag.FormatShort(res.Bag.Items(), true))
	}
	var buf bytes.Buffer
	if err := llhd.Dump(&buf, res.Module); err != nil {
		t.Fatal(err)
	}
	want := `proc @counter_tick () -> () {
entry:
}

proc @counter_proc () -> () {
entry:
}

entity @counter () -> () {
entry:
    %0 = const i2 1
    %clk = sig i2 %0
    %2 = const i4 0
    %q = sig i4 %2
    inst @counter_tick () -> ()
    inst @counter_proc () -> ()
}
`
	if got := buf.String(); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
	if len(res.Lowered) != 1 || len(res.Failed) != 0 || len(res.Timing.Phases) != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestLowerUnitDiscardsStagedProcesses(t *testing.T) {
	d := counterDesign(true)
	out := llhd.NewModule()
	bag := diag.NewBag(10)
	err := driver.LowerUnit(context.Background(), d, d.Units[1], out, diag.BagReporter{Bag: bag})
	if !errors.Is(err, codegen.ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("failed design unit leaked %d units", out.Len())
	}
	if !bag.HasBugs() {
		t.Fatal("expected a bug diagnostic")
	}
}

func TestLowerDesignKeepGoing(t *testing.T) {
	tests := []struct {
		name      string
		keepGoing bool
		reorder   bool
		lowered   int
		units     int
	}{
		{"keep going", true, true, 1, 3},
		{"stop at first failure", false, true, 0, 0},
		{"failure after success", false, false, 1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := counterDesign(true)
			if tt.reorder {
				d.Units[0], d.Units[1] = d.Units[1], d.Units[0]
			}
			res, err := driver.LowerDesign(context.Background(), d, driver.Options{KeepGoing: tt.keepGoing})
			if err == nil || !errors.Is(err, codegen.ErrNotImplemented) {
				t.Fatalf("expected failure, got %v", err)
			}
			if len(res.Lowered) != tt.lowered || len(res.Failed) != 1 || res.Module.Len() != tt.units {
				t.Fatalf("lowered %v failed %v units %d", res.Lowered, res.Failed, res.Module.Len())
			}
			if err := llhd.Validate(res.Module); err != nil {
				t.Fatalf("partial module must stay valid: %v", err)
			}
		})
	}
}

func TestLowerDesignDuplicateEntity(t *testing.T) {
	b := elab.NewBuilder()
	b.Unit("top", "a", nil)
	b.Unit("TOP", "b", nil)
	res, err := driver.LowerDesign(context.Background(), b.Design(), driver.Options{KeepGoing: true})
	if !errors.Is(err, codegen.ErrReported) {
		t.Fatalf("expected ErrReported, got %v", err)
	}
	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.CgUnitRedefined {
		t.Fatalf("unexpected diagnostics %v", items)
	}
}

func TestLowerDesignTopSelection(t *testing.T) {
	d := counterDesign(true)
	res, err := driver.LowerDesign(context.Background(), d, driver.Options{Top: []string{"Counter"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Lowered) != 1 || res.Lowered[0] != "counter" {
		t.Fatalf("unexpected selection %v", res.Lowered)
	}

	res, err = driver.LowerDesign(context.Background(), d, driver.Options{Top: []string{"nope"}})
	if err == nil || res.Bag.Len() != 1 || res.Bag.Items()[0].Code != diag.PckUnknownDesign {
		t.Fatalf("expected unknown design diagnostic, got %v %v", err, res.Bag.Items())
	}
}

func TestLowerDesignCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := driver.LowerDesign(ctx, counterDesign(false), driver.Options{})
	if !errors.Is(err, context.Canceled) || res.Module.Len() != 0 {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestLowerDesignTracesUnits(t *testing.T) {
	var buf bytes.Buffer
	ctx := trace.WithTracer(context.Background(), trace.NewStreamTracer(&buf, trace.LevelDetail, trace.FormatText))
	if _, err := driver.LowerDesign(ctx, counterDesign(false), driver.Options{}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "unit:counter") || !strings.Contains(out, "lower") {
		t.Fatalf("missing spans:\n%s", out)
	}
}

func TestLowerPacks(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.hirpack")
	bad := filepath.Join(dir, "bad.hirpack")
	broken := filepath.Join(dir, "broken.hirpack")
	if err := elab.SaveFile(good, counterDesign(false)); err != nil {
		t.Fatal(err)
	}
	if err := elab.SaveFile(broken, counterDesign(true)); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("not a pack"), 0o600); err != nil {
		t.Fatal(err)
	}

	results, err := driver.LowerPacks(context.Background(), []string{good, bad, broken, filepath.Join(dir, "missing.hirpack")}, driver.Options{Jobs: 2, KeepGoing: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 || results[0].Path != good || results[1].Path != bad {
		t.Fatalf("results out of order: %+v", results)
	}
	if results[0].Err != nil || results[0].Result.Module.Len() != 3 {
		t.Fatalf("good pack: %v", results[0].Err)
	}
	if results[1].Err == nil || results[1].Result.Bag.Items()[0].Code != diag.PckBadFormat {
		t.Fatalf("bad pack must report a format error, got %v", results[1].Err)
	}
	if results[2].Err == nil || len(results[2].Result.Lowered) != 1 {
		t.Fatalf("broken pack: %v %+v", results[2].Err, results[2].Result)
	}
	if results[3].Err == nil || !results[3].Result.Bag.HasErrors() {
		t.Fatal("missing pack must fail with a diagnostic")
	}
}

type recordingSink struct {
	mu     sync.Mutex
	events []driver.Event
}

func (s *recordingSink) OnEvent(evt driver.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
}

func TestLowerPacksReportsProgress(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.hirpack")
	if err := elab.SaveFile(good, counterDesign(false)); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing.hirpack")

	sink := &recordingSink{}
	if _, err := driver.LowerPacks(context.Background(), []string{good, missing}, driver.Options{Jobs: 1, Progress: sink}); err != nil {
		t.Fatal(err)
	}
	final := map[string]driver.Status{}
	queued := 0
	for _, ev := range sink.events {
		if ev.Status == driver.StatusQueued {
			queued++
		}
		final[ev.File] = ev.Status
	}
	if queued != 2 || final[good] != driver.StatusDone || final[missing] != driver.StatusError {
		t.Fatalf("unexpected events %+v", sink.events)
	}
}
