package reconcile

import (
	"strings"
	"testing"
)

func TestReconcileMissingDestination(t *testing.T) {
	src := []string{
		"interface eth 3",
		"  load interval 5",
		"interface eth 1",
	}

	result := Reconcile(src, nil)

	if !result.Changed {
		t.Errorf("Changed = false, want true for a missing destination")
	}
	if result.Before != "" {
		t.Errorf("Before = %q, want empty for a missing destination", result.Before)
	}
	want := "interface eth 1\ninterface eth 3\n  load interval 5\n"
	if result.After != want {
		t.Errorf("After = %q, want %q", result.After, want)
	}
}

func TestReconcileNoop(t *testing.T) {
	src := []string{
		"interface eth 3",
		"  load interval 5",
		"interface eth 1",
	}
	dest := []string{
		"interface eth 1",
		"interface eth 3",
		"  load interval 5",
	}

	result := Reconcile(src, dest)

	if result.Changed {
		t.Errorf("Changed = true for an up-to-date destination")
	}
	if result.Before != result.After {
		t.Errorf("Before and After differ on a no-op:\n%q\n%q", result.Before, result.After)
	}
	if got := result.UnifiedDiff(); got != "" {
		t.Errorf("UnifiedDiff() = %q, want empty on a no-op", got)
	}
}

func TestReconcileChanged(t *testing.T) {
	src := []string{
		"interface eth 1",
		"  description new",
	}
	dest := []string{
		"interface eth 1",
		"  description old",
	}

	result := Reconcile(src, dest)

	if !result.Changed {
		t.Fatalf("Changed = false, want true")
	}
	diff := result.UnifiedDiff()
	if !strings.Contains(diff, "-  description old") {
		t.Errorf("diff does not mark the removed line:\n%s", diff)
	}
	if !strings.Contains(diff, "+  description new") {
		t.Errorf("diff does not mark the added line:\n%s", diff)
	}
}

func TestReconcileEmptySource(t *testing.T) {
	result := Reconcile(nil, nil)
	if result.Changed {
		t.Errorf("Changed = true for empty source and missing destination")
	}
	if result.After != "" {
		t.Errorf("After = %q, want empty", result.After)
	}
}

func TestReconcileReportsDroppedLines(t *testing.T) {
	result := Reconcile([]string{"  orphan", "top"}, nil)
	if result.Dropped != 1 {
		t.Errorf("Dropped = %d, want 1", result.Dropped)
	}
	if result.After != "top\n" {
		t.Errorf("After = %q, want %q", result.After, "top\n")
	}
}
