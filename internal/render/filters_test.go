package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFmtSize(t *testing.T) {
	testCases := []struct {
		name   string
		target string
		base   int
		upper  bool
		val    any
		want   any
	}{
		{name: "int to human", target: "human", base: 10, val: 1000, want: "1k"},
		{name: "large int to human", target: "human", base: 10, val: 10000000, want: "10m"},
		{name: "digit string to human", target: "human", base: 10, val: "10000000000", want: "10g"},
		{name: "small int stays bare", target: "human", base: 10, val: 999, want: "999"},
		{name: "human passthrough", target: "human", base: 10, val: "10g", want: "10g"},
		{name: "upper case", target: "human", base: 10, upper: true, val: 10000000, want: "10M"},
		{name: "human to raw", target: "raw", base: 10, val: "10g", want: int64(10000000000)},
		{name: "digit string to raw", target: "raw", base: 10, val: "1000", want: int64(1000)},
		{name: "int to raw", target: "raw", base: 10, val: 42, want: int64(42)},
		{name: "base2 to raw", target: "raw", base: 2, val: "1k", want: int64(1024)},
		{name: "base2 to human", target: "human", base: 2, val: 1048576, want: "1m"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FmtSize(tc.target, tc.base, tc.upper, tc.val)
			if err != nil {
				t.Fatalf("FmtSize() unexpected error = %v", err)
			}
			if got != tc.want {
				t.Errorf("FmtSize(%q, %d, %v, %v) = %v (%T), want %v (%T)",
					tc.target, tc.base, tc.upper, tc.val, got, got, tc.want, tc.want)
			}
		})
	}
}

func TestFmtSizeErrors(t *testing.T) {
	if _, err := FmtSize("human", 10, false, "not-a-size"); err == nil {
		t.Errorf("expected error for junk input")
	}
	if _, err := FmtSize("float", 10, false, 10); err == nil {
		t.Errorf("expected error for unknown target")
	}
	// Sizes past the int64 range must be rejected, not wrapped negative.
	if _, err := FmtSize("raw", 10, false, "100E"); err == nil {
		t.Errorf("expected error for size past the int64 range")
	}
	if _, err := FmtSize("raw", 10, false, "99999999999999999999"); err == nil {
		t.Errorf("expected error for digit string past the int64 range")
	}
	if got, err := FmtSize("raw", 10, false, "9E"); err != nil || got != int64(9000000000000000000) {
		t.Errorf("FmtSize(raw, 9E) = %v, %v; want 9000000000000000000", got, err)
	}
}

func TestSelectBy(t *testing.T) {
	mounts := []any{
		map[string]any{"name": "/var/www", "fstype": "nfs"},
		map[string]any{"name": "/opt/git", "fstype": "nfs"},
		map[string]any{"name": "/", "fstype": "ext4"},
	}

	got, err := SelectBy("fstype", "nfs", mounts)
	if err != nil {
		t.Fatalf("SelectBy() unexpected error = %v", err)
	}
	want := []map[string]any{
		{"name": "/var/www", "fstype": "nfs"},
		{"name": "/opt/git", "fstype": "nfs"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SelectBy() mismatch (-want +got):\n%s", diff)
	}
}

func TestStitch(t *testing.T) {
	defs := map[string]any{
		"web":  map[string]any{"name": "/var/www", "src": "nfs:/web"},
		"pics": map[string]any{"name": "/data/pics", "src": "nfs:/pics"},
	}

	got, err := Stitch(defs, []any{"web", "pics"})
	if err != nil {
		t.Fatalf("Stitch() unexpected error = %v", err)
	}
	want := []map[string]any{
		{"name": "/var/www", "src": "nfs:/web"},
		{"name": "/data/pics", "src": "nfs:/pics"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Stitch() mismatch (-want +got):\n%s", diff)
	}

	if _, err := Stitch(defs, []any{"missing"}); err == nil {
		t.Errorf("Stitch() error = nil for an unknown label")
	}
}

func TestStitchBy(t *testing.T) {
	defs := map[string]any{
		"web": map[string]any{"src": "nfs:/web"},
	}
	items := []any{
		map[string]any{"name": "web", "comment": "web stuff"},
	}

	got, err := StitchBy(defs, "name", items)
	if err != nil {
		t.Fatalf("StitchBy() unexpected error = %v", err)
	}
	// The label travels into the result when the definition lacks it.
	want := []map[string]any{
		{"src": "nfs:/web", "name": "web"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("StitchBy() mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeKeyed(t *testing.T) {
	defs := map[string]any{
		"uplinks": []any{
			map[string]any{"name": "xe-0/1/0", "speed": "10G"},
			map[string]any{"name": "xe-0/1/2", "speed": "10G"},
		},
		"spare": []any{
			map[string]any{"name": "ge-9/0/0"},
		},
	}
	items := []any{
		map[string]any{"label": "uplinks", "mtu": "jumbo"},
	}

	got, err := MergeKeyed(defs, "label", items)
	if err != nil {
		t.Fatalf("MergeKeyed() unexpected error = %v", err)
	}
	want := []map[string]any{
		{"label": "uplinks", "mtu": "jumbo", "name": "xe-0/1/0", "speed": "10G"},
		{"label": "uplinks", "mtu": "jumbo", "name": "xe-0/1/2", "speed": "10G"},
		{"label": "spare", "name": "ge-9/0/0"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MergeKeyed() mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeBy(t *testing.T) {
	defs := []any{
		map[string]any{"name": "xe-0/1/0", "label": "uplinks"},
		map[string]any{"name": "ge-0/0/0", "label": "peerlinks"},
	}
	items := []any{
		map[string]any{"label": "uplinks", "mtu": "jumbo"},
		map[string]any{"label": "unknown"},
	}

	got, err := MergeBy(defs, "label", items)
	if err != nil {
		t.Fatalf("MergeBy() unexpected error = %v", err)
	}
	want := []map[string]any{
		{"label": "uplinks", "mtu": "jumbo", "name": "xe-0/1/0"},
		{"label": "unknown"},
		{"name": "ge-0/0/0", "label": "peerlinks"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MergeBy() mismatch (-want +got):\n%s", diff)
	}
}

func TestCollapse(t *testing.T) {
	got, err := Collapse([]any{
		[]any{"a", "b"},
		[]any{"c"},
	})
	if err != nil {
		t.Fatalf("Collapse() unexpected error = %v", err)
	}
	if diff := cmp.Diff([]any{"a", "b", "c"}, got); diff != "" {
		t.Errorf("Collapse() mismatch (-want +got):\n%s", diff)
	}

	if _, err := Collapse([]any{"not-a-list"}); err == nil {
		t.Errorf("Collapse() error = nil for a flat element")
	}
}

func TestExpandRanges(t *testing.T) {
	items := []any{
		map[string]any{"name": "range", "prefix": "ge-0/1/", "range": []any{0, 3}},
		map[string]any{"name": "ge-1/0/0"},
	}

	got, err := ExpandRanges(items)
	if err != nil {
		t.Fatalf("ExpandRanges() unexpected error = %v", err)
	}
	var names []string
	for _, m := range got {
		names = append(names, m["name"].(string))
	}
	want := []string{"ge-0/1/0", "ge-0/1/1", "ge-0/1/2", "ge-1/0/0"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("ExpandRanges() names mismatch (-want +got):\n%s", diff)
	}
	// The expanded entries keep the rest of the range entry's fields.
	if got[0]["prefix"] != "ge-0/1/" {
		t.Errorf("expanded entry lost its fields: %v", got[0])
	}
}

func TestExpandRangesStep(t *testing.T) {
	items := []any{
		map[string]any{"name": "range", "prefix": "po", "range": []any{0, 10, 4}},
	}
	got, err := ExpandRanges(items)
	if err != nil {
		t.Fatalf("ExpandRanges() unexpected error = %v", err)
	}
	var names []string
	for _, m := range got {
		names = append(names, m["name"].(string))
	}
	if diff := cmp.Diff([]string{"po0", "po4", "po8"}, names); diff != "" {
		t.Errorf("ExpandRanges() step mismatch (-want +got):\n%s", diff)
	}

	items[0].(map[string]any)["range"] = []any{0, 10, 0}
	if _, err := ExpandRanges(items); err == nil {
		t.Errorf("ExpandRanges() error = nil for zero step")
	}
}
