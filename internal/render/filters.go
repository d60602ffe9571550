package render

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// The netconfig filter set: value-mapping helpers for abstracting
// vendor/model-specific data out of configuration templates. Each function is
// a pure mapping over template data; the collection argument always comes
// last so the filters compose in pipelines.

var sizeSuffixes = []string{"", "K", "M", "G", "T", "P", "E", "Z", "Y"}

func kfactor(base int) int64 {
	if base == 2 {
		return 1024
	}
	return 1000
}

// FmtSize converts a size between human form ("10g", "1k") and raw numeric
// form. target is "human" or "raw"; base selects 1k=1000 or 1k=1024. A value
// already in the requested form passes through.
func FmtSize(target string, base int, upper bool, val any) (any, error) {
	k := kfactor(base)
	switch target {
	case "human":
		if s, ok := val.(string); ok && !isDigits(s) {
			if _, ok := parseHumanSize(s, base); !ok {
				return nil, fmt.Errorf("fmtsize: invalid size %q", s)
			}
			return s, nil
		}
		n, err := sizeValue(val, base)
		if err != nil {
			return nil, err
		}
		for _, suffix := range sizeSuffixes {
			if n < k {
				if !upper {
					suffix = strings.ToLower(suffix)
				}
				return fmt.Sprintf("%d%s", n, suffix), nil
			}
			n /= k
		}
		return nil, fmt.Errorf("fmtsize: %v is too large to format", val)
	case "raw":
		return sizeValue(val, base)
	}
	return nil, fmt.Errorf("fmtsize: unknown target %q (want \"human\" or \"raw\")", target)
}

// sizeValue resolves val to a raw byte/bps count, accepting integers, digit
// strings and human-form strings.
func sizeValue(val any, base int) (int64, error) {
	switch v := val.(type) {
	case string:
		if n, ok := parseHumanSize(v, base); ok {
			return n, nil
		}
		return 0, fmt.Errorf("fmtsize: invalid size %q", v)
	default:
		if n, ok := toInt64(val); ok {
			return n, nil
		}
		return 0, fmt.Errorf("fmtsize: invalid size %v (%T)", val, val)
	}
}

// parseHumanSize parses "100", "10g", "1K" and friends. Sizes past the int64
// range are rejected.
func parseHumanSize(s string, base int) (int64, bool) {
	if s == "" {
		return 0, false
	}
	if isDigits(s) {
		n, err := strconv.ParseInt(s, 10, 64)
		return n, err == nil
	}
	digits, suffix := s[:len(s)-1], strings.ToUpper(s[len(s)-1:])
	if !isDigits(digits) || digits == "" {
		return 0, false
	}
	for i, known := range sizeSuffixes {
		if i == 0 {
			continue
		}
		if suffix == known {
			n, ok := parseHumanSize(digits, base)
			if !ok {
				return 0, false
			}
			k := kfactor(base)
			for j := 0; j < i; j++ {
				if n > math.MaxInt64/k {
					return 0, false
				}
				n *= k
			}
			return n, true
		}
	}
	return 0, false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// SelectBy returns the subset of items whose attr field equals val.
func SelectBy(attr string, val, items any) ([]map[string]any, error) {
	maps, err := toMaps(items)
	if err != nil {
		return nil, fmt.Errorf("selectBy: %w", err)
	}
	var out []map[string]any
	for _, m := range maps {
		if m[attr] == val {
			out = append(out, m)
		}
	}
	return out, nil
}

// Stitch maps a list of labels to their definitions in data.
func Stitch(data, keys any) ([]map[string]any, error) {
	defs, err := toMapOfMaps(data)
	if err != nil {
		return nil, fmt.Errorf("stitch: %w", err)
	}
	labels, err := toStrings(keys)
	if err != nil {
		return nil, fmt.Errorf("stitch: %w", err)
	}
	out := make([]map[string]any, 0, len(labels))
	for _, label := range labels {
		def, ok := defs[label]
		if !ok {
			return nil, fmt.Errorf("stitch: no definition for %q", label)
		}
		out = append(out, cloneMap(def))
	}
	return out, nil
}

// StitchBy is Stitch for items that are themselves maps: each item's attr
// field names the definition to resolve. The label is carried into the
// result when the definition does not set it.
func StitchBy(data any, attr string, items any) ([]map[string]any, error) {
	defs, err := toMapOfMaps(data)
	if err != nil {
		return nil, fmt.Errorf("stitchBy: %w", err)
	}
	maps, err := toMaps(items)
	if err != nil {
		return nil, fmt.Errorf("stitchBy: %w", err)
	}
	var out []map[string]any
	for _, m := range maps {
		label, ok := m[attr].(string)
		if !ok {
			return nil, fmt.Errorf("stitchBy: item has no %q label", attr)
		}
		def, ok := defs[label]
		if !ok {
			return nil, fmt.Errorf("stitchBy: no definition for %q", label)
		}
		merged := cloneMap(def)
		if _, exists := merged[attr]; !exists {
			merged[attr] = label
		}
		out = append(out, merged)
	}
	return out, nil
}

// MergeKeyed joins items against definitions keyed by label: each item whose
// attr field matches a key is expanded once per definition under that key,
// definition values overriding the item's. Items without a match pass
// through, and definitions never referenced come through tagged with their
// label.
func MergeKeyed(defs any, attr string, items any) ([]map[string]any, error) {
	keyed, err := toMapOfMapLists(defs)
	if err != nil {
		return nil, fmt.Errorf("mergeKeyed: %w", err)
	}
	maps, err := toMaps(items)
	if err != nil {
		return nil, fmt.Errorf("mergeKeyed: %w", err)
	}

	var out []map[string]any
	used := make(map[string]bool)
	for _, m := range maps {
		label, ok := m[attr].(string)
		if !ok {
			out = append(out, cloneMap(m))
			continue
		}
		matches := keyed[label]
		if len(matches) == 0 {
			out = append(out, cloneMap(m))
			continue
		}
		used[label] = true
		for _, d := range matches {
			merged := cloneMap(m)
			for k, v := range d {
				merged[k] = v
			}
			out = append(out, merged)
		}
	}

	labels := make([]string, 0, len(keyed))
	for label := range keyed {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		if used[label] {
			continue
		}
		for _, d := range keyed[label] {
			merged := cloneMap(d)
			merged[attr] = label
			out = append(out, merged)
		}
	}
	return out, nil
}

// MergeBy joins two lists of maps on a common attr, definition values
// overriding. An item may match several definitions and is expanded once per
// match; unmatched items and unmatched definitions both pass through.
func MergeBy(defs any, attr string, items any) ([]map[string]any, error) {
	defList, err := toMaps(defs)
	if err != nil {
		return nil, fmt.Errorf("mergeBy: %w", err)
	}
	maps, err := toMaps(items)
	if err != nil {
		return nil, fmt.Errorf("mergeBy: %w", err)
	}

	usedDef := make([]bool, len(defList))
	var out []map[string]any
	for _, m := range maps {
		label, ok := m[attr]
		if !ok {
			out = append(out, cloneMap(m))
			continue
		}
		matched := false
		for i, d := range defList {
			if d[attr] == label {
				merged := cloneMap(m)
				for k, v := range d {
					merged[k] = v
				}
				out = append(out, merged)
				usedDef[i] = true
				matched = true
			}
		}
		if !matched {
			out = append(out, cloneMap(m))
		}
	}
	for i, d := range defList {
		if !usedDef[i] {
			out = append(out, cloneMap(d))
		}
	}
	return out, nil
}

// Collapse flattens a list of lists into a single list.
func Collapse(lists any) ([]any, error) {
	v := reflect.ValueOf(lists)
	if v.Kind() != reflect.Slice {
		return nil, fmt.Errorf("collapse: not a list: %T", lists)
	}
	var out []any
	for i := 0; i < v.Len(); i++ {
		inner := reflect.ValueOf(v.Index(i).Interface())
		if inner.Kind() != reflect.Slice {
			return nil, fmt.Errorf("collapse: element %d is not a list", i)
		}
		for j := 0; j < inner.Len(); j++ {
			out = append(out, inner.Index(j).Interface())
		}
	}
	return out, nil
}

// ExpandRanges expands entries named "range" into concrete entries: prefix
// plus each number the entry's range bounds produce. All other entries pass
// through unchanged.
func ExpandRanges(items any) ([]map[string]any, error) {
	maps, err := toMaps(items)
	if err != nil {
		return nil, fmt.Errorf("expandRanges: %w", err)
	}
	var out []map[string]any
	for _, m := range maps {
		if m["name"] != "range" {
			out = append(out, cloneMap(m))
			continue
		}
		prefix, _ := m["prefix"].(string)
		start, stop, step, err := rangeBounds(m["range"])
		if err != nil {
			return nil, fmt.Errorf("expandRanges: %w", err)
		}
		for n := start; (step > 0 && n < stop) || (step < 0 && n > stop); n += step {
			entry := cloneMap(m)
			entry["name"] = fmt.Sprintf("%s%d", prefix, n)
			out = append(out, entry)
		}
	}
	return out, nil
}

// rangeBounds interprets a 1-, 2- or 3-element bounds list as
// [stop], [start, stop] or [start, stop, step]; stop is exclusive.
func rangeBounds(v any) (start, stop, step int64, err error) {
	bounds, err := toInts(v)
	if err != nil {
		return 0, 0, 0, err
	}
	switch len(bounds) {
	case 1:
		return 0, bounds[0], 1, nil
	case 2:
		return bounds[0], bounds[1], 1, nil
	case 3:
		if bounds[2] == 0 {
			return 0, 0, 0, fmt.Errorf("range step must not be zero")
		}
		return bounds[0], bounds[1], bounds[2], nil
	}
	return 0, 0, 0, fmt.Errorf("range wants 1 to 3 bounds, got %d", len(bounds))
}

// --- coercion helpers ---
//
// Template data arrives as whatever the YAML decoder produced, so collection
// arguments are coerced here instead of duck-typing inside each filter.

func toMaps(v any) ([]map[string]any, error) {
	switch s := v.(type) {
	case nil:
		return nil, nil
	case []map[string]any:
		return s, nil
	case []any:
		out := make([]map[string]any, 0, len(s))
		for i, e := range s {
			m, ok := e.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("element %d is not a map (%T)", i, e)
			}
			out = append(out, m)
		}
		return out, nil
	}
	return nil, fmt.Errorf("not a list of maps: %T", v)
}

func toMapOfMaps(v any) (map[string]map[string]any, error) {
	switch m := v.(type) {
	case map[string]map[string]any:
		return m, nil
	case map[string]any:
		out := make(map[string]map[string]any, len(m))
		for k, e := range m {
			inner, ok := e.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("value for %q is not a map (%T)", k, e)
			}
			out[k] = inner
		}
		return out, nil
	}
	return nil, fmt.Errorf("not a map of maps: %T", v)
}

func toMapOfMapLists(v any) (map[string][]map[string]any, error) {
	switch m := v.(type) {
	case map[string][]map[string]any:
		return m, nil
	case map[string]any:
		out := make(map[string][]map[string]any, len(m))
		for k, e := range m {
			list, err := toMaps(e)
			if err != nil {
				return nil, fmt.Errorf("value for %q: %w", k, err)
			}
			out[k] = list
		}
		return out, nil
	}
	return nil, fmt.Errorf("not a map of map lists: %T", v)
}

func toStrings(v any) ([]string, error) {
	switch s := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return s, nil
	case []any:
		out := make([]string, 0, len(s))
		for i, e := range s {
			str, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("element %d is not a string (%T)", i, e)
			}
			out = append(out, str)
		}
		return out, nil
	}
	return nil, fmt.Errorf("not a list of strings: %T", v)
}

func toInts(v any) ([]int64, error) {
	switch s := v.(type) {
	case []int:
		out := make([]int64, len(s))
		for i, n := range s {
			out[i] = int64(n)
		}
		return out, nil
	case []any:
		out := make([]int64, 0, len(s))
		for i, e := range s {
			n, ok := toInt64(e)
			if !ok {
				return nil, fmt.Errorf("element %d is not an integer (%T)", i, e)
			}
			out = append(out, n)
		}
		return out, nil
	}
	return nil, fmt.Errorf("not a list of integers: %T", v)
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
	}
	return 0, false
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
