package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLines(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "plain LF with trailing newline",
			content: "a\n  b\nc\n",
			want:    []string{"a", "  b", "c"},
		},
		{
			name:    "no trailing newline",
			content: "a\n  b",
			want:    []string{"a", "  b"},
		},
		{
			name:    "CRLF normalized",
			content: "a\r\n  b\r\n",
			want:    []string{"a", "  b"},
		},
		{
			name:    "lone CR normalized",
			content: "a\r  b\r",
			want:    []string{"a", "  b"},
		},
		{
			name:    "interior blank lines preserved",
			content: "a\n\nb\n",
			want:    []string{"a", "", "b"},
		},
		{
			name:    "empty content",
			content: "",
			want:    nil,
		},
		{
			name:    "only a newline",
			content: "\n",
			want:    nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Lines([]byte(tc.content))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Lines(%q) mismatch (-want +got):\n%s", tc.content, diff)
			}
		})
	}
}
