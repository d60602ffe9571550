// Package parser is the boundary between raw file content and the line
// sequences the sorter consumes. It does no interpretation beyond line
// splitting: the configuration language itself is opaque to this tool.
package parser

import "strings"

// Lines splits raw content into lines without terminators. CRLF and lone CR
// both count as line breaks. A trailing terminator does not produce a final
// empty line; interior blank lines are preserved for the caller to skip.
func Lines(content []byte) []string {
	s := string(content)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
