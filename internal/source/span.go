// Package source identifies locations in elaborated VHDL design files.
package source

import "fmt"

// FileID identifies the design file a node was elaborated from.
type FileID uint32

// NoFileID marks spans that do not point into any file.
const NoFileID FileID = 0

// Span is a byte range within one file.
type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

// NoSpan is used for diagnostics without a source location.
var NoSpan = Span{}

func (s Span) IsValid() bool { return s.File != NoFileID }

func (s Span) String() string {
	if !s.IsValid() {
		return "<no span>"
	}
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}
