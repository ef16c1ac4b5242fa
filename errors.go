package main

import "fmt"

// SourceError is a lexing or parsing fault tied to an absolute byte offset
// in the original source text.
type SourceError struct {
	Msg    string
	Offset int
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s (offset %d)", e.Msg, e.Offset)
}
