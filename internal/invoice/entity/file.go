package entity

import (
	"bytes"
	"io"
	"strings"
)

// CandidateFile is the single user-supplied file staged for aggregation.
//
// Content is carried as-is; nothing in intake reads or inspects it.
type CandidateFile struct {
	Name      string
	Size      int64
	MediaType string
	Content   []byte
}

// IsCSV reports whether the file qualifies for intake: its declared media
// type is exactly text/csv or its name ends in ".csv". Both checks are
// case-sensitive, so "DATA.CSV" only qualifies by type.
func (f CandidateFile) IsCSV() bool {
	return f.MediaType == MediaTypeCSV || strings.HasSuffix(f.Name, ExtensionCSV)
}

// Open returns a reader over the file content.
func (f CandidateFile) Open() io.Reader {
	return bytes.NewReader(f.Content)
}
