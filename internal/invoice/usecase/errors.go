package usecase

import "errors"

var (
	// ErrUnsupportedFileType means no submitted file passed the CSV check.
	ErrUnsupportedFileType = errors.New("unsupported file type")
	// ErrParseFailure means the file as a whole could not be decoded or read as CSV.
	ErrParseFailure = errors.New("parse failure")
	// ErrNoFile means an aggregation was requested with nothing staged.
	ErrNoFile = errors.New("no file selected")
)

const (
	msgUnsupportedFileType = "Only CSV files are supported."
	msgParseFailure        = "The file could not be read as CSV text. Check the file and try again."
	msgNoFile              = "Select a CSV file first."
)
