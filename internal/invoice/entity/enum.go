package entity

// MediaTypeCSV is the only media type intake accepts by type.
const MediaTypeCSV = "text/csv"

// ExtensionCSV is the case-sensitive name suffix intake accepts.
const ExtensionCSV = ".csv"

// DefaultColumn is the column summed when none is configured.
const DefaultColumn = "Invoice Amount"

type EventKind string

const (
	EventKindCompleted EventKind = "COMPLETED"
	EventKindFailed    EventKind = "FAILED"
)
