package entity

// AggregationEvent is published once per aggregation run.
type AggregationEvent struct {
	EventID   string
	SessionID string
	RunID     int64
	Kind      EventKind
	FileName  string
	Total     float64
	Err       string
}
